package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/standup-assistant/internal/usecase/insight"
)

func NewExtractCmd(deps *Dependencies) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Show the tasks, blockers and notes found in an answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ins := insight.Extract(strings.Join(args, " "), owner)
			NewFormatter(deps.Out).Insights(ins)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "member the answer belongs to")

	return cmd
}
