package cli

import (
	"github.com/spf13/cobra"

	"github.com/johnquangdev/standup-assistant/internal/infrastructure/localstore"
)

func NewHistoryCmd(deps *Dependencies) *cobra.Command {
	var (
		team  string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished standups",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := NewFormatter(deps.Out)

			store, err := localstore.Open(deps.historyPath())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListByTeam(cmd.Context(), team, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				formatter.Info("No standups found")
				return nil
			}

			formatter.HistoryHeader()
			for _, r := range records {
				formatter.HistoryItem(r)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "only show this team")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of standups")

	return cmd
}
