package cli

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/internal/infrastructure/localstore"
	"github.com/johnquangdev/standup-assistant/pkg/config"
)

// Dependencies are shared by every subcommand
type Dependencies struct {
	Standup *config.StandupConfig
	Logger  *zap.Logger
	In      io.Reader
	Out     io.Writer
}

func (d *Dependencies) historyPath() string {
	if d.Standup != nil && d.Standup.HistoryFile != "" {
		return d.Standup.HistoryFile
	}
	return localstore.DefaultPath()
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "standup",
		Short:         "Run round-robin standups from the terminal",
		Long:          "A facilitator that asks each roster member for an update, keeps their time, and records tasks and blockers from the answers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewRunCmd(deps))
	rootCmd.AddCommand(NewExtractCmd(deps))
	rootCmd.AddCommand(NewHistoryCmd(deps))
	rootCmd.AddCommand(NewMigrateCmd(deps))

	return rootCmd
}
