package cli

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/standup-assistant/internal/infrastructure/database"
	"github.com/johnquangdev/standup-assistant/pkg/config"
)

func NewMigrateCmd(deps *Dependencies) *cobra.Command {
	var (
		down  bool
		steps int
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply archive database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			db, err := database.NewPostgresDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			dir := migrate.Up
			if down {
				dir = migrate.Down
				if steps == 0 {
					steps = 1
				}
			}

			n, err := database.Migrate(db, dir, steps)
			if err != nil {
				return err
			}
			NewFormatter(deps.Out).Success(fmt.Sprintf("Applied %d migrations", n))
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back instead of applying")
	cmd.Flags().IntVar(&steps, "steps", 0, "number of migrations to run (0 means all; --down defaults to 1)")

	return cmd
}
