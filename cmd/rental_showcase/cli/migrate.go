package cli

import (
	"fmt"
	"log/slog"

	"rental_showcase/internal/storage/postgresql"

	"github.com/spf13/cobra"
)

func NewMigrateCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			storage, err := postgresql.New(cmd.Context(), opts.Config.DSN)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer storage.Stop()

			applied, err := storage.Migrate(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}

			if len(applied) == 0 {
				opts.Log.Info("schema is up to date")
				return nil
			}

			opts.Log.Info("migrations applied", slog.Any("versions", applied))

			return nil
		},
	}
}
