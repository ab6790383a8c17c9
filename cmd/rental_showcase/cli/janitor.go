package cli

import (
	"fmt"

	"rental_showcase/internal/app"

	"github.com/spf13/cobra"
)

// NewJanitorCommand запускает один проход очистки вне расписания
func NewJanitorCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "janitor",
		Short: "Delete unreferenced uploaded objects once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(cmd.Context(), opts.Log, opts.Config)
			if err != nil {
				return fmt.Errorf("failed to start application: %w", err)
			}
			defer application.Close()

			deleted, err := application.Janitor.RunNow(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d orphaned objects\n", deleted)

			return nil
		},
	}
}
