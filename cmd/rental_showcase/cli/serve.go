package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"rental_showcase/internal/app"
	"rental_showcase/internal/lib/logger/sl"

	"github.com/spf13/cobra"
)

func NewServeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the orphan janitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.Log

			log.Info("starting rental showcase", slog.String("env", opts.Config.Env))

			application, err := app.New(cmd.Context(), log, opts.Config)
			if err != nil {
				return fmt.Errorf("failed to start application: %w", err)
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("http server started", slog.String("address", opts.Config.HTTP.Address()))
				errCh <- application.Run()
			}()

			// Graceful shutdown
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case <-ctx.Done():
				log.Info("shutdown signal received")
			case err := <-errCh:
				if err != nil {
					log.Error("http server failed", sl.Err(err))
				}
			}

			application.Stop()

			log.Info("Gracefully stopped")

			return nil
		},
	}
}
