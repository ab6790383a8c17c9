package cli

import (
	"fmt"

	"rental_showcase/internal/app"
	"rental_showcase/internal/seed"

	"github.com/spf13/cobra"
)

func NewSeedCommand(opts *Options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load properties, units and images from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := seed.ReadFile(file)
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), opts.Log, opts.Config)
			if err != nil {
				return fmt.Errorf("failed to start application: %w", err)
			}
			defer application.Close()

			sum, err := seed.New(opts.Log, application.Properties, application.Units, application.Media).
				Apply(cmd.Context(), data)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d properties, %d units, %d hero images\n",
				sum.Properties, sum.Units, sum.HeroImages)

			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "config/seed.example.yaml", "seed file")

	return cmd
}
