package cli

import (
	"fmt"
	"io"
	"log/slog"

	"rental_showcase/internal/config"
	"rental_showcase/internal/lib/logger"

	"github.com/spf13/cobra"
)

type VersionInfo struct {
	Version string
	Commit  string
}

// Options заполняется в PersistentPreRunE и общая для всех подкоманд
type Options struct {
	ConfigPath string

	Config *config.Config
	Log    *slog.Logger

	logCloser io.Closer
}

func NewRootCommand(info VersionInfo, opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rental_showcase",
		Short:         "Rental Showcase API server",
		Long:          "Backend of the rental showcase: properties, units and ordered image galleries.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["config"] == "skip" {
				return nil
			}
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.close()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default is $CONFIG_PATH, then environment only)")

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	return cmd
}

func (o *Options) load() error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, closer := logger.Setup(cfg.Env, cfg.Log.File, logger.Rotation{
		MaxSize:    cfg.Log.Rotation.MaxSize,
		MaxBackups: cfg.Log.Rotation.MaxBackups,
		MaxAge:     cfg.Log.Rotation.MaxAge,
		Compress:   cfg.Log.Rotation.Compress,
	})

	o.Config = cfg
	o.Log = log
	o.logCloser = closer

	return nil
}

func (o *Options) close() {
	if o.logCloser != nil {
		_ = o.logCloser.Close()
	}
}
