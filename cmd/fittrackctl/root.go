package main

import (
	"github.com/spf13/cobra"

	"github.com/Shayanthavi/FitTrack-AI/internal/config"
	"github.com/Shayanthavi/FitTrack-AI/pkg/logger"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "fittrackctl",
		Short:         "Train and query FitTrack wellness models",
		Long:          `fittrackctl prepares activity CSV files, trains the wellness score model, and queries the stored model without running the HTTP service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (defaults and environment only when empty)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(
		newTrainCmd(opts),
		newPredictCmd(opts),
		newInfoCmd(opts),
		newPrepareCmd(opts),
		newMigrateCmd(opts),
	)
	return root
}

// load reads the configuration and applies the log level.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	logger.SetGlobalLogLevel(cfg.LogLevel)
	return cfg, nil
}
