package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shayanthavi/FitTrack-AI/internal/dbmigrate"
	"github.com/Shayanthavi/FitTrack-AI/pkg/logger"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled {
				return errors.New("database is not enabled in the configuration")
			}
			res, err := dbmigrate.Up(cfg.Database.URL(), logger.L())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema version %d (changed: %t, dirty: %t)\n", res.Version, res.Changed, res.Dirty)
			return nil
		},
	}
}
