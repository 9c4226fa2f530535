package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Shayanthavi/FitTrack-AI/internal/app"
	"github.com/Shayanthavi/FitTrack-AI/pkg/logger"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the stored model's metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, nil, logger.L())
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := a.Store.Load(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(b.Metadata)
		},
	}
}
