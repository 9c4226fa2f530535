package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shayanthavi/FitTrack-AI/internal/app"
	"github.com/Shayanthavi/FitTrack-AI/internal/csvwriter"
	"github.com/Shayanthavi/FitTrack-AI/internal/dataset"
	"github.com/Shayanthavi/FitTrack-AI/pkg/logger"
)

func newPrepareCmd(opts *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "prepare <csv>",
		Short: "Clean and label a CSV file without training",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			p := dataset.NewPreparer(app.PrepareOptions(cfg.Training), logger.L())
			prepared, err := p.PrepareFile(args[0])
			if err != nil {
				return err
			}

			w, err := csvwriter.NewWriter(outPath, logger.L())
			if err != nil {
				return err
			}
			if err := w.WritePrepared(prepared); err != nil {
				w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s (%d read, %d dropped)\n",
				prepared.Rows, outPath, prepared.InputRows, prepared.Dropped)
			for _, warning := range prepared.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "Warning: %s\n", warning)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "cleaned.csv", "output CSV path")
	return cmd
}
