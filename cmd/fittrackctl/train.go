package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Shayanthavi/FitTrack-AI/internal/app"
	"github.com/Shayanthavi/FitTrack-AI/pkg/logger"
)

func newTrainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "train <csv>",
		Short: "Train the wellness model on a CSV file and store it",
		Args:  cobra.ExactArgs(1),
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

			res, err := a.Trainer.TrainFromCSV(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			meta := res.Bundle.Metadata
			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODEL\tRMSE\tMAE\tR2\tCV R2")
			for _, name := range meta.Candidates {
				m := meta.Metrics[name]
				fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\n", name, m.RMSE, m.MAE, m.R2, m.CVScore)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Best model: %s (version %s, %d rows)\n", meta.SelectedModel, meta.Version, meta.Rows)
			if meta.SyntheticSleep {
				fmt.Fprintln(out, "Note: sleep_hours was synthesized")
			}
			if meta.SyntheticLabels {
				fmt.Fprintln(out, "Note: health_score labels were synthesized")
			}
			return nil
		},
	}
}
