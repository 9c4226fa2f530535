package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Shayanthavi/FitTrack-AI/internal/advice"
	"github.com/Shayanthavi/FitTrack-AI/internal/app"
	"github.com/Shayanthavi/FitTrack-AI/internal/inference"
	"github.com/Shayanthavi/FitTrack-AI/internal/wellness"
	"github.com/Shayanthavi/FitTrack-AI/pkg/logger"
)

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var (
		obs    wellness.Observation
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score one day of activity with the stored model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range []string{"steps", "sleep", "calories"} {
				if !cmd.Flags().Changed(name) {
					return fmt.Errorf("--%s is required", name)
				}
			}
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			a, err := app.New(cmd.Context(), cfg, nil, logger.L())
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Registry.LoadFrom(cmd.Context(), a.Store); err != nil {
				return err
			}

			pred, err := a.Engine.Predict(obs)
			if err != nil {
				return err
			}
			suggestions := advice.Suggest(obs.Steps, obs.SleepHours, obs.Calories, pred.Score)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Score       float64             `json:"score"`
					Model       string              `json:"model_used"`
					Suggestions []advice.Suggestion `json:"suggestions"`
				}{pred.Score, pred.Model, suggestions})
			}
			fmt.Fprintf(out, "Health score: %.1f (%s)\n", pred.Score, pred.Model)
			for _, s := range suggestions {
				fmt.Fprintf(out, "[%s] %s: %s\n  Tip: %s\n", s.Severity, s.Category, s.Message, s.Tip)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&obs.Steps, "steps", 0, "daily steps")
	cmd.Flags().Float64Var(&obs.SleepHours, "sleep", 0, "hours slept")
	cmd.Flags().IntVar(&obs.Calories, "calories", 0, "calories consumed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if err := obs.Validate(); err != nil {
			return &inference.InvalidInputError{Reason: err.Error()}
		}
		return nil
	}
	return cmd
}
