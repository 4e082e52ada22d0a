package main

import (
	"fmt"
	"log/slog"

	"github.com/aobrainsystems/voxshift/internal/audio"
	"github.com/aobrainsystems/voxshift/internal/manifest"
	"github.com/aobrainsystems/voxshift/internal/timeline"
	"github.com/spf13/cobra"
)

func newComposeCmd() *cobra.Command {
	var manifestPath string
	var out string
	var minDuration float64

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose segment WAVs from a manifest into one timeline WAV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			if manifestPath == "" {
				return fmt.Errorf("--manifest is required")
			}

			outPath := cfg.Paths.Output
			if out != "" {
				outPath = out
			}

			minDur := cfg.Audio.MinDurationSec
			if cmd.Flags().Changed("min-duration") {
				minDur = minDuration
			}

			m, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}

			segments, err := m.Placements()
			if err != nil {
				return err
			}

			compositor, err := timeline.New(cfg.Audio.SampleRate,
				timeline.WithWorkers(cfg.Audio.Workers),
				timeline.WithLogger(slog.Default()),
			)
			if err != nil {
				return err
			}

			result, err := compositor.Compose(segments, minDur)
			if err != nil {
				return err
			}

			if err := audio.WriteFile(outPath, result); err != nil {
				return err
			}

			slog.Info("composed timeline",
				"segments", len(segments),
				"duration_sec", result.Duration(),
				"sample_rate", result.SampleRate,
				"out", outPath,
			)

			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Path to segment manifest JSON")
	cmd.Flags().StringVar(&out, "out", "", "Output WAV path (overrides paths.output)")
	cmd.Flags().Float64Var(&minDuration, "min-duration", 0, "Minimum output duration in seconds (overrides audio.min_duration_sec)")

	return cmd
}
