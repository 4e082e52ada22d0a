package main

import (
	"github.com/aobrainsystems/voxshift/internal/audio"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file.wav>",
		Short: "Print sample rate, sample count, and duration of a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := audio.ReadFile(args[0])
			if err != nil {
				return err
			}

			cmd.Printf("file: %s\n", args[0])
			cmd.Printf("sample_rate: %d Hz\n", buf.SampleRate)
			cmd.Printf("samples: %d\n", len(buf.Samples))
			cmd.Printf("duration: %.3f s\n", buf.Duration())

			return nil
		},
	}

	return cmd
}
