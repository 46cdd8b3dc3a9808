package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/polyscribe/polyscribe/internal/midi"
)

func newTransposeCmd() *cobra.Command {
	var (
		out          string
		steps        int
		includeDrums bool
	)

	cmd := &cobra.Command{
		Use:   "transpose <file.mid>",
		Short: "Transpose every note event in a MIDI file by a number of semitones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranspose(args[0], out, steps, includeDrums)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default: overwrite input)")
	cmd.Flags().IntVar(&steps, "steps", 0, "semitones to shift, positive or negative")
	cmd.Flags().BoolVar(&includeDrums, "include-drums", false, "also transpose events on the drum channel")

	return cmd
}

func runTranspose(path, out string, steps int, includeDrums bool) error {
	if out == "" {
		out = path
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	seq, err := midi.ReadFrom(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	midi.Transpose(seq, steps, includeDrums)

	outFile, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer outFile.Close()

	if err := midi.WriteTo(outFile, seq); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}
