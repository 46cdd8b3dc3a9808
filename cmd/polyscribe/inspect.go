package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/polyscribe/polyscribe/internal/midi"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.mid>",
		Short: "Print a summary of a Standard MIDI File's structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

func runInspect(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	seq, err := midi.ReadFrom(f)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	fmt.Printf("format:     %d\n", seq.FileType)
	fmt.Printf("division:   %s\n", divisionLabel(seq))
	fmt.Printf("resolution: %d\n", seq.Resolution)
	fmt.Printf("tracks:     %d\n", len(seq.Tracks))
	fmt.Printf("ticks:      %d\n", seq.TickLength())

	for i, t := range seq.Tracks {
		fmt.Printf("  track %d: %d events, ends at tick %d\n", i, t.Len(), t.Ticks())
	}
	return nil
}

func divisionLabel(seq *midi.Sequence) string {
	if fps := seq.DivisionType.FramesPerSecond(); fps != 0 {
		return fmt.Sprintf("SMPTE %d fps", fps)
	}
	return "PPQ"
}
