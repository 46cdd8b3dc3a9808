// Command polyscribe transcribes monophonic WAV audio into Standard MIDI
// Files using the polyscribe spectral analysis pipeline, and provides a
// few small utilities for inspecting and rewriting the resulting
// sequences.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
