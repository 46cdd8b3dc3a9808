package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/polyscribe/polyscribe/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	verbose   bool
	configDir string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "polyscribe",
		Short:   "Polyphonic audio-to-MIDI transcription",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.Printf("polyscribe version %s starting...", Version)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default: ~/.config/polyscribe)")

	root.AddCommand(newTranscribeCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newTransposeCmd())

	return root
}

// loadConfigManager resolves configDir (applying the default if unset),
// ensures it exists, and loads (or seeds) the analysis configuration.
func loadConfigManager() (*config.Manager, error) {
	dir := configDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = home + "/.config/polyscribe"
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	mgr := config.NewManager(dir)
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return mgr, nil
}
