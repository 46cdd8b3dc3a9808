// Package config handles analysis configuration file management: loading,
// saving, defaulting, and validating the AnalysisConfig (spec.md §3, §6).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/polyscribe/polyscribe/internal/pitch"
	"github.com/polyscribe/polyscribe/internal/window"
)

// BinWeight identifies a semitone bin-distance weighting function
// (spec.md §4.4 step d).
type BinWeight int

const (
	Uniform BinWeight = iota
	Discrete
	Linear
	Quadratic
	Exponential
)

// String returns the canonical name of a bin-weight type.
func (w BinWeight) String() string {
	switch w {
	case Discrete:
		return "discrete"
	case Linear:
		return "linear"
	case Quadratic:
		return "quadratic"
	case Exponential:
		return "exponential"
	default:
		return "uniform"
	}
}

// ParseBinWeight parses a bin-weight type name.
func ParseBinWeight(name string) (BinWeight, bool) {
	switch name {
	case "uniform", "":
		return Uniform, true
	case "discrete":
		return Discrete, true
	case "linear":
		return Linear, true
	case "quadratic":
		return Quadratic, true
	case "exponential":
		return Exponential, true
	default:
		return Uniform, false
	}
}

// Kind identifies the category of a configuration error.
type Kind int

const (
	InvalidConfig Kind = iota
)

// Error is the error kind the analyzer returns for malformed configuration
// (spec.md §7).
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// LinearEQ is the optional per-bin gain ramp applied when LinearEQActive is
// set (spec.md §4.4 step e): spec[k] *= intercept + k*slope.
type LinearEQ struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
}

// AnalysisConfig is the immutable-per-session configuration for the
// spectral analysis pipeline (spec.md §3, §6). Config is exported as JSON
// so it round-trips through Manager.
type AnalysisConfig struct {
	WindowLen  int `json:"windowLen"`
	ZeroPad    int `json:"zeroPad"`
	SampleRate int `json:"sampleRate"`

	PeakThreshold float64  `json:"peakThreshold"`
	LinearEQ      LinearEQ `json:"linearEq"`

	PCPActive       bool `json:"pcpActive"`
	HarmonicsActive bool `json:"harmonicsActive"`
	LinearEQActive  bool `json:"linearEqActive"`

	OctaveActive  [pitch.NumOctaves]bool `json:"octaveActive"`
	OctaveChannel [pitch.NumOctaves]int  `json:"octaveChannel"`

	BinWeight  BinWeight   `json:"binWeight"`
	WindowType window.Type `json:"windowType"`
}

// PaddedLen returns N = windowLen * zeroPad.
func (c *AnalysisConfig) PaddedLen() int { return c.WindowLen * c.ZeroPad }

// HalfLen returns H = N/2.
func (c *AnalysisConfig) HalfLen() int { return c.PaddedLen() / 2 }

// DefaultConfig returns the default analysis configuration.
func DefaultConfig() *AnalysisConfig {
	c := &AnalysisConfig{
		WindowLen:       2048,
		ZeroPad:         4,
		SampleRate:      44100,
		PeakThreshold:   20,
		LinearEQ:        LinearEQ{Intercept: 1, Slope: 0},
		PCPActive:       true,
		HarmonicsActive: true,
		LinearEQActive:  false,
		BinWeight:       Uniform,
		WindowType:      window.Hann,
	}
	for o := 0; o < pitch.NumOctaves; o++ {
		c.OctaveActive[o] = true
		c.OctaveChannel[o] = 0
	}
	return c
}

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Validate checks an AnalysisConfig for structurally invalid values
// (spec.md §7: non-power-of-two window length; unknown window or
// weighting type; zero-pad factor not in {1,2,4,8}).
func (c *AnalysisConfig) Validate() error {
	if !isPowerOfTwo(c.WindowLen) {
		return &Error{Kind: InvalidConfig, Msg: fmt.Sprintf("window length %d is not a power of two", c.WindowLen)}
	}
	switch c.ZeroPad {
	case 1, 2, 4, 8:
	default:
		return &Error{Kind: InvalidConfig, Msg: fmt.Sprintf("zero-pad factor %d must be one of 1,2,4,8", c.ZeroPad)}
	}
	if c.SampleRate <= 0 {
		return &Error{Kind: InvalidConfig, Msg: "sample rate must be positive"}
	}
	for _, ch := range c.OctaveChannel {
		if ch < 0 || ch > 15 {
			return &Error{Kind: InvalidConfig, Msg: fmt.Sprintf("octave channel %d out of range [0,15]", ch)}
		}
	}
	switch c.BinWeight {
	case Uniform, Discrete, Linear, Quadratic, Exponential:
	default:
		return &Error{Kind: InvalidConfig, Msg: fmt.Sprintf("unknown bin weight type %d", c.BinWeight)}
	}
	switch c.WindowType {
	case window.Rectangular, window.Hann, window.Hamming, window.Blackman, window.BlackmanHarris:
	default:
		return &Error{Kind: InvalidConfig, Msg: fmt.Sprintf("unknown window type %d", c.WindowType)}
	}
	return nil
}

// Manager handles loading and saving AnalysisConfig to a JSON file on disk.
type Manager struct {
	configDir  string
	configPath string
	config     *AnalysisConfig
}

// NewManager creates a new configuration manager rooted at configDir.
func NewManager(configDir string) *Manager {
	return &Manager{
		configDir:  configDir,
		configPath: filepath.Join(configDir, "analysis.json"),
		config:     DefaultConfig(),
	}
}

// Load reads the configuration from disk, writing out defaults if no file
// exists yet.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		m.config = DefaultConfig()
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.config = cfg
	return nil
}

// Save writes the configuration to disk.
func (m *Manager) Save() error {
	if err := os.MkdirAll(m.configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Get returns the current configuration.
func (m *Manager) Get() *AnalysisConfig { return m.config }

// GetPath returns the config file path.
func (m *Manager) GetPath() string { return m.configPath }

// Update replaces the configuration (after validating it) and saves it.
func (m *Manager) Update(cfg *AnalysisConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.config = cfg
	return m.Save()
}
