package spectral

import (
	"math"
	"testing"

	"github.com/polyscribe/polyscribe/internal/config"
	"github.com/polyscribe/polyscribe/internal/window"
)

func baseConfig() *config.AnalysisConfig {
	c := config.DefaultConfig()
	c.WindowLen = 2048
	c.ZeroPad = 4
	c.SampleRate = 44100
	c.WindowType = window.Hann
	c.BinWeight = config.Uniform
	c.PCPActive = true
	c.HarmonicsActive = true
	c.PeakThreshold = 20
	return c
}

func sineFrame(freq float64, fs float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * freq * float64(i) / fs)
	}
	return x
}

func TestPureToneA4(t *testing.T) {
	cfg := baseConfig()
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	scratch := a.NewScratch()
	state := a.NewFrameState()

	x := sineFrame(440, float64(cfg.SampleRate), cfg.WindowLen)
	a.Analyze(x, scratch, state)

	if len(state.Notes) != 1 {
		t.Fatalf("expected exactly 1 note, got %d: %+v", len(state.Notes), state.Notes)
	}
	n := state.Notes[0]
	if n.Pitch != 69 {
		t.Errorf("pitch = %d, want 69", n.Pitch)
	}
	binWidth := float64(cfg.SampleRate) / float64(cfg.PaddedLen())
	if math.Abs(n.Frequency-440) >= binWidth {
		t.Errorf("frequency = %f, want within %f of 440", n.Frequency, binWidth)
	}
}

func TestOctaveHarmonicSuppression(t *testing.T) {
	cfg := baseConfig()
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	scratch := a.NewScratch()
	state := a.NewFrameState()

	fs := float64(cfg.SampleRate)
	x := make([]float64, cfg.WindowLen)
	for i := range x {
		t := float64(i) / fs
		x[i] = math.Sin(2*math.Pi*220*t) + 0.5*math.Sin(2*math.Pi*440*t)
	}
	a.Analyze(x, scratch, state)

	if len(state.Notes) != 1 {
		t.Fatalf("expected exactly 1 note (440Hz harmonic suppressed), got %d: %+v", len(state.Notes), state.Notes)
	}
	if state.Notes[0].Pitch != 57 {
		t.Errorf("pitch = %d, want 57 (A3)", state.Notes[0].Pitch)
	}
}

func TestMaskedOctaveSuppressesAllNotes(t *testing.T) {
	cfg := baseConfig()
	cfg.OctaveActive[4] = false
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	scratch := a.NewScratch()
	state := a.NewFrameState()

	x := sineFrame(440, float64(cfg.SampleRate), cfg.WindowLen)
	a.Analyze(x, scratch, state)

	if len(state.Notes) != 0 {
		t.Fatalf("expected zero notes with octave 4 masked, got %d: %+v", len(state.Notes), state.Notes)
	}
}

func TestEmptyFrameIsValid(t *testing.T) {
	cfg := baseConfig()
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	scratch := a.NewScratch()
	state := a.NewFrameState()

	x := make([]float64, cfg.WindowLen) // silence
	a.Analyze(x, scratch, state)

	if len(state.Notes) != 0 {
		t.Errorf("silent frame should produce zero notes, got %d", len(state.Notes))
	}
}
