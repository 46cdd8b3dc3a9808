package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejectsBadWindowLen(t *testing.T) {
	c := DefaultConfig()
	c.WindowLen = 1000
	if err := c.Validate(); err == nil {
		t.Error("non-power-of-two window length should fail validation")
	}
}

func TestValidateRejectsBadZeroPad(t *testing.T) {
	c := DefaultConfig()
	c.ZeroPad = 3
	if err := c.Validate(); err == nil {
		t.Error("zero-pad factor of 3 should fail validation")
	}
}

func TestValidateRejectsBadOctaveChannel(t *testing.T) {
	c := DefaultConfig()
	c.OctaveChannel[2] = 99
	if err := c.Validate(); err == nil {
		t.Error("out-of-range octave channel should fail validation")
	}
}

func TestPaddedLenAndHalfLen(t *testing.T) {
	c := DefaultConfig()
	c.WindowLen = 2048
	c.ZeroPad = 4
	if c.PaddedLen() != 8192 {
		t.Errorf("PaddedLen() = %d, want 8192", c.PaddedLen())
	}
	if c.HalfLen() != 4096 {
		t.Errorf("HalfLen() = %d, want 4096", c.HalfLen())
	}
}

func TestParseBinWeight(t *testing.T) {
	if b, ok := ParseBinWeight("quadratic"); !ok || b != Quadratic {
		t.Errorf("ParseBinWeight(quadratic) = (%v,%v), want (Quadratic,true)", b, ok)
	}
	if _, ok := ParseBinWeight("nonsense"); ok {
		t.Error("ParseBinWeight(nonsense) should fail")
	}
}

func TestManagerLoadSeedsDefaultsThenPersists(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(dir)
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mgr.GetPath() != filepath.Join(dir, "analysis.json") {
		t.Errorf("GetPath() = %q", mgr.GetPath())
	}

	cfg := mgr.Get()
	cfg.PeakThreshold = 42
	if err := mgr.Update(cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded := NewManager(dir)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Get().PeakThreshold != 42 {
		t.Errorf("reloaded PeakThreshold = %v, want 42", reloaded.Get().PeakThreshold)
	}
}

func TestManagerUpdateRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	mgr := NewManager(dir)
	if err := mgr.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	bad := mgr.Get()
	bad.WindowLen = 999
	if err := mgr.Update(bad); err == nil {
		t.Error("Update should reject an invalid config")
	}
}
