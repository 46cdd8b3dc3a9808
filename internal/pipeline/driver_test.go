package pipeline

import (
	"math"
	"sort"
	"sync"
	"testing"

	"github.com/polyscribe/polyscribe/internal/config"
	"github.com/polyscribe/polyscribe/internal/spectral"
	"github.com/polyscribe/polyscribe/internal/window"
)

// sliceSource is a trivial in-memory AudioSource over a fixed sample slice.
type sliceSource struct {
	sampleRate int
	samples    []float64
	pos        int
}

func (s *sliceSource) SampleRate() int { return s.sampleRate }
func (s *sliceSource) Len() int        { return len(s.samples) }
func (s *sliceSource) Read(buf []float64) (int, error) {
	n := copy(buf, s.samples[s.pos:])
	s.pos += n
	return n, nil
}

func testAnalyzer(t *testing.T) (*spectral.Analyzer, *config.AnalysisConfig) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.WindowLen = 256
	cfg.ZeroPad = 2
	cfg.SampleRate = 44100
	cfg.WindowType = window.Hann
	a, err := spectral.New(cfg)
	if err != nil {
		t.Fatalf("spectral.New: %v", err)
	}
	return a, cfg
}

func TestFrameCount(t *testing.T) {
	a, cfg := testAnalyzer(t)
	d := New(a, cfg.WindowLen)
	if got := d.FrameCount(1024); got != 4 {
		t.Errorf("FrameCount(1024) = %d, want 4", got)
	}
}

func TestRunProcessesAllFramesInOrder(t *testing.T) {
	a, cfg := testAnalyzer(t)
	d := New(a, cfg.WindowLen)

	src := &sliceSource{sampleRate: cfg.SampleRate, samples: make([]float64, cfg.WindowLen*3)}
	for i := range src.samples {
		src.samples[i] = math.Sin(float64(i))
	}

	var seen []int
	err := d.Run(src, func(n int, state *spectral.FrameState) {
		seen = append(seen, n)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(seen))
	}
	for i, n := range seen {
		if n != i {
			t.Errorf("frame %d out of order: got index %d", i, n)
		}
	}
}

func TestRunParallelCoversAllFrames(t *testing.T) {
	a, cfg := testAnalyzer(t)
	d := New(a, cfg.WindowLen)

	const numFrames = 10
	src := &sliceSource{sampleRate: cfg.SampleRate, samples: make([]float64, cfg.WindowLen*numFrames)}
	for i := range src.samples {
		src.samples[i] = math.Sin(float64(i) * 0.1)
	}

	var mu sync.Mutex
	var indices []int
	err := d.RunParallel(src, 4, func(r FrameResult) {
		mu.Lock()
		indices = append(indices, r.Index)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("RunParallel: %v", err)
	}
	if len(indices) != numFrames {
		t.Fatalf("expected %d results, got %d", numFrames, len(indices))
	}
	sort.Ints(indices)
	for i, idx := range indices {
		if idx != i {
			t.Errorf("missing frame index %d in results: %v", i, indices)
			break
		}
	}
}
