package pipeline

import (
	"math"
	"runtime"
	"sync"

	"github.com/polyscribe/polyscribe/internal/pitch"
	"github.com/polyscribe/polyscribe/internal/spectral"
)

// FrameResult pairs a frame index with its analyzed state, since the
// parallel driver below may complete frames out of submission order.
type FrameResult struct {
	Index int
	Notes []pitch.Note
	PCP   [12]float64
}

// Driver slices a source into non-overlapping windowLen-sample frames and
// drives the spectral analyzer over each (spec.md §4.6). No overlap is
// used; a short tail frame is zero-padded.
type Driver struct {
	analyzer  *spectral.Analyzer
	windowLen int
}

// New builds a Driver over an already-constructed Analyzer.
func New(analyzer *spectral.Analyzer, windowLen int) *Driver {
	return &Driver{analyzer: analyzer, windowLen: windowLen}
}

// FrameCount returns round(L/W) for total sample count l.
func (d *Driver) FrameCount(l int) int {
	return int(math.Round(float64(l) / float64(d.windowLen)))
}

// Run processes src sequentially, frame by frame, calling onFrame for each
// completed frame in ascending order. onFrame receives the frame index and
// its FrameState; the FrameState's Spec and Notes slices are reused across
// calls and must not be retained by the caller past the call (copy what
// you need).
func (d *Driver) Run(src AudioSource, onFrame func(n int, state *spectral.FrameState)) error {
	w := d.windowLen
	total := src.Len()
	frames := d.FrameCount(total)

	x := make([]float64, w)
	scratch := d.analyzer.NewScratch()
	state := d.analyzer.NewFrameState()

	for n := 0; n < frames; n++ {
		got, err := src.Read(x)
		if err != nil {
			return err
		}
		for i := got; i < w; i++ {
			x[i] = 0
		}
		d.analyzer.Analyze(x, scratch, state)
		onFrame(n, state)
	}
	return nil
}

// RunParallel processes src's frames concurrently, each against its own
// Scratch and FrameState (spec.md §5: "frames MAY be parallelized by the
// host if each worker holds its own FrameState buffers"). Frame n depends
// only on frame n's input and the shared AnalysisConfig, so no
// cross-frame coordination is needed beyond collecting results. workers
// <= 0 defaults to runtime.NumCPU()-1 (minimum 1).
func (d *Driver) RunParallel(src AudioSource, workers int, onResult func(FrameResult)) error {
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
	}
	if workers < 1 {
		workers = 1
	}

	w := d.windowLen
	total := src.Len()
	frames := d.FrameCount(total)

	// Frame reads happen sequentially against the shared source (the
	// source's read position is the only cross-frame coordination
	// point); analysis of each frame's buffer runs on a worker.
	type job struct {
		index int
		x     []float64
	}

	jobs := make(chan job, workers)
	results := make(chan FrameResult, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scratch := d.analyzer.NewScratch()
			state := d.analyzer.NewFrameState()
			for j := range jobs {
				d.analyzer.Analyze(j.x, scratch, state)
				notes := make([]pitch.Note, len(state.Notes))
				copy(notes, state.Notes)
				results <- FrameResult{Index: j.index, Notes: notes, PCP: state.PCP}
			}
		}()
	}

	var readErr error
	go func() {
		defer close(jobs)
		for n := 0; n < frames; n++ {
			x := make([]float64, w)
			got, err := src.Read(x)
			if err != nil {
				readErr = err
				return
			}
			for i := got; i < w; i++ {
				x[i] = 0
			}
			jobs <- job{index: n, x: x}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		onResult(r)
	}
	return readErr
}
