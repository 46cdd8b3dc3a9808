// Package spectral implements the per-frame spectral analysis pipeline:
// windowing, zero-padding, FFT, semitone bin weighting, pitch-class-profile
// reinforcement, parabolic peak interpolation, and harmonic suppression
// (spec.md §4.4). It owns no state shared across frames beyond the
// read-only window table, FFT plan, and octave bands (spec.md §5); each
// call to Analyze is free of side effects on the Analyzer itself.
package spectral

import (
	"math"

	"github.com/polyscribe/polyscribe/internal/config"
	"github.com/polyscribe/polyscribe/internal/fftadapter"
	"github.com/polyscribe/polyscribe/internal/pitch"
	"github.com/polyscribe/polyscribe/internal/window"
)

// FrameState is the result of analyzing one frame (spec.md §3).
type FrameState struct {
	// Spec is the magnitude spectrum after weighting and PCP reinforcement,
	// length H = N/2. Also the value persisted into the spectrogram slot
	// for this frame (spec.md §4.4 step 8).
	Spec []float64

	// PCP is the pitch-class profile, normalized so its max element is 1
	// (or left all-zero if every bin's energy was zero).
	PCP [12]float64

	// Notes are the peaks that survived local-maximum, threshold, and
	// harmonic-suppression tests, ordered by ascending bin index of
	// detection.
	Notes []pitch.Note
}

// Analyzer runs the spectral analysis pipeline for one fixed
// AnalysisConfig. It is safe for concurrent use by multiple goroutines as
// long as each caller passes its own scratch buffers via NewScratch /
// its own *FrameState via NewFrameState — Analyzer itself holds no per-frame mutable state
// (spec.md §5).
type Analyzer struct {
	cfg   config.AnalysisConfig
	win   window.Table
	fft   *fftadapter.RealFFT
	bands pitch.OctaveBands
}

// New builds an Analyzer for cfg. cfg is copied; the returned Analyzer is
// immutable for its lifetime.
func New(cfg *config.AnalysisConfig) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.PaddedLen()
	return &Analyzer{
		cfg:   *cfg,
		win:   window.New(cfg.WindowType, cfg.WindowLen),
		fft:   fftadapter.New(n),
		bands: pitch.ComputeOctaveBands(float64(cfg.SampleRate), n),
	}, nil
}

// HalfLen returns H = N/2, the length of a FrameState.Spec.
func (a *Analyzer) HalfLen() int { return a.fft.HalfLen() }

// Scratch holds the buffers a single goroutine needs to call Analyze
// repeatedly without reallocating. Scratch is never shared across
// concurrent frame analyses (spec.md §5).
type Scratch struct {
	padded []float64 // length N: windowed samples followed by exact zeros
	mag    []float64 // length H: raw FFT magnitude before semitone weighting
}

// NewScratch allocates a Scratch sized for this Analyzer's padded length.
func (a *Analyzer) NewScratch() *Scratch {
	return &Scratch{
		padded: make([]float64, a.fft.Len()),
		mag:    make([]float64, a.fft.HalfLen()),
	}
}

// NewFrameState allocates a FrameState sized for this Analyzer's half
// spectrum length.
func (a *Analyzer) NewFrameState() *FrameState {
	return &FrameState{
		Spec: make([]float64, a.HalfLen()),
	}
}

// Analyze runs the pipeline in spec.md §4.4 over one frame of W samples,
// writing the result into state (reusing its Spec and Notes slices) using
// scratch as working memory. x must have length cfg.WindowLen.
func (a *Analyzer) Analyze(x []float64, scratch *Scratch, state *FrameState) {
	n := a.fft.Len()
	w := a.cfg.WindowLen

	// Step 1-2: window-then-pad. The tail is always freshly zeroed, never
	// wrapped residue from a previous frame's scratch buffer.
	a.win.ApplyInto(scratch.padded[:w], x)
	for i := w; i < n; i++ {
		scratch.padded[i] = 0
	}

	// Step 3: forward FFT.
	state.Spec = state.Spec[:a.HalfLen()]
	a.fft.Forward(scratch.mag, scratch.padded)
	mag := scratch.mag

	// Step 4: semitone bin weighting + PCP accumulation.
	state.PCP = [12]float64{}
	fs := float64(a.cfg.SampleRate)
	lowBin, highBin := a.bands.LowBin(), a.bands.HighBin()
	if lowBin < 0 {
		lowBin = 0
	}
	if highBin > len(state.Spec) {
		highBin = len(state.Spec)
	}
	for k := range state.Spec {
		state.Spec[k] = 0
	}
	for k := lowBin; k < highBin; k++ {
		fk := float64(k) * fs / float64(n)
		p := pitch.ToPitch(fk)
		if p == 0 {
			continue
		}
		oct := pitch.Octave(p)
		if oct < 0 || oct >= pitch.NumOctaves || !a.cfg.OctaveActive[oct] {
			continue
		}
		closest := pitch.ToFreq(float64(p))
		d := 2 * math.Abs(semitoneFrac(fk)-semitoneFrac(closest))
		wgt := binWeight(a.cfg.BinWeight, d)

		spec := mag[k] * wgt
		if a.cfg.LinearEQActive {
			spec *= a.cfg.LinearEQ.Intercept + float64(k)*a.cfg.LinearEQ.Slope
		}
		state.Spec[k] = spec

		state.PCP[pitch.Semitone(p)] += mag[k] * mag[k] * wgt
	}

	// Step 5: normalize PCP so max element = 1 (leave as zeros if max = 0).
	maxPCP := 0.0
	for _, v := range state.PCP {
		if v > maxPCP {
			maxPCP = v
		}
	}
	if maxPCP > 0 {
		for i := range state.PCP {
			state.PCP[i] /= maxPCP
		}
	}

	// Step 6: PCP reinforcement.
	if a.cfg.PCPActive {
		for k := lowBin; k < highBin; k++ {
			if state.Spec[k] == 0 {
				continue
			}
			fk := float64(k) * fs / float64(n)
			p := pitch.ToPitch(fk)
			if p == 0 {
				continue
			}
			state.Spec[k] *= state.PCP[pitch.Semitone(p)]
		}
	}

	// Step 7: peak picking, parabolic interpolation, harmonic suppression.
	state.Notes = state.Notes[:0]
	type seenPeak struct {
		semitone int
		amp      float64
	}
	var seen []seenPeak

	start := lowBin
	if start < 1 {
		start = 1
	}
	end := highBin
	if end > len(state.Spec)-1 {
		end = len(state.Spec) - 1
	}

	for k := start; k < end; k++ {
		ym, y0, yp := state.Spec[k-1], state.Spec[k], state.Spec[k+1]
		if !(y0 > ym && y0 > yp && y0 > a.cfg.PeakThreshold) {
			continue
		}

		fk := float64(k) * fs / float64(n)
		f, amp := fk, y0

		if p, aHat := parabolicInterpolate(ym, y0, yp); p != 0 {
			fHat := (float64(k) + p) * fs / float64(n)
			if pitch.ToPitch(fHat) != pitch.ToPitch(fk) {
				f, amp = fHat, aHat
			}
		}

		midiPitch := pitch.ToPitch(f)
		if midiPitch == 0 {
			continue
		}

		semitone := pitch.Semitone(midiPitch)
		harmonic := false
		if a.cfg.HarmonicsActive {
			for _, s := range seen {
				if s.semitone == semitone && amp < s.amp {
					harmonic = true
					break
				}
			}
		}
		if harmonic {
			continue
		}

		note := pitch.Note{
			Frequency: f,
			Amplitude: amp,
			Pitch:     midiPitch,
			Velocity:  pitch.Velocity(amp, a.cfg.PeakThreshold),
		}
		state.Notes = append(state.Notes, note)
		seen = append(seen, seenPeak{semitone: semitone, amp: amp})
	}
}

// semitoneFrac is the fractional equal-tempered pitch of f (69 +
// 12*log2(f/440)), used only for bin-distance computation; unlike
// pitch.ToPitch it is not rounded and not clamped to a valid MIDI range.
func semitoneFrac(f float64) float64 {
	return 69 + 12*math.Log2(f/440)
}
