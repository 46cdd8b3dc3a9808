package pipeline

// Spectrogram accumulates the per-frame Spec slot persisted at spec.md
// §4.4 step 8, independent of any rendering concern (spec.md §9 keeps
// rendering as a pure consumer of this data, never entangled with
// analysis).
type Spectrogram struct {
	frames [][]float64
}

// Append stores a copy of spec as the next frame's spectrogram slot.
func (s *Spectrogram) Append(spec []float64) {
	cp := make([]float64, len(spec))
	copy(cp, spec)
	s.frames = append(s.frames, cp)
}

// Set stores a copy of spec at a specific frame index, growing the
// spectrogram if needed. Frames may be set in any order; slots not yet
// set are nil.
func (s *Spectrogram) Set(n int, spec []float64) {
	for len(s.frames) <= n {
		s.frames = append(s.frames, nil)
	}
	cp := make([]float64, len(spec))
	copy(cp, spec)
	s.frames[n] = cp
}

// Frame returns the spectrogram slot for frame n.
func (s *Spectrogram) Frame(n int) []float64 { return s.frames[n] }

// Len returns the number of frames recorded.
func (s *Spectrogram) Len() int { return len(s.frames) }
