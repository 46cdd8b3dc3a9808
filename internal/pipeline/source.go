// Package pipeline slices an audio source into non-overlapping analysis
// frames and drives the spectral analyzer over each one (spec.md §4.6).
package pipeline

// AudioSource is the external collaborator the pipeline driver pulls
// frames from (spec.md §6). Implementations decode and downmix audio
// outside the core; the core only ever sees mono, normalized float64
// samples at a fixed sample rate.
type AudioSource interface {
	// SampleRate returns the source's sample rate in Hz.
	SampleRate() int

	// Len returns the total number of mono samples available.
	Len() int

	// Read copies up to len(buf) consecutive samples starting at the
	// source's current read position into buf, advancing that position,
	// and returns the number of samples copied. It returns n < len(buf)
	// only at end of stream.
	Read(buf []float64) (n int, err error)
}
