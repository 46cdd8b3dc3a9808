// Package fftadapter wraps a real-to-halfcomplex FFT behind the narrow
// contract the spectral analyzer needs: magnitudes in ascending bin order
// starting at DC (spec.md §4.2). The underlying numeric kernel is treated
// as an external collaborator; gonum's dsp/fourier package backs it here,
// the same library the teacher uses for its own real-time FFT (see
// audio/analyzer.go, analysis/features.go).
package fftadapter

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// RealFFT forwards zero-padded real input of a fixed length N and returns
// magnitudes for the first N/2 bins.
type RealFFT struct {
	n   int
	fft *fourier.FFT
}

// New creates a RealFFT for padded length n (n = windowLen * zeroPad).
func New(n int) *RealFFT {
	return &RealFFT{n: n, fft: fourier.NewFFT(n)}
}

// Len returns the padded transform length N.
func (r *RealFFT) Len() int { return r.n }

// HalfLen returns H = N/2, the number of magnitude bins Forward produces.
func (r *RealFFT) HalfLen() int { return r.n / 2 }

// Forward computes the magnitude spectrum of a real buffer of length N,
// writing into dst (which must have length HalfLen()). real must have
// length N; it is not modified.
func (r *RealFFT) Forward(dst []float64, real []float64) {
	coeffs := r.fft.Coefficients(nil, real)
	h := r.HalfLen()
	for k := 0; k < h; k++ {
		dst[k] = cmplx.Abs(coeffs[k])
	}
}
