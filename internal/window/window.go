// Package window precomputes tapering coefficients for the fixed-length
// analysis window and applies them to a frame buffer (spec.md §4.1).
package window

import "math"

// Type identifies a window function family.
type Type int

const (
	Rectangular Type = iota
	Hann
	Hamming
	Blackman
	BlackmanHarris
)

// String returns the canonical name of a window type.
func (t Type) String() string {
	switch t {
	case Hann:
		return "hann"
	case Hamming:
		return "hamming"
	case Blackman:
		return "blackman"
	case BlackmanHarris:
		return "blackman-harris"
	default:
		return "rectangular"
	}
}

// ParseType parses a window type name. Unknown names return (Rectangular,
// false).
func ParseType(name string) (Type, bool) {
	switch name {
	case "rectangular", "":
		return Rectangular, true
	case "hann":
		return Hann, true
	case "hamming":
		return Hamming, true
	case "blackman":
		return Blackman, true
	case "blackman-harris":
		return BlackmanHarris, true
	default:
		return Rectangular, false
	}
}

// Table holds the precomputed coefficients for one window type and length.
// Tables are computed once and are safe to share across concurrently
// running frame analyzers (spec.md §5).
type Table struct {
	typ    Type
	coeffs []float64
}

// New precomputes a Table of length n for the given window type.
func New(typ Type, n int) Table {
	coeffs := make([]float64, n)
	switch typ {
	case Rectangular:
		for i := range coeffs {
			coeffs[i] = 1
		}
	case Hann:
		for i := range coeffs {
			coeffs[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		}
	case Hamming:
		for i := range coeffs {
			coeffs[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		}
	case Blackman:
		const a0, a1, a2 = 0.42, 0.5, 0.08
		for i := range coeffs {
			x := 2 * math.Pi * float64(i) / float64(n-1)
			coeffs[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
		}
	case BlackmanHarris:
		const a0, a1, a2, a3 = 0.35875, 0.48829, 0.14128, 0.01168
		for i := range coeffs {
			x := 2 * math.Pi * float64(i) / float64(n-1)
			coeffs[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x) - a3*math.Cos(3*x)
		}
	default:
		for i := range coeffs {
			coeffs[i] = 1
		}
	}
	return Table{typ: typ, coeffs: coeffs}
}

// Type returns the window's family.
func (t Table) Type() Type { return t.typ }

// Len returns the window length.
func (t Table) Len() int { return len(t.coeffs) }

// Apply multiplies buf sample-wise by the window coefficients, in place.
// len(buf) must equal t.Len().
func (t Table) Apply(buf []float64) {
	for i, c := range t.coeffs {
		buf[i] *= c
	}
}

// ApplyInto writes the windowed product of src into dst without modifying
// src. len(src) and len(dst) must equal t.Len().
func (t Table) ApplyInto(dst, src []float64) {
	for i, c := range t.coeffs {
		dst[i] = src[i] * c
	}
}

// DrawCurve returns the window shape normalized to [0,1], for
// visualization purposes only. It has no bearing on analysis correctness.
func (t Table) DrawCurve() []float64 {
	curve := make([]float64, len(t.coeffs))
	max := 0.0
	for _, c := range t.coeffs {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return curve
	}
	for i, c := range t.coeffs {
		curve[i] = c / max
	}
	return curve
}
