package spectral

import (
	"math"

	"github.com/polyscribe/polyscribe/internal/config"
)

// binWeight implements the five semitone bin-distance weighting curves
// from spec.md §4.4 step d. d is the (already doubled) bin distance in
// semitone units.
func binWeight(kind config.BinWeight, d float64) float64 {
	switch kind {
	case config.Discrete:
		if d <= 0.2 {
			return 1
		}
		return 0
	case config.Linear:
		return 1 - d
	case config.Quadratic:
		return 1 - d*d
	case config.Exponential:
		return math.Exp(-d)
	default: // config.Uniform
		return 1
	}
}

// parabolicInterpolate refines a discrete peak at bin k using its two
// neighbors (spec.md §4.4 step 7). It returns the fractional bin offset
// p and the interpolated amplitude. When the denominator is zero
// (2·y0 = y₊ + y₋) it returns p = 0 and amp = y0 unchanged, per the guard
// in spec.md §4.4's tie-break note. A symmetric peak (y₋ = y₊) also
// yields p = 0 and amp = y0, through a zero numerator.
func parabolicInterpolate(ym, y0, yp float64) (p, amp float64) {
	denom := 2 * (2*y0 - yp - ym)
	if denom == 0 {
		return 0, y0
	}
	p = (yp - ym) / denom
	amp = y0 - 0.25*(ym-yp)*p
	return p, amp
}
