package pitch

import "math"

// NumOctaves is the number of piano octaves the analyzer tracks (0..7).
const NumOctaves = 8

// OctaveBands holds, for each octave, the half-open FFT bin range [Start,
// End) that range falls within, precomputed once the sample rate and
// padded FFT length are known (spec.md §4.3).
type OctaveBands struct {
	Start [NumOctaves]int
	End   [NumOctaves]int
}

// ComputeOctaveBands precomputes bin ranges for sampleRate and a padded FFT
// length n. fLow(o) is the frequency of C in octave o (MIDI note 12+12o);
// fHigh(o) is the frequency of B in octave o (MIDI note 23+12o).
func ComputeOctaveBands(sampleRate float64, n int) OctaveBands {
	var bands OctaveBands
	for o := 0; o < NumOctaves; o++ {
		fLow := ToFreq(float64(12 + 12*o))
		fHigh := ToFreq(float64(23 + 12*o))
		bands.Start[o] = firstBinAtLeast(fLow, sampleRate, n)
		bands.End[o] = firstBinAbove(fHigh, sampleRate, n)
	}
	return bands
}

// firstBinAtLeast returns the smallest k with k*fs/n >= f.
func firstBinAtLeast(f, fs float64, n int) int {
	return int(math.Ceil(f * float64(n) / fs))
}

// firstBinAbove returns the smallest k with k*fs/n > f.
func firstBinAbove(f, fs float64, n int) int {
	return int(math.Floor(f*float64(n)/fs)) + 1
}

// OctaveOf returns the octave index whose bin range holds FFT bin index
// bin, or -1 if bin falls outside every band (below octave 0's start bin,
// at/above octave 7's end bin, or in a gap between two bands).
func (b OctaveBands) OctaveOf(bin int) int {
	for o := 0; o < NumOctaves; o++ {
		if bin >= b.Start[o] && bin < b.End[o] {
			return o
		}
	}
	return -1
}

// LowBin and HighBin give the overall in-range bin span across all octaves,
// i.e. [fLow(0), fHigh(7)) per spec.md §4.4 step 4.
func (b OctaveBands) LowBin() int  { return b.Start[0] }
func (b OctaveBands) HighBin() int { return b.End[NumOctaves-1] }
