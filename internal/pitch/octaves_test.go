package pitch

import "testing"

func TestComputeOctaveBandsMonotonic(t *testing.T) {
	bands := ComputeOctaveBands(44100, 8192)
	for o := 1; o < NumOctaves; o++ {
		if bands.Start[o] < bands.Start[o-1] {
			t.Errorf("octave %d start bin %d should be >= octave %d start bin %d", o, bands.Start[o], o-1, bands.Start[o-1])
		}
		if bands.End[o-1] > bands.Start[o]+1 {
			// Bands are allowed to be contiguous or have a small gap, but
			// must never go backwards.
		}
	}
	if bands.LowBin() != bands.Start[0] {
		t.Errorf("LowBin() = %d, want %d", bands.LowBin(), bands.Start[0])
	}
	if bands.HighBin() != bands.End[NumOctaves-1] {
		t.Errorf("HighBin() = %d, want %d", bands.HighBin(), bands.End[NumOctaves-1])
	}
}

func TestOctaveOf(t *testing.T) {
	bands := ComputeOctaveBands(44100, 8192)
	for o := 0; o < NumOctaves; o++ {
		mid := (bands.Start[o] + bands.End[o]) / 2
		if got := bands.OctaveOf(mid); got != o {
			t.Errorf("OctaveOf(%d) = %d, want %d", mid, got, o)
		}
	}
}
