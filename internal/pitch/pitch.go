// Package pitch converts between frequency, equal-tempered MIDI pitch, and
// the note labels used to emit a transcribed note.
package pitch

import (
	"math"
	"strconv"
)

// semitones are the note names within an octave, C first.
var semitones = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// isWhite marks which semitone indices fall on a piano's white keys.
var isWhite = [12]bool{true, false, true, false, true, true, false, true, false, true, false, true}

// referenceFreq and referencePitch anchor the equal-tempered scale at A4 = 440Hz = MIDI 69.
const (
	referenceFreq  = 440.0
	referencePitch = 69
)

// ToFreq converts a MIDI pitch (may be fractional, for interpolated peaks)
// to a frequency in Hz.
func ToFreq(p float64) float64 {
	return referenceFreq * math.Pow(2, (p-referencePitch)/12)
}

// ToPitch converts a frequency in Hz to the nearest equal-tempered MIDI
// pitch, rounded to the nearest integer. Returns 0 (the reserved sentinel)
// for f <= 0 or when the rounded pitch falls outside (0, 128).
func ToPitch(f float64) int {
	if f <= 0 {
		return 0
	}
	p := math.Round(referencePitch + 12*math.Log2(f/referenceFreq))
	if p <= 0 || p >= 128 {
		return 0
	}
	return int(p)
}

// SnapToFreq rounds f to the frequency of its nearest equal-tempered
// semitone. Returns 0 if f has no valid in-range pitch.
func SnapToFreq(f float64) float64 {
	p := ToPitch(f)
	if p == 0 {
		return 0
	}
	return ToFreq(float64(p))
}

// Octave returns the octave number for a MIDI pitch, following the
// convention that MIDI note 12 (C) is octave 0.
func Octave(p int) int {
	return p/12 - 1
}

// Semitone returns the semitone class (0=C .. 11=B) for a MIDI pitch.
func Semitone(p int) int {
	return ((p % 12) + 12) % 12
}

// Label returns the note name (e.g. "C#4") for a MIDI pitch.
func Label(p int) string {
	return semitones[Semitone(p)] + strconv.Itoa(Octave(p))
}

// IsWhiteKey reports whether the pitch's semitone class is a white piano key.
func IsWhiteKey(p int) bool {
	return isWhite[Semitone(p)]
}

// Velocity maps a detected amplitude to a clamped MIDI velocity given the
// configured peak threshold.
func Velocity(amplitude, threshold float64) int {
	v := math.Round((amplitude - threshold) / (255 + threshold) * 128)
	if v < 0 {
		v = 0
	}
	if v > 127 {
		v = 127
	}
	return int(v)
}

// Note is a single detected pitch within an analysis frame. It is a plain
// value: routing to a MIDI channel is applied by the caller using the
// current configuration, never stored on the Note itself.
type Note struct {
	Frequency float64 // Hz, possibly parabolically interpolated
	Amplitude float64
	Pitch     int // MIDI pitch, 1..127 (0 is the reserved "no note" sentinel)
	Velocity  int // 0..127
}

// Octave returns the octave of the note's pitch.
func (n Note) Octave() int { return Octave(n.Pitch) }

// Semitone returns the semitone class of the note's pitch.
func (n Note) Semitone() int { return Semitone(n.Pitch) }

// Label returns the note's name, e.g. "A4".
func (n Note) Label() string { return Label(n.Pitch) }

// IsWhiteKey reports whether the note falls on a white piano key.
func (n Note) IsWhiteKey() bool { return IsWhiteKey(n.Pitch) }
