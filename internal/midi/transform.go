package midi

// DrumChannel is the zero-indexed MIDI channel conventionally reserved for
// percussion (channel 10 in 1-indexed notation).
const DrumChannel = 9

// ConvertOption controls how Convert rewrites channel nibbles when
// merging tracks into format 0.
type ConvertOption int

const (
	// KeepChannel leaves each Short event's channel nibble untouched.
	KeepChannel ConvertOption = iota
	// CopyTrackToChannel rewrites each Short event's channel nibble to its
	// source track's index, when that index is a legal MIDI channel
	// (0..15).
	CopyTrackToChannel
)

// Transpose shifts the pitch of every NoteOn/NoteOff/AfterTouchPoly event
// in seq by steps semitones, wrapping modulo 128 (spec.md §4.9). Events on
// DrumChannel are skipped unless includeDrums is set. Transpose mutates
// seq in place.
func Transpose(seq *Sequence, steps int, includeDrums bool) {
	for _, track := range seq.Tracks {
		for i, ev := range track.events {
			sm, ok := ev.Message.(ShortMessage)
			if !ok {
				continue
			}
			switch sm.Kind() {
			case StatusNoteOn, StatusNoteOff, StatusAfterTouchPoly:
			default:
				continue
			}
			if sm.Channel() == DrumChannel && !includeDrums {
				continue
			}
			shifted := ((int(sm.Data1) + steps) % 128 + 128) % 128
			sm.Data1 = byte(shifted)
			track.events[i].Message = sm
		}
	}
}

// Trim produces a new Sequence retaining, per source track, only events
// with tick < totalTicks; each resulting track is made to end with an
// End-of-Track event (spec.md §4.9).
func Trim(seq *Sequence, totalTicks uint32) *Sequence {
	out := &Sequence{DivisionType: seq.DivisionType, Resolution: seq.Resolution, FileType: seq.FileType}
	for _, src := range seq.Tracks {
		t := NewTrack()
		for _, ev := range src.Events() {
			if ev.Tick < totalTicks {
				t.events = append(t.events, ev)
			}
		}
		t.EnsureEndOfTrack()
		out.Tracks = append(out.Tracks, t)
	}
	return out
}

// Convert produces a new Sequence with the given target file format
// (spec.md §4.9). If target equals the source format, target is nonzero,
// or the source has only one track, the result is a deep copy with the
// format tag updated. Otherwise (target == 0, multiple source tracks)
// all tracks are merged into a single track: per-track End-of-Track
// markers are dropped, channel nibbles are optionally rewritten per
// opt, events are stable-sorted by tick, and one terminal End-of-Track
// is appended.
func Convert(seq *Sequence, target int, opt ConvertOption) *Sequence {
	if target == seq.FileType || target != 0 || len(seq.Tracks) <= 1 {
		cp := seq.Clone()
		cp.FileType = target
		return cp
	}

	merged := NewTrack()
	for trackIdx, src := range seq.Tracks {
		for _, ev := range src.Events() {
			if meta, ok := ev.Message.(MetaMessage); ok && meta.IsEndOfTrack() {
				continue
			}
			msg := ev.Message
			if opt == CopyTrackToChannel {
				if sm, ok := msg.(ShortMessage); ok && trackIdx >= 0 && trackIdx <= 15 {
					sm.StatusByte = (sm.StatusByte & 0xF0) | byte(trackIdx)
					msg = sm
				}
			}
			merged.Add(MidiEvent{Tick: ev.Tick, Message: msg})
		}
	}
	merged.EnsureEndOfTrack()

	return &Sequence{
		DivisionType: seq.DivisionType,
		Resolution:   seq.Resolution,
		FileType:     target,
		Tracks:       []*Track{merged},
	}
}
