package midi

import (
	"fmt"
	"sort"
)

// Kind identifies the category of a midi package error (spec.md §7).
type Kind int

const (
	InvalidMidiData Kind = iota
	UnsupportedOperation
	IoError
)

// Error is the error type every structural codec/sequence failure in this
// package returns.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func invalidf(format string, args ...interface{}) error {
	return &Error{Kind: InvalidMidiData, Msg: fmt.Sprintf(format, args...)}
}

// DivisionType is the timing basis a Sequence's ticks are measured in
// (spec.md §3, §4.8).
type DivisionType int

const (
	PPQ DivisionType = iota
	SMPTE24
	SMPTE25
	SMPTE30Drop
	SMPTE30
)

// FramesPerSecond returns the SMPTE frame rate for division types that use
// one, or 0 for PPQ.
func (d DivisionType) FramesPerSecond() int {
	switch d {
	case SMPTE24:
		return 24
	case SMPTE25:
		return 25
	case SMPTE30Drop:
		return 29
	case SMPTE30:
		return 30
	default:
		return 0
	}
}

// MidiEvent is a single timed message within a Track (spec.md §3).
type MidiEvent struct {
	Tick    uint32
	Message Message
}

// Track is an ordered sequence of MidiEvent, sorted by tick ascending,
// stable on ties (insertion order preserved for equal ticks; spec.md §3).
type Track struct {
	events []MidiEvent
}

// NewTrack creates an empty track.
func NewTrack() *Track { return &Track{} }

// Add inserts event, preserving tick order (stable: an event added later
// with the same tick as an existing event sorts after it).
func (t *Track) Add(event MidiEvent) {
	t.events = append(t.events, event)
	sort.SliceStable(t.events, func(i, j int) bool {
		return t.events[i].Tick < t.events[j].Tick
	})
}

// Events returns the track's events in tick order. The returned slice must
// not be mutated by the caller.
func (t *Track) Events() []MidiEvent { return t.events }

// Len returns the number of events in the track.
func (t *Track) Len() int { return len(t.events) }

// Ticks returns the tick of the track's last event, or 0 if empty.
func (t *Track) Ticks() uint32 {
	if len(t.events) == 0 {
		return 0
	}
	return t.events[len(t.events)-1].Tick
}

// HasEndOfTrack reports whether the track's final event is an
// End-of-Track meta event.
func (t *Track) HasEndOfTrack() bool {
	if len(t.events) == 0 {
		return false
	}
	meta, ok := t.events[len(t.events)-1].Message.(MetaMessage)
	return ok && meta.IsEndOfTrack()
}

// EnsureEndOfTrack appends a synthesized End-of-Track event at the
// track's current last tick (or 0 if empty) if one is not already
// present, matching spec.md §3's invariant that every Track ends with one.
func (t *Track) EnsureEndOfTrack() {
	if t.HasEndOfTrack() {
		return
	}
	t.Add(MidiEvent{Tick: t.Ticks(), Message: EndOfTrack()})
}

// Clone deep-copies the track, including meta and sysex payload bytes.
func (t *Track) Clone() *Track {
	events := make([]MidiEvent, len(t.events))
	copy(events, t.events)
	for i, ev := range events {
		switch m := ev.Message.(type) {
		case MetaMessage:
			m.Payload = append([]byte(nil), m.Payload...)
			events[i].Message = m
		case SysexMessage:
			m.Payload = append([]byte(nil), m.Payload...)
			events[i].Message = m
		}
	}
	return &Track{events: events}
}

// Sequence is the top-level MIDI document: a division/resolution/format
// tag plus an ordered list of Tracks (spec.md §3).
type Sequence struct {
	DivisionType DivisionType
	Resolution   uint16
	FileType     int // 0, 1, or 2
	Tracks       []*Track
}

// NewSequence creates an empty sequence with the given division type,
// resolution and file type.
func NewSequence(divisionType DivisionType, resolution uint16, fileType int) *Sequence {
	return &Sequence{DivisionType: divisionType, Resolution: resolution, FileType: fileType}
}

// TickLength returns the maximum tick across all tracks, or 0 if there are
// none (spec.md §4.7).
func (s *Sequence) TickLength() uint32 {
	var max uint32
	for _, t := range s.Tracks {
		if tk := t.Ticks(); tk > max {
			max = tk
		}
	}
	return max
}

// MicrosecondLength converts TickLength to microseconds for SMPTE-timed
// sequences. It fails for PPQ sequences, whose real-time length depends on
// tempo meta events the sequence model does not resolve (spec.md §4.7).
func (s *Sequence) MicrosecondLength() (int64, error) {
	fps := s.DivisionType.FramesPerSecond()
	if fps == 0 {
		return 0, &Error{Kind: UnsupportedOperation, Msg: "microsecond length is undefined for PPQ sequences"}
	}
	ticks := int64(s.TickLength())
	return ticks * 1_000_000 / (int64(fps) * int64(s.Resolution)), nil
}

// AddTrack appends a new empty track and returns it.
func (s *Sequence) AddTrack() *Track {
	t := NewTrack()
	s.Tracks = append(s.Tracks, t)
	return t
}

// Clone deep-copies the sequence.
func (s *Sequence) Clone() *Sequence {
	cp := &Sequence{DivisionType: s.DivisionType, Resolution: s.Resolution, FileType: s.FileType}
	cp.Tracks = make([]*Track, len(s.Tracks))
	for i, t := range s.Tracks {
		cp.Tracks[i] = t.Clone()
	}
	return cp
}
