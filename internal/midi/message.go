// Package midi implements the MIDI sequence data model (Sequence, Track,
// MidiEvent, MidiMessage) and the Standard MIDI File codec: reader,
// writer, running status, variable-length quantities, and the
// transpose/trim/format-conversion transforms (spec.md §4.7-4.9).
//
// The source this module is distilled from modeled MIDI messages as an
// abstract class with three concrete subclasses. Go has no class
// hierarchy for that; Message is instead a small interface implemented by
// three concrete types (ShortMessage, MetaMessage, SysexMessage) — a
// tagged variant whose only job is to let status()/length()/serialization
// vary by kind (spec.md §9).
package midi

// Status bytes for channel voice/mode messages (high nibble selects the
// message type, low nibble the channel).
const (
	StatusNoteOff         byte = 0x80
	StatusNoteOn          byte = 0x90
	StatusAfterTouchPoly  byte = 0xA0
	StatusControlChange   byte = 0xB0
	StatusProgramChange   byte = 0xC0
	StatusAfterTouchChan  byte = 0xD0
	StatusPitchBend       byte = 0xE0
	StatusSystemExclusive byte = 0xF0
	StatusSongPosition    byte = 0xF2
	StatusSongSelect      byte = 0xF3
	StatusBusSelect       byte = 0xF5
	StatusTuneRequest     byte = 0xF6
	StatusEndOfExclusive  byte = 0xF7
	StatusTimingClock     byte = 0xF8
	StatusStart           byte = 0xFA
	StatusContinue        byte = 0xFB
	StatusStop            byte = 0xFC
	StatusActiveSensing   byte = 0xFE
	StatusMeta            byte = 0xFF
)

// Meta event type bytes used in this module.
const (
	MetaEndOfTrack byte = 0x2F
	MetaTempo      byte = 0x51
)

// Message is the tagged variant over the three MIDI message shapes the
// codec frames: short channel messages, meta events, and system-exclusive
// messages.
type Message interface {
	// Status returns the message's leading status byte (0xFF for meta,
	// 0xF0 or 0xF7 for sysex).
	Status() byte

	// isMessage is unexported so Message can only be satisfied by the
	// concrete types this package defines.
	isMessage()
}

// ShortMessage is a channel voice/mode or system real-time message with up
// to two data bytes.
type ShortMessage struct {
	StatusByte byte // includes the channel nibble for channel messages
	Data1      byte
	Data2      byte // unused (0) for 1-data and 0-data messages
}

func (m ShortMessage) Status() byte { return m.StatusByte }
func (ShortMessage) isMessage()     {}

// Channel returns the channel (0-15) for a channel voice/mode message.
func (m ShortMessage) Channel() byte { return m.StatusByte & 0x0F }

// Kind returns the message's high-nibble type, with the channel nibble
// masked off.
func (m ShortMessage) Kind() byte { return m.StatusByte & 0xF0 }

// DataLen returns how many data bytes this status carries (0, 1, or 2),
// per spec.md §4.8.
func DataLen(status byte) int {
	switch status & 0xF0 {
	case StatusNoteOff, StatusNoteOn, StatusAfterTouchPoly, StatusControlChange, StatusPitchBend:
		return 2
	case StatusProgramChange, StatusAfterTouchChan:
		return 1
	}
	switch status {
	case StatusSongPosition:
		return 2
	case StatusSongSelect, StatusBusSelect:
		return 1
	case StatusTuneRequest, StatusTimingClock, StatusStart, StatusContinue, StatusStop, StatusActiveSensing:
		return 0
	}
	return -1 // not a recognized short-message status
}

// MetaMessage is a meta event (0xFF type length data).
type MetaMessage struct {
	Type    byte
	Payload []byte
}

func (m MetaMessage) Status() byte { return StatusMeta }
func (MetaMessage) isMessage()     {}

// IsEndOfTrack reports whether this meta event is the mandatory
// End-of-Track marker.
func (m MetaMessage) IsEndOfTrack() bool { return m.Type == MetaEndOfTrack }

// EndOfTrack builds the mandatory End-of-Track meta event.
func EndOfTrack() MetaMessage {
	return MetaMessage{Type: MetaEndOfTrack}
}

// SysexMessage is a system-exclusive message (0xF0 or 0xF7 start byte).
type SysexMessage struct {
	StatusByte byte // 0xF0 or 0xF7
	Payload    []byte
}

func (m SysexMessage) Status() byte { return m.StatusByte }
func (SysexMessage) isMessage()     {}
