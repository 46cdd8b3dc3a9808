// Package emit bridges the frame analyzer's per-frame Note detections
// (internal/pitch) into a MIDI event stream (internal/midi), the "suitable
// for synthesis into a MIDI event stream" half of the pipeline's purpose
// that the frame analyzer and the sequence model each stop short of on
// their own.
package emit

import (
	"github.com/polyscribe/polyscribe/internal/config"
	"github.com/polyscribe/polyscribe/internal/midi"
	"github.com/polyscribe/polyscribe/internal/pitch"
)

type activeKey struct {
	channel byte
	pitch   int
}

// Sequencer consumes consecutive frames of detected Notes and accumulates
// a midi.Track: a NoteOn is emitted the first frame a pitch appears on
// its routed channel, and a NoteOff is emitted the first frame it no
// longer does. It holds the "currently sounding" set across frames, the
// one piece of cross-frame state the core's frame analyzer itself never
// keeps (spec.md §5).
type Sequencer struct {
	cfg           *config.AnalysisConfig
	ticksPerFrame uint32
	track         *midi.Track
	active        map[activeKey]pitch.Note
	frame         int
}

// NewSequencer creates a Sequencer that routes notes per cfg.OctaveChannel
// and spaces frames ticksPerFrame ticks apart.
func NewSequencer(cfg *config.AnalysisConfig, ticksPerFrame uint32) *Sequencer {
	return &Sequencer{
		cfg:           cfg,
		ticksPerFrame: ticksPerFrame,
		track:         midi.NewTrack(),
		active:        make(map[activeKey]pitch.Note),
	}
}

// Accept advances the sequencer to the next frame and reconciles its note
// list against the currently-sounding set: notes newly present emit
// NoteOn, notes no longer present emit NoteOff, notes present in both
// frames (by channel+pitch) are held open and not re-emitted.
func (s *Sequencer) Accept(notes []pitch.Note) {
	tick := uint32(s.frame) * s.ticksPerFrame

	present := make(map[activeKey]pitch.Note, len(notes))
	for _, n := range notes {
		ch := s.channelFor(n)
		present[activeKey{channel: ch, pitch: n.Pitch}] = n
	}

	for key, n := range s.active {
		if _, ok := present[key]; !ok {
			s.noteOff(tick, key.channel, n)
			delete(s.active, key)
		}
	}
	for key, n := range present {
		if _, ok := s.active[key]; !ok {
			s.noteOn(tick, key.channel, n)
			s.active[key] = n
		}
	}

	s.frame++
}

// Finish closes out any still-sounding notes at the current frame's tick
// and returns the accumulated track, terminated with an End-of-Track
// event.
func (s *Sequencer) Finish() *midi.Track {
	tick := uint32(s.frame) * s.ticksPerFrame
	for key, n := range s.active {
		s.noteOff(tick, key.channel, n)
		delete(s.active, key)
	}
	s.track.EnsureEndOfTrack()
	return s.track
}

func (s *Sequencer) channelFor(n pitch.Note) byte {
	o := n.Octave()
	if o < 0 {
		o = 0
	}
	if o > 7 {
		o = 7
	}
	return byte(s.cfg.OctaveChannel[o] & 0x0F)
}

func (s *Sequencer) noteOn(tick uint32, channel byte, n pitch.Note) {
	s.track.Add(midi.MidiEvent{
		Tick: tick,
		Message: midi.ShortMessage{
			StatusByte: midi.StatusNoteOn | channel,
			Data1:      byte(n.Pitch),
			Data2:      byte(n.Velocity),
		},
	})
}

func (s *Sequencer) noteOff(tick uint32, channel byte, n pitch.Note) {
	s.track.Add(midi.MidiEvent{
		Tick: tick,
		Message: midi.ShortMessage{
			StatusByte: midi.StatusNoteOff | channel,
			Data1:      byte(n.Pitch),
			Data2:      0,
		},
	})
}
