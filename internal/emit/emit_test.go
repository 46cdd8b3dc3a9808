package emit

import (
	"testing"

	"github.com/polyscribe/polyscribe/internal/config"
	"github.com/polyscribe/polyscribe/internal/midi"
	"github.com/polyscribe/polyscribe/internal/pitch"
)

func TestSequencerEmitsNoteOnThenNoteOff(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSequencer(cfg, 10)

	note := pitch.Note{Frequency: 440, Amplitude: 100, Pitch: 69, Velocity: 90}
	s.Accept([]pitch.Note{note}) // frame 0: note on
	s.Accept([]pitch.Note{note}) // frame 1: still sounding, no re-emit
	s.Accept(nil)                // frame 2: note off

	track := s.Finish()
	events := track.Events()

	if len(events) != 3 { // NoteOn, NoteOff, EoT
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}

	on, ok := events[0].Message.(midi.ShortMessage)
	if !ok || on.Kind() != midi.StatusNoteOn || on.Data1 != 69 {
		t.Errorf("event 0 = %+v, want NoteOn pitch 69", events[0])
	}
	if events[0].Tick != 0 {
		t.Errorf("NoteOn tick = %d, want 0", events[0].Tick)
	}

	off, ok := events[1].Message.(midi.ShortMessage)
	if !ok || off.Kind() != midi.StatusNoteOff || off.Data1 != 69 {
		t.Errorf("event 1 = %+v, want NoteOff pitch 69", events[1])
	}
	if events[1].Tick != 20 {
		t.Errorf("NoteOff tick = %d, want 20 (frame 2 * ticksPerFrame 10)", events[1].Tick)
	}
}

func TestSequencerRoutesByOctaveChannel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.OctaveChannel[4] = 5 // octave 4 (A4's octave) routed to channel 5

	s := NewSequencer(cfg, 1)
	note := pitch.Note{Frequency: 440, Amplitude: 100, Pitch: 69, Velocity: 90} // A4, octave 4
	s.Accept([]pitch.Note{note})
	track := s.Finish()

	on := track.Events()[0].Message.(midi.ShortMessage)
	if on.Channel() != 5 {
		t.Errorf("channel = %d, want 5", on.Channel())
	}
}

func TestSequencerFinishClosesOutstandingNotes(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSequencer(cfg, 1)
	note := pitch.Note{Frequency: 440, Amplitude: 100, Pitch: 69, Velocity: 90}
	s.Accept([]pitch.Note{note})

	track := s.Finish()
	events := track.Events()
	if len(events) != 3 { // NoteOn, synthesized NoteOff, EoT
		t.Fatalf("expected NoteOn + NoteOff + EoT, got %d: %+v", len(events), events)
	}
	off, ok := events[1].Message.(midi.ShortMessage)
	if !ok || off.Kind() != midi.StatusNoteOff {
		t.Errorf("event 1 = %+v, want NoteOff", events[1])
	}
}
