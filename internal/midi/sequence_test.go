package midi

import "testing"

func TestTrackAddIsStableByTick(t *testing.T) {
	tr := NewTrack()
	tr.Add(MidiEvent{Tick: 10, Message: noteOn(0, 1)})
	tr.Add(MidiEvent{Tick: 5, Message: noteOn(0, 2)})
	tr.Add(MidiEvent{Tick: 5, Message: noteOn(0, 3)})

	events := tr.Events()
	if events[0].Tick != 5 || events[1].Tick != 5 || events[2].Tick != 10 {
		t.Fatalf("events not sorted by tick: %+v", events)
	}
	// Ties preserve insertion order: pitch 2 was added before pitch 3.
	if events[0].Message.(ShortMessage).Data1 != 2 || events[1].Message.(ShortMessage).Data1 != 3 {
		t.Errorf("tied ticks should preserve insertion order, got %+v", events)
	}
}

func TestEnsureEndOfTrackIsIdempotent(t *testing.T) {
	tr := NewTrack()
	tr.Add(MidiEvent{Tick: 10, Message: noteOn(0, 60)})
	tr.EnsureEndOfTrack()
	if tr.Len() != 2 {
		t.Fatalf("expected EoT appended, len = %d", tr.Len())
	}
	tr.EnsureEndOfTrack()
	if tr.Len() != 2 {
		t.Errorf("EnsureEndOfTrack should be a no-op when already present, len = %d", tr.Len())
	}
}

func TestTrackCloneIsIndependent(t *testing.T) {
	tr := NewTrack()
	tr.Add(MidiEvent{Tick: 0, Message: noteOn(0, 60)})
	cp := tr.Clone()
	cp.Add(MidiEvent{Tick: 5, Message: noteOn(0, 61)})

	if tr.Len() != 1 {
		t.Errorf("cloning then mutating the clone should not affect the original, original len = %d", tr.Len())
	}
}

func TestSequenceTickLength(t *testing.T) {
	seq := NewSequence(PPQ, 480, 1)
	t1 := seq.AddTrack()
	t1.Add(MidiEvent{Tick: 100, Message: noteOn(0, 60)})
	t2 := seq.AddTrack()
	t2.Add(MidiEvent{Tick: 300, Message: noteOn(0, 61)})

	if seq.TickLength() != 300 {
		t.Errorf("TickLength() = %d, want 300", seq.TickLength())
	}
}

func TestMicrosecondLengthFailsForPPQ(t *testing.T) {
	seq := NewSequence(PPQ, 480, 0)
	if _, err := seq.MicrosecondLength(); err == nil {
		t.Error("MicrosecondLength should fail for PPQ sequences")
	}
}

func TestMicrosecondLengthForSMPTE(t *testing.T) {
	seq := NewSequence(SMPTE30, 80, 0)
	track := seq.AddTrack()
	track.Add(MidiEvent{Tick: 2400, Message: noteOn(0, 60)}) // 2400 / (30*80) = 1s
	us, err := seq.MicrosecondLength()
	if err != nil {
		t.Fatalf("MicrosecondLength: %v", err)
	}
	if us != 1_000_000 {
		t.Errorf("MicrosecondLength() = %d, want 1000000", us)
	}
}
