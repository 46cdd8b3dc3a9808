package midi

import "testing"

func TestShortMessageChannelAndKind(t *testing.T) {
	m := ShortMessage{StatusByte: StatusNoteOn | 0x03, Data1: 60, Data2: 100}
	if m.Channel() != 3 {
		t.Errorf("Channel() = %d, want 3", m.Channel())
	}
	if m.Kind() != StatusNoteOn {
		t.Errorf("Kind() = %x, want %x", m.Kind(), StatusNoteOn)
	}
	if m.Status() != m.StatusByte {
		t.Errorf("Status() = %x, want %x", m.Status(), m.StatusByte)
	}
}

func TestDataLen(t *testing.T) {
	cases := map[byte]int{
		StatusNoteOn:         2,
		StatusNoteOff:        2,
		StatusControlChange:  2,
		StatusPitchBend:      2,
		StatusProgramChange:  1,
		StatusAfterTouchChan: 1,
		StatusTuneRequest:    0,
		StatusTimingClock:    0,
		StatusSongPosition:   2,
		StatusSongSelect:     1,
	}
	for status, want := range cases {
		if got := DataLen(status); got != want {
			t.Errorf("DataLen(%#x) = %d, want %d", status, got, want)
		}
	}
	if got := DataLen(0x00); got != -1 {
		t.Errorf("DataLen(0x00) = %d, want -1", got)
	}
}

func TestMetaEndOfTrack(t *testing.T) {
	eot := EndOfTrack()
	if !eot.IsEndOfTrack() {
		t.Error("EndOfTrack() should report IsEndOfTrack")
	}
	if eot.Status() != StatusMeta {
		t.Errorf("Status() = %#x, want %#x", eot.Status(), StatusMeta)
	}
	other := MetaMessage{Type: MetaTempo, Payload: []byte{0, 1, 2}}
	if other.IsEndOfTrack() {
		t.Error("tempo meta event should not report IsEndOfTrack")
	}
}

func TestMessageInterfaceImplementations(t *testing.T) {
	var _ Message = ShortMessage{}
	var _ Message = MetaMessage{}
	var _ Message = SysexMessage{}
}
