package midi

import (
	"bytes"
	"encoding/binary"
	"io"
)

// WriteTo serializes seq as a Standard MIDI File to w (spec.md §4.8).
// Tracks that do not already end with an End-of-Track meta event have one
// synthesized at their current last tick (or 0, per spec.md §4.8's "writer
// synthesizes one at max(existing tick, 0)") — a temporary clone is
// extended rather than mutating the caller's sequence.
func WriteTo(w io.Writer, seq *Sequence) error {
	if err := writeHeader(w, seq); err != nil {
		return err
	}
	for _, t := range seq.Tracks {
		if err := writeTrack(w, t); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(w io.Writer, seq *Sequence) error {
	if _, err := w.Write([]byte(headerMagic)); err != nil {
		return wrapIoError(err)
	}
	if err := binary.Write(w, binary.BigEndian, uint32(6)); err != nil {
		return wrapIoError(err)
	}
	if err := binary.Write(w, binary.BigEndian, uint16(seq.FileType)); err != nil {
		return wrapIoError(err)
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(seq.Tracks))); err != nil {
		return wrapIoError(err)
	}

	var division uint16
	if fps := seq.DivisionType.FramesPerSecond(); fps != 0 {
		negFps := -int8(fps)
		division = uint16(uint8(negFps))<<8 | (seq.Resolution & 0x00FF)
	} else {
		division = seq.Resolution & 0x7FFF
	}
	return binary.Write(w, binary.BigEndian, division)
}

func writeTrack(w io.Writer, t *Track) error {
	events := t.Events()
	if !t.HasEndOfTrack() {
		clone := t.Clone()
		clone.EnsureEndOfTrack()
		events = clone.Events()
	}

	var body bytes.Buffer
	var lastTick uint32
	var runningStatus byte

	for _, ev := range events {
		body.Write(encodeVLQ(ev.Tick - lastTick))
		lastTick = ev.Tick

		switch m := ev.Message.(type) {
		case ShortMessage:
			if m.StatusByte == runningStatus && m.StatusByte < 0xF0 {
				// Running status: omit the repeated status byte.
			} else {
				body.WriteByte(m.StatusByte)
			}
			if m.StatusByte < 0xF0 {
				runningStatus = m.StatusByte
			} else {
				runningStatus = 0
			}
			n := DataLen(m.StatusByte)
			if n >= 1 {
				body.WriteByte(m.Data1)
			}
			if n == 2 {
				body.WriteByte(m.Data2)
			}

		case SysexMessage:
			runningStatus = 0
			body.WriteByte(m.StatusByte)
			body.Write(encodeVLQ(uint32(len(m.Payload))))
			body.Write(m.Payload)

		case MetaMessage:
			runningStatus = 0
			body.WriteByte(StatusMeta)
			body.WriteByte(m.Type)
			body.Write(encodeVLQ(uint32(len(m.Payload))))
			body.Write(m.Payload)
		}
	}

	if _, err := w.Write([]byte(trackMagic)); err != nil {
		return wrapIoError(err)
	}
	if err := binary.Write(w, binary.BigEndian, uint32(body.Len())); err != nil {
		return wrapIoError(err)
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return wrapIoError(err)
	}
	return nil
}
