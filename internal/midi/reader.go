package midi

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	headerMagic = "MThd"
	trackMagic  = "MTrk"
)

// ReadFrom parses a Standard MIDI File from r (spec.md §4.8). Reader
// errors are wrapped as *Error{Kind: IoError}; structural violations
// (bad magic, non-positive length/ntracks, malformed division, truncated
// events) are wrapped as *Error{Kind: InvalidMidiData}.
func ReadFrom(r io.Reader) (*Sequence, error) {
	br := bufio.NewReader(r)

	fileType, ntracks, divisionType, resolution, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	seq := &Sequence{DivisionType: divisionType, Resolution: resolution, FileType: fileType}
	for i := 0; i < ntracks; i++ {
		track, err := readTrack(br)
		if err != nil {
			return nil, err
		}
		seq.Tracks = append(seq.Tracks, track)
	}
	return seq, nil
}

func readMagic(br *bufio.Reader, want string) error {
	buf := make([]byte, 4)
	if _, err := io.ReadFull(br, buf); err != nil {
		return wrapIoError(err)
	}
	if string(buf) != want {
		return invalidf("expected chunk magic %q, got %q", want, buf)
	}
	return nil
}

func readHeader(br *bufio.Reader) (fileType, ntracks int, divisionType DivisionType, resolution uint16, err error) {
	if err = readMagic(br, headerMagic); err != nil {
		return
	}

	var length uint32
	if err = binary.Read(br, binary.BigEndian, &length); err != nil {
		err = wrapIoError(err)
		return
	}
	if length < 6 {
		err = invalidf("header chunk length %d is less than 6", length)
		return
	}

	var typeWord, ntracksWord, division uint16
	if err = binary.Read(br, binary.BigEndian, &typeWord); err != nil {
		err = wrapIoError(err)
		return
	}
	if err = binary.Read(br, binary.BigEndian, &ntracksWord); err != nil {
		err = wrapIoError(err)
		return
	}
	if err = binary.Read(br, binary.BigEndian, &division); err != nil {
		err = wrapIoError(err)
		return
	}

	if typeWord > 2 {
		err = invalidf("unsupported MIDI file type %d", typeWord)
		return
	}
	if ntracksWord == 0 {
		err = invalidf("header declares zero tracks")
		return
	}

	// Skip any header bytes beyond the six we just consumed.
	if extra := int64(length) - 6; extra > 0 {
		if _, err = io.CopyN(io.Discard, br, extra); err != nil {
			err = wrapIoError(err)
			return
		}
	}

	fileType = int(typeWord)
	ntracks = int(ntracksWord)

	if division&0x8000 != 0 {
		fps := int8(division >> 8) // negative frames/sec, per spec.md §4.8
		resolution = division & 0x00FF
		switch -fps {
		case 24:
			divisionType = SMPTE24
		case 25:
			divisionType = SMPTE25
		case 29:
			divisionType = SMPTE30Drop
		case 30:
			divisionType = SMPTE30
		default:
			err = invalidf("unrecognized SMPTE frame rate %d", -fps)
			return
		}
	} else {
		divisionType = PPQ
		resolution = division & 0x7FFF
	}
	return
}

func wrapIoError(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return invalidf("unexpected end of MIDI stream: %v", err)
	}
	return &Error{Kind: IoError, Msg: fmt.Sprintf("midi io error: %v", err)}
}

func readTrack(br *bufio.Reader) (*Track, error) {
	if err := readMagic(br, trackMagic); err != nil {
		return nil, err
	}

	var length uint32
	if err := binary.Read(br, binary.BigEndian, &length); err != nil {
		return nil, wrapIoError(err)
	}

	lr := io.LimitReader(br, int64(length))
	tr := bufio.NewReader(lr)

	track := NewTrack()
	var runningStatus byte
	var tick uint32
	gotEndOfTrack := false

	for !gotEndOfTrack {
		delta, err := decodeVLQ(tr)
		if err != nil {
			return nil, err
		}
		tick += delta

		statusByte, err := tr.ReadByte()
		if err != nil {
			return nil, wrapIoError(err)
		}

		var msg Message
		switch {
		case statusByte == StatusMeta:
			runningStatus = 0
			metaType, err := tr.ReadByte()
			if err != nil {
				return nil, wrapIoError(err)
			}
			n, err := decodeVLQ(tr)
			if err != nil {
				return nil, err
			}
			payload := make([]byte, n)
			if _, err := io.ReadFull(tr, payload); err != nil {
				return nil, wrapIoError(err)
			}
			msg = MetaMessage{Type: metaType, Payload: payload}
			if metaType == MetaEndOfTrack {
				gotEndOfTrack = true
			}

		case statusByte == StatusSystemExclusive || statusByte == StatusEndOfExclusive:
			runningStatus = 0
			n, err := decodeVLQ(tr)
			if err != nil {
				return nil, err
			}
			payload := make([]byte, n)
			if _, err := io.ReadFull(tr, payload); err != nil {
				return nil, wrapIoError(err)
			}
			msg = SysexMessage{StatusByte: statusByte, Payload: payload}

		case statusByte < 0x80:
			// Running status: this byte is actually the first data byte.
			if runningStatus == 0 {
				return nil, invalidf("running status byte 0x%02X with no prior channel status", statusByte)
			}
			data1 := statusByte
			sm, err := readShortMessage(tr, runningStatus, data1)
			if err != nil {
				return nil, err
			}
			msg = sm

		default:
			n := DataLen(statusByte)
			if n < 0 {
				return nil, invalidf("unrecognized status byte 0x%02X", statusByte)
			}
			var data1 byte
			if n >= 1 {
				data1, err = tr.ReadByte()
				if err != nil {
					return nil, wrapIoError(err)
				}
			}
			sm, err := readShortMessage(tr, statusByte, data1)
			if err != nil {
				return nil, err
			}
			msg = sm
			if statusByte < 0xF0 {
				runningStatus = statusByte
			} else {
				runningStatus = 0
			}
		}

		track.events = append(track.events, MidiEvent{Tick: tick, Message: msg})
	}

	return track, nil
}

// readShortMessage finishes parsing a channel/system short message whose
// status byte and (already consumed) first data byte are given, reading
// the second data byte if the status calls for one.
func readShortMessage(tr *bufio.Reader, status, data1 byte) (ShortMessage, error) {
	n := DataLen(status)
	if n < 0 {
		return ShortMessage{}, invalidf("unrecognized status byte 0x%02X", status)
	}
	var data2 byte
	if n == 2 {
		b, err := tr.ReadByte()
		if err != nil {
			return ShortMessage{}, wrapIoError(err)
		}
		data2 = b
	}
	if n == 0 {
		data1 = 0
	}
	return ShortMessage{StatusByte: status, Data1: data1, Data2: data2}, nil
}
