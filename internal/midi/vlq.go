package midi

import "io"

// encodeVLQ encodes v as a MIDI variable-length quantity: 7-bit groups,
// most-significant-first, with the continuation bit (0x80) set on every
// byte but the last (spec.md §4.8, §4.9).
func encodeVLQ(v uint32) []byte {
	buf := []byte{byte(v & 0x7F)}
	v >>= 7
	for v > 0 {
		buf = append([]byte{byte(v&0x7F) | 0x80}, buf...)
		v >>= 7
	}
	return buf
}

// decodeVLQ reads a variable-length quantity from r. It returns
// InvalidMidiData if the encoding exceeds 4 continuation bytes (which
// would overflow uint32) or the stream ends mid-sequence.
func decodeVLQ(r io.ByteReader) (uint32, error) {
	var v uint32
	for i := 0; i < 5; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, invalidf("truncated variable-length quantity: %v", err)
		}
		v = (v << 7) | uint32(b&0x7F)
		if b&0x80 == 0 {
			return v, nil
		}
	}
	return 0, invalidf("variable-length quantity longer than 5 bytes")
}
