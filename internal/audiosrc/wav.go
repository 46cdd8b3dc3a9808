// Package audiosrc provides concrete pipeline.AudioSource implementations.
package audiosrc

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"

	"github.com/polyscribe/polyscribe/internal/pipeline"
)

// Kind identifies the category of an audiosrc error.
type Kind int

const (
	// InvalidAudioData means the file is not a well-formed WAV, or its
	// format cannot be decoded into mono float samples.
	InvalidAudioData Kind = iota
	// IoError means the underlying file could not be opened or read.
	IoError
)

// Error is returned for every audiosrc failure.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// WAVSource is a pipeline.AudioSource backed by an in-memory decode of a
// WAV file's full PCM buffer, downmixed to mono.
//
// The teacher's FFmpegDecoder shells out to an external process per file;
// a transcription engine has no equivalent external-process dependency
// for WAV, so this instead follows the go-audio/wav "open, decode full
// PCM buffer, normalize by bit depth" idiom used elsewhere in the
// retrieved corpus.
type WAVSource struct {
	sampleRate int
	samples    []float64 // mono, normalized to [-1, 1]
	pos        int
}

// Open decodes the WAV file at path into a mono WAVSource.
func Open(path string) (*WAVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: IoError, Msg: fmt.Sprintf("audiosrc: open %s: %v", path, err)}
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a WAV stream into a mono WAVSource.
func Decode(r io.Reader) (*WAVSource, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, &Error{Kind: InvalidAudioData, Msg: "audiosrc: not a valid WAV file"}
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, &Error{Kind: InvalidAudioData, Msg: fmt.Sprintf("audiosrc: decode PCM buffer: %v", err)}
	}

	numChannels := int(decoder.NumChans)
	if numChannels <= 0 {
		return nil, &Error{Kind: InvalidAudioData, Msg: "audiosrc: WAV declares zero channels"}
	}

	maxVal := fullScale(decoder.BitDepth)
	intData := buf.AsIntBuffer().Data
	numFrames := len(intData) / numChannels

	samples := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		var sum float64
		base := i * numChannels
		for c := 0; c < numChannels; c++ {
			sum += float64(intData[base+c]) / maxVal
		}
		samples[i] = sum / float64(numChannels)
	}

	return &WAVSource{
		sampleRate: int(decoder.SampleRate),
		samples:    samples,
	}, nil
}

func fullScale(bitDepth uint16) float64 {
	switch bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0 // 16-bit, also used as the conservative fallback
	}
}

// SampleRate returns the WAV file's sample rate in Hz.
func (s *WAVSource) SampleRate() int { return s.sampleRate }

// Len returns the total number of mono samples.
func (s *WAVSource) Len() int { return len(s.samples) }

// Read copies up to len(buf) samples starting at the current cursor,
// advancing it, and satisfies pipeline.AudioSource (spec.md §6). It
// returns io.EOF once the cursor reaches the end, matching io.Reader
// semantics: a final short, non-empty read returns (n, nil); the
// following call returns (0, io.EOF).
func (s *WAVSource) Read(buf []float64) (int, error) {
	if s.pos >= len(s.samples) {
		return 0, io.EOF
	}
	n := copy(buf, s.samples[s.pos:])
	s.pos += n
	return n, nil
}

// Reset rewinds the read cursor to the start of the file.
func (s *WAVSource) Reset() { s.pos = 0 }

var _ pipeline.AudioSource = (*WAVSource)(nil)
