// Package monitor provides optional live playback of the audio being
// transcribed, adapted from the teacher's Oto-based output so a user can
// listen along while polyscribe works (the --monitor CLI flag).
package monitor

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	channels      = 1
	bytesPerFrame = 2 // 16-bit mono
	maxBufferSize = 17640
)

// Output streams mono float64 samples to the system audio device via Oto.
// Unlike the teacher's OtoOutput, there is no volume, pause, or
// visualization bookkeeping to carry: the monitor only ever plays back
// what polyscribe is transcribing, start to finish.
type Output struct {
	context    *oto.Context
	player     oto.Player
	sampleRate int
	mu         sync.Mutex
	buffer     *bytes.Buffer
	closed     bool
}

// New creates an Output that plays mono audio at sampleRate Hz.
func New(sampleRate int) (*Output, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channels, bytesPerFrame)
	if err != nil {
		return nil, fmt.Errorf("monitor: failed to create oto context: %w", err)
	}
	<-ready

	out := &Output{
		context:    ctx,
		sampleRate: sampleRate,
		buffer:     &bytes.Buffer{},
	}
	out.player = ctx.NewPlayer(out)
	return out, nil
}

// Read implements io.Reader for the Oto player.
func (o *Output) Read(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return 0, io.EOF
	}
	if o.buffer.Len() == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	return o.buffer.Read(p)
}

// WriteSamples encodes samples (each in [-1, 1]) as 16-bit little-endian
// PCM and enqueues them for playback, blocking while the buffer is full
// so playback throttles the caller rather than the reverse.
func (o *Output) WriteSamples(samples []float64) error {
	data := make([]byte, len(samples)*bytesPerFrame)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		data[2*i] = byte(v)
		data[2*i+1] = byte(v >> 8)
	}

	for {
		o.mu.Lock()
		if o.buffer.Len() < maxBufferSize {
			break
		}
		o.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	defer o.mu.Unlock()

	if _, err := o.buffer.Write(data); err != nil {
		return err
	}
	if !o.player.IsPlaying() {
		o.player.Play()
	}
	return nil
}

// Close stops playback and releases the Oto player.
func (o *Output) Close() error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	return o.player.Close()
}

var _ io.Reader = (*Output)(nil)
