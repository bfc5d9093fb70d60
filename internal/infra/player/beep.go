// Package player turns audio bytes into sound and blocks until playback
// completed. The default implementation decodes with beep; a portaudio
// variant exists behind the "portaudio" build tag.
package player

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Beep plays mp3 and wav clips through the default output device.
type Beep struct{}

func NewBeep() *Beep { return &Beep{} }

func (b *Beep) Play(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty audio clip")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r := io.NopCloser(bytes.NewReader(data))

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	if isWAV(data) {
		streamer, format, err = wav.Decode(r)
	} else {
		streamer, format, err = mp3.Decode(r)
	}
	if err != nil {
		return fmt.Errorf("decoding audio: %w", err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() { close(done) })))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

func isWAV(data []byte) bool {
	return len(data) >= 4 && string(data[:4]) == "RIFF"
}
