//go:build portaudio
// +build portaudio

package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gordonklaus/portaudio"
	gomp3 "github.com/hajimehoshi/go-mp3"
)

// PortAudio plays mp3 clips by decoding them to PCM and writing frames to
// the default output stream. Used on boards where the beep/oto backend has
// no working output device.
type PortAudio struct{}

func NewPortAudio() *PortAudio { return &PortAudio{} }

const framesPerBuffer = 1024

func (p *PortAudio) Play(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty audio clip")
	}

	decoder, err := gomp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding mp3: %w", err)
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}
	defer portaudio.Terminate()

	// go-mp3 always emits 16-bit little-endian stereo.
	buffer := make([]int16, framesPerBuffer*2)
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(decoder.SampleRate()), framesPerBuffer, buffer)
	if err != nil {
		return fmt.Errorf("opening output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("starting output stream: %w", err)
	}
	defer stream.Stop()

	raw := make([]byte, len(buffer)*2)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := io.ReadFull(decoder, raw)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("reading pcm: %w", err)
		}
		if n == 0 {
			return nil
		}

		for i := range buffer {
			buffer[i] = 0
		}
		for i := 0; i < n/2; i++ {
			buffer[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("writing to output stream: %w", err)
		}

		if n < len(raw) {
			return nil
		}
	}
}
