// Package googletts synthesizes speech with Google Cloud Text-to-Speech.
// It backs the server's audio endpoint.
package googletts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"

	"voiceclock/config"
)

type Client struct {
	cfg    config.GoogleTTSConfig
	logger *slog.Logger
}

// New creates a synthesizer. Credentials come from the standard
// GOOGLE_APPLICATION_CREDENTIALS environment variable.
func New(cfg config.GoogleTTSConfig, logger *slog.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// Synthesize returns MP3 bytes for text using the fixed configured voice.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	client, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating tts client: %w", err)
	}
	defer client.Close()

	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{
			InputSource: &ttspb.SynthesisInput_Text{Text: text},
		},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: c.cfg.Language,
			Name:         c.cfg.Voice,
		},
		AudioConfig: &ttspb.AudioConfig{
			AudioEncoding:   ttspb.AudioEncoding_MP3,
			SpeakingRate:    c.cfg.SpeakingRate,
			SampleRateHertz: int32(c.cfg.SampleRate),
		},
	}

	started := time.Now()
	resp, err := client.SynthesizeSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("synthesizing: %w", err)
	}
	c.logger.Info("synthesized speech",
		"voice", c.cfg.Voice,
		"chars", len(text),
		"took", time.Since(started).String(),
	)

	return resp.GetAudioContent(), nil
}
