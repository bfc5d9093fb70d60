package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"voiceclock/internal/domain"
)

// AudioCache is a durable key/value store for synthesized clips. Get must
// return domain.ErrCacheNotFound for a miss; any other error is treated as
// transient.
type AudioCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
}

// Synthesizer produces audio bytes for text via a speech service.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// SpeechDelivery resolves text to playable audio/mpeg bytes with a
// cache-or-synthesize strategy: short texts are content-addressed in the
// cache, long texts go straight to synthesis.
//
// Concurrent identical requests may each synthesize and overwrite the same
// cache entry; with a single-button device the expected concurrency is one,
// so no per-key locking is done.
type SpeechDelivery struct {
	cache  AudioCache
	synth  Synthesizer
	voice  string
	format string
	logger *slog.Logger
}

func NewSpeechDelivery(cache AudioCache, synth Synthesizer, voice, format string, logger *slog.Logger) *SpeechDelivery {
	return &SpeechDelivery{
		cache:  cache,
		synth:  synth,
		voice:  voice,
		format: format,
		logger: logger,
	}
}

// Fetch returns playable audio for the given text. Every successful call
// returns a non-empty byte sequence. Cache hits are returned unchanged;
// cache trouble other than a plain miss degrades to synthesis instead of
// failing the request.
func (s *SpeechDelivery) Fetch(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidRequest)
	}

	cacheable := domain.Cacheable(text)
	key := domain.CacheKeyFor(text, s.voice, s.format)

	if cacheable {
		data, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			s.logger.Debug("audio cache hit", "key", key)
			return data, nil
		case errors.Is(err, domain.ErrCacheNotFound):
			// fall through to synthesis
		default:
			s.logger.Warn("audio cache read failed, synthesizing", "key", key, "error", err)
		}
	}

	data, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty audio payload", domain.ErrSynthesisFailed)
	}

	if cacheable {
		if err := s.cache.Put(ctx, key, data); err != nil {
			s.logger.Warn("audio cache write failed", "key", key, "error", err)
		}
	}

	return data, nil
}
