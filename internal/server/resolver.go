package server

import (
	"context"
	"time"

	"voiceclock/internal/domain"
)

// Resolver decides what the clock should do when the device defers the
// choice to the backend (click counts 2-4). Richer resolvers (weather
// summaries, generated briefings) plug in here.
type Resolver interface {
	Resolve(ctx context.Context) (*domain.NextAction, error)
}

// CannedResolver always tells the time with a friendly sentence. It is the
// default when no richer resolver is configured.
type CannedResolver struct {
	Now func() time.Time
}

func (r *CannedResolver) Resolve(_ context.Context) (*domain.NextAction, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	return &domain.NextAction{
		ActionType: domain.ActionTypeSay,
		Text:       "Guten Tag! " + domain.TimeSentence(now()),
	}, nil
}
