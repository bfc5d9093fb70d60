package application

import (
	"context"

	"voiceclock/internal/domain"
)

// ConnectivityProbe answers "is the remote path worth trying". The verdict
// is advisory: callers still degrade when a remote call fails afterwards.
type ConnectivityProbe interface {
	IsOnline(ctx context.Context) bool
}

// NextActionResolver asks the backend what the clock should do next.
type NextActionResolver interface {
	NextAction(ctx context.Context) (*domain.NextAction, error)
}

// LocalVoice speaks text without any network dependency.
type LocalVoice interface {
	Say(ctx context.Context, text string) error
}

// Indicator drives the user-feedback LED.
type Indicator interface {
	Set(on bool)
}

// PowerController issues the terminal power-off side effect.
type PowerController interface {
	Shutdown(ctx context.Context) error
}

type NoopVoice struct{}

func (NoopVoice) Say(_ context.Context, _ string) error { return nil }

type NoopIndicator struct{}

func (NoopIndicator) Set(_ bool) {}

type NoopPower struct{}

func (NoopPower) Shutdown(_ context.Context) error { return nil }
