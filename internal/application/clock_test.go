package application_test

import (
	"context"
	"testing"
	"time"

	"voiceclock/internal/application"
	"voiceclock/internal/domain"
)

// fakeSource feeds presses from a channel, standing in for a real button.
type fakeSource struct {
	presses chan domain.PressEvent
}

func newFakeSource() *fakeSource {
	return &fakeSource{presses: make(chan domain.PressEvent, 32)}
}

func (s *fakeSource) Start(_ context.Context) error { return nil }
func (s *fakeSource) Stop() error                   { return nil }
func (s *fakeSource) Name() string                  { return "fake" }

func (s *fakeSource) NextPress(ctx context.Context) (domain.PressEvent, error) {
	select {
	case ev := <-s.presses:
		return ev, nil
	case <-ctx.Done():
		return domain.PressEvent{}, ctx.Err()
	}
}

func (s *fakeSource) press() {
	s.presses <- domain.PressEvent{At: time.Now()}
}

type recordingIndicator struct {
	states chan bool
}

func (r *recordingIndicator) Set(on bool) {
	select {
	case r.states <- on:
	default:
	}
}

// notifyingResolver signals every resolution so tests can count calls
// without racing the dispatch goroutine.
type notifyingResolver struct {
	inner *mockResolver
	calls chan struct{}
}

func (r *notifyingResolver) NextAction(ctx context.Context) (*domain.NextAction, error) {
	action, err := r.inner.NextAction(ctx)
	r.calls <- struct{}{}
	return action, err
}

func newClockUnderTest(source *fakeSource, power *mockPower) (*application.Clock, *notifyingResolver) {
	resolver := &notifyingResolver{
		inner: &mockResolver{action: &domain.NextAction{ActionType: domain.ActionTypeSay, Text: "Morgen regnet es."}},
		calls: make(chan struct{}, 16),
	}
	dispatcher := application.NewDispatcher(
		&mockProbe{online: true},
		resolver,
		&mockSpeech{},
		&mockPlayer{},
		mockAssets{},
		&mockVoice{},
		power,
		5,
		discardLogger(),
	)
	clock := application.NewClock(
		source,
		dispatcher,
		&recordingIndicator{states: make(chan bool, 64)},
		&mockPlayer{},
		mockAssets{},
		100*time.Millisecond,
		discardLogger(),
	)
	return clock, resolver
}

func TestClock_BurstDispatchedOnce(t *testing.T) {
	source := newFakeSource()
	clock, resolver := newClockUnderTest(source, &mockPower{})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- clock.Run(ctx) }()

	for i := 0; i < 3; i++ {
		source.press()
		time.Sleep(5 * time.Millisecond)
	}

	// one resolution with count 3 means exactly one resolver call
	select {
	case <-resolver.calls:
	case <-time.After(time.Second):
		t.Fatal("burst was never dispatched")
	}
	select {
	case <-resolver.calls:
		t.Error("burst dispatched more than once")
	case <-time.After(150 * time.Millisecond):
	}

	cancel()
	if err := <-runErr; err != context.Canceled {
		t.Errorf("run error: got %v, want context.Canceled", err)
	}
}

func TestClock_ShutdownOutcomeEndsRun(t *testing.T) {
	source := newFakeSource()
	power := &mockPower{}
	clock, _ := newClockUnderTest(source, power)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- clock.Run(ctx) }()

	for i := 0; i < 7; i++ {
		source.press()
	}

	select {
	case err := <-runErr:
		if err != nil {
			t.Errorf("run after shutdown: got %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after shutdown outcome")
	}
	if power.calls != 1 {
		t.Errorf("power calls: got %d, want 1", power.calls)
	}
}
