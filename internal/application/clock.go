package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"voiceclock/internal/domain"
)

// Clock wires the press source, the aggregator and the dispatcher into the
// device's main loop. Presses are pumped into the aggregator as they
// arrive; finalized resolutions queue onto a channel consumed by a single
// loop, so one action plays to completion while further presses accumulate
// into the next window.
type Clock struct {
	source     PressSource
	aggregator *PressAggregator
	dispatcher *Dispatcher
	indicator  Indicator
	player     Player
	assets     Assets
	logger     *slog.Logger

	resolutions chan domain.ClickResolution
}

func NewClock(
	source PressSource,
	dispatcher *Dispatcher,
	indicator Indicator,
	player Player,
	assets Assets,
	debounce time.Duration,
	logger *slog.Logger,
) *Clock {
	c := &Clock{
		source:      source,
		dispatcher:  dispatcher,
		indicator:   indicator,
		player:      player,
		assets:      assets,
		logger:      logger,
		resolutions: make(chan domain.ClickResolution, 8),
	}
	c.aggregator = NewPressAggregator(debounce, func(res domain.ClickResolution) {
		c.resolutions <- res
	})
	return c
}

// Run blocks until the context is cancelled or a shutdown outcome was
// dispatched.
func (c *Clock) Run(ctx context.Context) error {
	c.playStartup(ctx)

	c.logger.Info("starting press source", "source", c.source.Name())
	if err := c.source.Start(ctx); err != nil {
		return fmt.Errorf("starting press source: %w", err)
	}
	defer c.source.Stop()

	go c.pumpPresses(ctx)

	c.logger.Info("voice clock ready, waiting for button presses")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res := <-c.resolutions:
			outcome := c.dispatcher.Dispatch(ctx, res)
			// LED off only after the action, including audio, finished.
			c.indicator.Set(false)
			c.logger.Info("action completed",
				"count", res.Count,
				"outcome", string(outcome.Kind),
			)
			if outcome.Kind == domain.OutcomeShutdown {
				return nil
			}
		}
	}
}

func (c *Clock) pumpPresses(ctx context.Context) {
	for {
		ev, err := c.source.NextPress(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			c.logger.Error("press source failed", "error", err)
			return
		}
		// Immediate feedback, before the debounce window settles.
		c.indicator.Set(true)
		c.aggregator.HandlePress(ev)
	}
}

func (c *Clock) playStartup(ctx context.Context) {
	data, err := c.assets.Read(domain.AssetStarting)
	if err != nil {
		c.logger.Warn("startup clip unavailable", "error", err)
		return
	}
	c.logger.Info("speaking", "text", domain.PhraseStarting)
	if err := c.player.Play(ctx, data); err != nil {
		c.logger.Warn("startup clip playback failed", "error", err)
	}
}
