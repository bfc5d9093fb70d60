package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"voiceclock/internal/domain"
)

// SpeechFetcher is the dispatcher's view of SpeechDelivery.
type SpeechFetcher interface {
	Fetch(ctx context.Context, text string) ([]byte, error)
}

// Dispatcher maps a finalized click count to exactly one outcome:
//
//	1          speak the current local time (the text never needs network)
//	2..safeMax-1  let the backend decide, fall back offline on any failure
//	safeMax    play the usage instructions (online/offline variant)
//	safeMax+1  diagnostic slot, intentionally a no-op
//	above      play the farewell clip, then power off
//
// A failing remote call never crashes the loop; it degrades to the offline
// action for the same count.
type Dispatcher struct {
	probe    ConnectivityProbe
	resolver NextActionResolver
	speech   SpeechFetcher
	player   Player
	assets   Assets
	voice    LocalVoice
	power    PowerController
	safeMax  int
	now      func() time.Time
	logger   *slog.Logger
}

func NewDispatcher(
	probe ConnectivityProbe,
	resolver NextActionResolver,
	speech SpeechFetcher,
	player Player,
	assets Assets,
	voice LocalVoice,
	power PowerController,
	safeMax int,
	logger *slog.Logger,
) *Dispatcher {
	if safeMax <= 0 {
		safeMax = 5
	}
	return &Dispatcher{
		probe:    probe,
		resolver: resolver,
		speech:   speech,
		player:   player,
		assets:   assets,
		voice:    voice,
		power:    power,
		safeMax:  safeMax,
		now:      time.Now,
		logger:   logger,
	}
}

// Dispatch executes the action for one click resolution synchronously,
// including blocking audio playback, and returns what was done.
func (d *Dispatcher) Dispatch(ctx context.Context, res domain.ClickResolution) domain.Outcome {
	count := res.Count
	d.logger.Info("dispatching click resolution", "count", count)

	switch {
	case count == 1:
		return d.announceTime(ctx)
	case count < d.safeMax:
		if d.probe.IsOnline(ctx) {
			return d.resolveRemote(ctx, count)
		}
		return d.offline(ctx, count)
	case count == d.safeMax:
		if d.probe.IsOnline(ctx) {
			return d.playAsset(ctx, domain.AssetInstructions)
		}
		return d.playAsset(ctx, domain.AssetInstructionsFallback)
	case count == d.safeMax+1:
		// Self-diagnosis slot, intentionally unimplemented.
		d.logger.Info("diagnostic press count, nothing to do", "count", count)
		return domain.Outcome{Kind: domain.OutcomeNoop}
	default:
		return d.shutdown(ctx)
	}
}

// announceTime speaks the current local time. The sentence is derived
// locally; the probe only picks the nicer voice, never the content.
func (d *Dispatcher) announceTime(ctx context.Context) domain.Outcome {
	sentence := domain.TimeSentence(d.now())

	if d.probe.IsOnline(ctx) {
		err := d.speak(ctx, sentence)
		if err == nil {
			return domain.Outcome{Kind: domain.OutcomeSpoken, Text: sentence}
		}
		d.logger.Warn("synthesized time announcement failed, using local voice", "error", err)
	}

	if err := d.voice.Say(ctx, sentence); err != nil {
		d.logger.Error("local voice failed", "error", err)
	}
	return domain.Outcome{Kind: domain.OutcomeSpoken, Text: sentence}
}

func (d *Dispatcher) resolveRemote(ctx context.Context, count int) domain.Outcome {
	action, err := d.resolver.NextAction(ctx)
	if err != nil {
		d.logger.Warn("next-action lookup failed, falling back offline", "count", count, "error", err)
		return d.offline(ctx, count)
	}
	if action.ActionType != domain.ActionTypeSay || action.Text == "" {
		d.logger.Warn("unusable next action, falling back offline",
			"count", count, "action_type", action.ActionType)
		return d.offline(ctx, count)
	}

	if err := d.speak(ctx, action.Text); err != nil {
		d.logger.Warn("speaking next action failed, falling back offline", "count", count, "error", err)
		return d.offline(ctx, count)
	}
	return domain.Outcome{Kind: domain.OutcomeRemoteResolved, Text: action.Text}
}

// offline is the deterministic degraded action for counts 2..safeMax-1:
// the clock still tells the time with its local voice.
func (d *Dispatcher) offline(ctx context.Context, count int) domain.Outcome {
	sentence := domain.TimeSentence(d.now())
	if err := d.voice.Say(ctx, sentence); err != nil {
		d.logger.Error("local voice failed", "count", count, "error", err)
	}
	return domain.Outcome{Kind: domain.OutcomeSpoken, Text: sentence}
}

// shutdown plays the farewell clip to completion before issuing the
// power-off. The ordering is the contract: the device must finish saying
// goodbye first.
func (d *Dispatcher) shutdown(ctx context.Context) domain.Outcome {
	outcome := d.playAsset(ctx, domain.AssetShutdown)
	outcome.Kind = domain.OutcomeShutdown

	if err := d.power.Shutdown(ctx); err != nil {
		d.logger.Error("power off failed", "error", err)
	}
	return outcome
}

func (d *Dispatcher) speak(ctx context.Context, text string) error {
	data, err := d.speech.Fetch(ctx, text)
	if err != nil {
		return err
	}
	d.logger.Info("speaking", "text", text)
	if err := d.player.Play(ctx, data); err != nil {
		return fmt.Errorf("playing synthesized audio: %w", err)
	}
	return nil
}

func (d *Dispatcher) playAsset(ctx context.Context, name string) domain.Outcome {
	data, err := d.assets.Read(name)
	if err != nil {
		d.logger.Error("reading asset", "asset", name, "error", err)
		return domain.Outcome{Kind: domain.OutcomePlayedAsset, Asset: name}
	}
	if err := d.player.Play(ctx, data); err != nil {
		d.logger.Error("playing asset", "asset", name, "error", err)
	}
	return domain.Outcome{Kind: domain.OutcomePlayedAsset, Asset: name}
}
