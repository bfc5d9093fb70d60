// Package espeak is the offline local voice: speech without any network
// dependency, at the cost of a robotic timbre.
package espeak

import (
	"context"
	"fmt"
	"os/exec"
)

type Voice struct {
	language string
}

// NewVoice creates a local voice for the given espeak-ng language code,
// e.g. "de".
func NewVoice(language string) *Voice {
	if language == "" {
		language = "de"
	}
	return &Voice{language: language}
}

func (v *Voice) Say(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, "espeak-ng", "-v", v.language, text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("espeak-ng: %w (%s)", err, out)
	}
	return nil
}
