// Package power issues the terminal power-off side effect.
package power

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// System shuts the host down. Fire-and-forget: the process does not expect
// to observe its own termination.
type System struct {
	logger *slog.Logger
}

func NewSystem(logger *slog.Logger) *System {
	return &System{logger: logger}
}

func (s *System) Shutdown(ctx context.Context) error {
	s.logger.Info("powering off")
	cmd := exec.CommandContext(ctx, "sudo", "shutdown", "-h", "now")
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("shutdown command: %w (%s)", err, out)
	}
	return nil
}
