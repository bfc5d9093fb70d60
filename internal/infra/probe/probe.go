// Package probe implements the cheap connectivity check used to pick the
// offline-safe dispatch path.
package probe

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// HealthChecker is the backend's health endpoint, consulted after raw
// internet reachability.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Probe answers IsOnline with a bounded-latency TCP dial against a stable
// public endpoint plus a backend health roundtrip. It never returns an
// error; every failure mode means offline.
type Probe struct {
	addr    string
	timeout time.Duration
	health  HealthChecker
	logger  *slog.Logger
}

// New creates a probe. addr defaults to Google DNS over TCP, the same
// well-known endpoint the device has always dialed.
func New(addr string, timeout time.Duration, health HealthChecker, logger *slog.Logger) *Probe {
	if addr == "" {
		addr = "8.8.8.8:53"
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Probe{addr: addr, timeout: timeout, health: health, logger: logger}
}

func (p *Probe) IsOnline(ctx context.Context) bool {
	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	conn, err := net.DialTimeout("tcp", p.addr, timeout)
	if err != nil {
		p.logger.Debug("connectivity probe failed", "addr", p.addr, "error", err)
		return false
	}
	conn.Close()

	if p.health != nil {
		if err := p.health.Health(ctx); err != nil {
			p.logger.Debug("backend health check failed", "error", err)
			return false
		}
	}

	return true
}
