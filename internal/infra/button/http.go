// Package button provides press sources: stand-ins for the physical button
// that feed raw pulses into the aggregator.
package button

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"voiceclock/internal/domain"
	"voiceclock/internal/infra"
)

// HTTPSource accepts presses over HTTP (POST /press), useful when the
// button lives on a separate microcontroller or for remote testing.
type HTTPSource struct {
	addr        string
	server      *http.Server
	pressChan   chan domain.PressEvent
	logger      *slog.Logger
	mu          sync.Mutex
	running     bool
	mux         *http.ServeMux
	closeOnce   sync.Once
	rateLimiter *infra.RateLimiter
}

func NewHTTPSource(addr string, logger *slog.Logger) *HTTPSource {
	h := &HTTPSource{
		addr:      addr,
		pressChan: make(chan domain.PressEvent, 32),
		logger:    logger,
		mux:       http.NewServeMux(),
		// generous: a 7-press shutdown burst arrives within ~3 seconds
		rateLimiter: infra.NewRateLimiter(120, time.Minute),
	}
	h.mux.HandleFunc("POST /press", h.rateLimiter.Middleware(h.handlePress))
	h.mux.HandleFunc("GET /health", h.handleHealth)
	return h
}

func (h *HTTPSource) Name() string {
	return "http"
}

func (h *HTTPSource) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.running {
		return nil
	}

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		h.logger.Info("HTTP press server starting", "addr", h.addr)
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP press server error", "error", err)
		}
	}()

	h.running = true
	return nil
}

func (h *HTTPSource) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.running {
		return nil
	}

	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.server.Shutdown(ctx); err != nil {
			h.logger.Warn("graceful shutdown failed, forcing close", "error", err)
			if err := h.server.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
	}

	h.closeOnce.Do(func() {
		close(h.pressChan)
	})
	h.running = false
	return nil
}

func (h *HTTPSource) NextPress(ctx context.Context) (domain.PressEvent, error) {
	select {
	case <-ctx.Done():
		return domain.PressEvent{}, ctx.Err()
	case ev, ok := <-h.pressChan:
		if !ok {
			return domain.PressEvent{}, fmt.Errorf("press channel closed")
		}
		return ev, nil
	}
}

// Handler exposes the mux for tests.
func (h *HTTPSource) Handler() http.Handler {
	return h.mux
}

// InjectPress feeds a press directly, bypassing HTTP.
func (h *HTTPSource) InjectPress() {
	select {
	case h.pressChan <- domain.PressEvent{At: time.Now()}:
	default:
	}
}

func (h *HTTPSource) handlePress(w http.ResponseWriter, r *http.Request) {
	select {
	case h.pressChan <- domain.PressEvent{At: time.Now()}:
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"status":"pressed"}`)
	default:
		http.Error(w, "press queue full, try again", http.StatusServiceUnavailable)
	}
}

func (h *HTTPSource) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	running := h.running
	queued := len(h.pressChan)
	h.mu.Unlock()

	status := "ok"
	statusCode := http.StatusOK
	if !running {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	fmt.Fprintf(w, `{"status":"%s","running":%t,"queued":%d}`, status, running, queued)
}
