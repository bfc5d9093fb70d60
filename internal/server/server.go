// Package server implements the voice clock backend: health, next-action
// resolution and the cache-or-synthesize audio endpoint the device calls.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"voiceclock/internal/application"
	"voiceclock/internal/domain"
	"voiceclock/internal/infra"
)

type Server struct {
	addr     string
	speech   *application.SpeechDelivery
	resolver Resolver
	logger   *slog.Logger

	mux         *http.ServeMux
	server      *http.Server
	rateLimiter *infra.RateLimiter
	mu          sync.Mutex
	running     bool
}

func New(addr string, speech *application.SpeechDelivery, resolver Resolver, logger *slog.Logger) *Server {
	s := &Server{
		addr:        addr,
		speech:      speech,
		resolver:    resolver,
		logger:      logger,
		mux:         http.NewServeMux(),
		rateLimiter: infra.NewRateLimiter(60, time.Minute),
	}
	s.mux.HandleFunc("GET /health", s.withRequestID(s.handleHealth))
	s.mux.HandleFunc("POST /next-actions", s.withRequestID(s.rateLimiter.Middleware(s.handleNextActions)))
	s.mux.HandleFunc("GET /audio", s.withRequestID(s.rateLimiter.Middleware(s.handleAudio)))
	return s
}

func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // synthesis can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("backend server starting", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("backend server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
		if err := s.server.Close(); err != nil {
			return fmt.Errorf("closing server: %w", err)
		}
	}
	s.running = false
	return nil
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// withRequestID tags each request with a correlation id and logs the
// roundtrip.
func (s *Server) withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		started := time.Now()
		next(w, r)
		s.logger.Info("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID,
			"took", time.Since(started).String(),
		)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNextActions(w http.ResponseWriter, r *http.Request) {
	action, err := s.resolver.Resolve(r.Context())
	if err != nil {
		s.logger.Error("resolving next action", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "next action unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, action)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "Missing required query parameter: text",
		})
		return
	}

	data, err := s.speech.Fetch(r.Context(), text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			s.logger.Error("fetching audio", "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "synthesis failed"})
		}
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
