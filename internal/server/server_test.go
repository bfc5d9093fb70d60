package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voiceclock/internal/application"
	"voiceclock/internal/domain"
	"voiceclock/internal/server"
)

type countingSynth struct {
	calls int
}

func (s *countingSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	s.calls++
	return []byte("audio:" + text), nil
}

type memCache struct {
	entries map[string][]byte
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrCacheNotFound
	}
	return data, nil
}

func (m *memCache) Put(_ context.Context, key string, data []byte) error {
	m.entries[key] = data
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(synth application.Synthesizer) *httptest.Server {
	speech := application.NewSpeechDelivery(
		&memCache{entries: map[string][]byte{}},
		synth,
		"Vicki",
		"mp3",
		discardLogger(),
	)
	fixed := func() time.Time { return time.Date(2024, 3, 1, 13, 33, 0, 0, time.UTC) }
	srv := server.New("127.0.0.1:0", speech, &server.CannedResolver{Now: fixed}, discardLogger())
	return httptest.NewServer(srv.Handler())
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(&countingSynth{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
}

func TestServer_NextActions(t *testing.T) {
	ts := newTestServer(&countingSynth{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/next-actions", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d, want 200", resp.StatusCode)
	}

	var action domain.NextAction
	if err := json.NewDecoder(resp.Body).Decode(&action); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if action.ActionType != domain.ActionTypeSay {
		t.Errorf("action_type: got %q, want %q", action.ActionType, domain.ActionTypeSay)
	}
	if action.Text != "Guten Tag! Es ist jetzt 13:33." {
		t.Errorf("text: got %q", action.Text)
	}
}

func TestServer_AudioMissingText(t *testing.T) {
	ts := newTestServer(&countingSynth{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/audio")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", resp.StatusCode)
	}
}

func TestServer_AudioSynthesizesAndCaches(t *testing.T) {
	synth := &countingSynth{}
	ts := newTestServer(synth)
	defer ts.Close()

	fetch := func() []byte {
		resp, err := http.Get(ts.URL + "/audio?text=Es+ist+jetzt+13:33.")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status: got %d, want 200", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "audio/mpeg" {
			t.Errorf("content type: got %q, want audio/mpeg", ct)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		return body
	}

	first := fetch()
	second := fetch()

	if synth.calls != 1 {
		t.Errorf("synth calls: got %d, want 1 (second request served from cache)", synth.calls)
	}
	if string(first) != string(second) {
		t.Error("cache hit must return byte-identical audio")
	}
}

func TestServer_AudioCacheHeaders(t *testing.T) {
	ts := newTestServer(&countingSynth{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/audio?text=hallo")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=31536000, immutable" {
		t.Errorf("cache-control: got %q", cc)
	}
}
