package backend_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"voiceclock/internal/domain"
	"voiceclock/internal/infra/backend"
)

func TestClient_NextAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/next-actions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Errorf("x-api-key: got %q, want %q", got, "secret")
		}
		json.NewEncoder(w).Encode(domain.NextAction{ActionType: "say", Text: "Heute wird es sonnig."})
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, "secret", backend.Timeouts{})

	action, err := client.NextAction(context.Background())
	if err != nil {
		t.Fatalf("next action: %v", err)
	}
	if action.ActionType != domain.ActionTypeSay || action.Text != "Heute wird es sonnig." {
		t.Errorf("action: got %+v", action)
	}
}

func TestClient_NextActionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, "", backend.Timeouts{})

	if _, err := client.NextAction(context.Background()); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestClient_NextActionMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, "", backend.Timeouts{})

	if _, err := client.NextAction(context.Background()); err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestClient_Synthesize(t *testing.T) {
	want := []byte("fake mpeg frames")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("text"); got != "Es ist jetzt 13:33." {
			t.Errorf("text param: got %q", got)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(want)
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, "secret", backend.Timeouts{})

	got, err := client.Synthesize(context.Background(), "Es ist jetzt 13:33.")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("audio: got %q, want %q", got, want)
	}
}

func TestClient_SynthesizeEmptyText(t *testing.T) {
	client := backend.NewClient("http://127.0.0.1:0", "", backend.Timeouts{})

	_, err := client.Synthesize(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("error: got %v, want ErrInvalidRequest", err)
	}
}

func TestClient_SynthesizeWrongContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not audio</html>"))
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, "", backend.Timeouts{})

	_, err := client.Synthesize(context.Background(), "hallo")
	if !errors.Is(err, domain.ErrSynthesisFailed) {
		t.Fatalf("error: got %v, want ErrSynthesisFailed", err)
	}
}

func TestClient_SynthesizeEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, "", backend.Timeouts{})

	_, err := client.Synthesize(context.Background(), "hallo")
	if !errors.Is(err, domain.ErrSynthesisFailed) {
		t.Fatalf("error: got %v, want ErrSynthesisFailed", err)
	}
}

func TestClient_SynthesizeRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "temporarily down", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("audio"))
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, "", backend.Timeouts{})

	got, err := client.Synthesize(context.Background(), "hallo")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if string(got) != "audio" {
		t.Errorf("audio: got %q", got)
	}
	if calls.Load() != 2 {
		t.Errorf("calls: got %d, want 2", calls.Load())
	}
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, "", backend.Timeouts{})

	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}

func TestClient_HealthUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client := backend.NewClient(srv.URL, "", backend.Timeouts{})

	err := client.Health(context.Background())
	if !errors.Is(err, domain.ErrUnreachable) {
		t.Fatalf("error: got %v, want ErrUnreachable", err)
	}
}
