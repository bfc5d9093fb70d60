// Package backend is the device-side client for the voice clock API:
// next-action resolution, health checks and speech synthesis.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"voiceclock/internal/domain"
	"voiceclock/internal/infra"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	synthesisTimeout  time.Duration
	nextActionTimeout time.Duration
	healthTimeout     time.Duration
}

type Timeouts struct {
	Synthesis  time.Duration
	NextAction time.Duration
	Health     time.Duration
}

func NewClient(baseURL, apiKey string, timeouts Timeouts) *Client {
	if timeouts.Synthesis <= 0 {
		timeouts.Synthesis = 15 * time.Second
	}
	if timeouts.NextAction <= 0 {
		timeouts.NextAction = 60 * time.Second
	}
	if timeouts.Health <= 0 {
		timeouts.Health = 5 * time.Second
	}
	return &Client{
		baseURL:           strings.TrimRight(baseURL, "/"),
		apiKey:            apiKey,
		httpClient:        &http.Client{},
		synthesisTimeout:  timeouts.Synthesis,
		nextActionTimeout: timeouts.NextAction,
		healthTimeout:     timeouts.Health,
	}
}

// NextAction asks the backend what the clock should do. Any non-2xx status
// or malformed body is a failure the dispatcher degrades from.
func (c *Client) NextAction(ctx context.Context) (*domain.NextAction, error) {
	ctx, cancel := context.WithTimeout(ctx, c.nextActionTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/next-actions", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("next-actions error: %s", resp.Status)
	}

	var action domain.NextAction
	if err := json.NewDecoder(resp.Body).Decode(&action); err != nil {
		return nil, fmt.Errorf("decoding next action: %w", err)
	}
	return &action, nil
}

// Health performs a quick backend liveness roundtrip.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health error: %s", resp.Status)
	}
	return nil
}

// Synthesize requests audio/mpeg bytes for text from the backend's audio
// endpoint. Wrong content type or an empty payload counts as failure.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidRequest)
	}

	var audio []byte

	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		reqCtx, cancel := context.WithTimeout(ctx, c.synthesisTimeout)
		defer cancel()

		u := c.baseURL + "/audio?" + url.Values{"text": {text}}.Encode()
		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "audio/mpeg")
		c.authorize(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("audio endpoint error %d: %s (retryable)", resp.StatusCode, body)
			}
			return fmt.Errorf("%w: audio endpoint error %d: %s", domain.ErrSynthesisFailed, resp.StatusCode, body)
		}

		// Some gateways answer "audio/mpeg; charset=binary".
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(strings.ToLower(ct), "audio/mpeg") {
			return fmt.Errorf("%w: unexpected content type %q", domain.ErrSynthesisFailed, ct)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading audio body: %w", err)
		}
		if len(data) == 0 {
			return fmt.Errorf("%w: empty audio payload", domain.ErrSynthesisFailed)
		}

		audio = data
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	return audio, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
}
