package osuapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const DefaultBaseURL = "https://osu.ppy.sh"

type Config struct {
	BaseURL      string
	ClientID     int
	ClientSecret string

	// RateLimit is the number of requests per minute. Zero disables the limit.
	RateLimit   int
	Concurrency int
	Timeout     time.Duration
}

// StatusError is returned for any non 2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d, body: %s", e.Code, e.Body)
}

// Client talks to the osu! API v2 with client credentials.
type Client struct {
	baseURL      string
	clientID     int
	clientSecret string

	http     *http.Client
	log      zerolog.Logger
	throttle *throttle

	tokenLock sync.Mutex
	token     *Token
}

func New(cfg Config, log zerolog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Client{
		baseURL:      baseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		http:         &http.Client{Timeout: timeout},
		log:          log.With().Str("component", "osuapi").Logger(),
		throttle:     newThrottle(cfg.RateLimit, cfg.Concurrency),
	}
}

// Close stops the rate limiter.
func (c *Client) Close() {
	c.throttle.stop()
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return err
	}
	return decodeJSON(body, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, path, payload, true)
	if err != nil {
		return err
	}
	return decodeJSON(body, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte, auth bool) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if auth {
		tok, err := c.authToken(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", tok.TokenType+" "+tok.AccessToken)
	}

	done, err := c.throttle.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: %w", method, path, &StatusError{Code: resp.StatusCode, Body: string(body)})
	}

	return body, nil
}

func decodeJSON(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
