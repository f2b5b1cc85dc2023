package osuapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Token models the osu! OAuth token response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`

	expiresAt time.Time
}

func (t *Token) valid() bool {
	return t != nil && time.Now().Before(t.expiresAt)
}

// authToken returns the cached token, requesting a new one once it is about to expire.
func (c *Client) authToken(ctx context.Context) (*Token, error) {
	c.tokenLock.Lock()
	defer c.tokenLock.Unlock()

	if c.token.valid() {
		return c.token, nil
	}

	tok, err := c.fetchToken(ctx)
	if err != nil {
		return nil, err
	}

	c.token = tok
	return tok, nil
}

func (c *Client) fetchToken(ctx context.Context) (*Token, error) {
	form := url.Values{}
	form.Set("client_id", strconv.Itoa(c.clientID))
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "public")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/oauth/token",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("osu oauth error: %w", &StatusError{Code: resp.StatusCode, Body: string(body)})
	}

	var tok Token
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	// Refresh a minute early so a token never expires mid request.
	tok.expiresAt = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - time.Minute)

	c.log.Debug().Int("expiresIn", tok.ExpiresIn).Msg("token issued")

	return &tok, nil
}
