// Package noteapi provides the HTTP adapters for the note server API.
// All adapters share one Client, which owns the base URL, the bearer
// token handling and a client-side rate limit.
package noteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/threalwinky/mown/internal/core/ports/driven"
	"github.com/threalwinky/mown/internal/logger"
)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 30 * time.Second

	// Client-side throttle, well below anything the server enforces.
	requestsPerSecond = 10
	requestBurst      = 20
)

// Config holds configuration for the API client.
type Config struct {
	// BaseURL is the note server base URL (default: http://localhost:5000).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// Tokens supplies and persists the bearer token pair. May be nil for
	// a purely anonymous client.
	Tokens driven.TokenStore
}

// Client is the shared HTTP transport for the note server adapters.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  driven.TokenStore
	limiter *rate.Limiter

	// refreshMu serialises token refresh so concurrent 401s trigger a
	// single refresh round trip.
	refreshMu sync.Mutex
}

// NewClient creates a new API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		tokens:  cfg.Tokens,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// TokenSource returns an oauth2.TokenSource backed by the stored access
// token, for callers that integrate with oauth2-based clients.
func (c *Client) TokenSource() oauth2.TokenSource {
	return &storeTokenSource{tokens: c.tokens}
}

// storeTokenSource adapts the persisted token pair to oauth2.TokenSource.
type storeTokenSource struct {
	tokens driven.TokenStore
}

// Token implements oauth2.TokenSource.
func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	if s.tokens == nil {
		return nil, fmt.Errorf("no token store configured")
	}
	pair, ok := s.tokens.Tokens()
	if !ok {
		return nil, fmt.Errorf("not signed in")
	}
	return &oauth2.Token{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "Bearer",
	}, nil
}

// doJSON performs one JSON API request. A nil body sends no payload; a
// nil out discards the response body. On 401 with a stored refresh token
// it refreshes once and retries the request.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, "application/json", payload)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusUnauthorized && c.refresh(ctx) {
		drainAndClose(resp.Body)
		resp, err = c.send(ctx, method, path, "application/json", payload)
		if err != nil {
			return err
		}
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send builds and executes one request with throttling and auth headers.
func (c *Client) send(ctx context.Context, method, path, contentType string, payload []byte) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader = http.NoBody
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	return resp, nil
}

// authorize attaches the bearer token when one is stored.
func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token, err := c.TokenSource().Token(); err == nil {
		token.SetAuthHeader(req)
	}
}

// refresh exchanges the refresh token for a new access token. It returns
// true when the retry should proceed with fresh credentials.
func (c *Client) refresh(ctx context.Context) bool {
	if c.tokens == nil {
		return false
	}
	pair, ok := c.tokens.Tokens()
	if !ok || pair.Refresh == "" {
		return false
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another request may have refreshed while this one waited.
	if current, ok := c.tokens.Tokens(); ok && current.Access != pair.Access {
		return true
	}

	access, err := c.refreshAccessToken(ctx, pair.Refresh)
	if err != nil {
		logger.Debug("noteapi: token refresh failed: %v", err)
		return false
	}
	pair.Access = access
	if err := c.tokens.SetTokens(pair); err != nil {
		logger.Warn("noteapi: persisting refreshed token: %v", err)
	}
	return true
}

// refreshAccessToken calls the refresh endpoint directly, outside doJSON,
// to avoid recursing into the 401 retry path.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/refresh", http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+refreshToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}
	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return body.AccessToken, nil
}

func decodeBody(body io.Reader, out any) error {
	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
