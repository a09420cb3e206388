package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired is returned when the refresh token was rejected and the
// client dropped its session. The caller must authenticate again.
var ErrSessionExpired = errors.New("client: session expired")

// ErrNoSession is returned when a request needs a session and none is held.
var ErrNoSession = errors.New("client: not authenticated")

type session struct {
	accessToken  string
	refreshToken string
}

// Client is an HTTP client for the service that transparently refreshes its
// access token. Concurrent requests hitting a 401 at the same time share a
// single refresh call; each request retries at most once with the new token.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	sess    *session
	refresh singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	} `json:"data"`
}

// Authenticate logs in and stores the session tokens.
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/accounts/authenticate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client: authenticate failed with status %d", resp.StatusCode)
	}

	var out tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}

	c.mu.Lock()
	c.sess = &session{
		accessToken:  out.Data.AccessToken,
		refreshToken: refreshCookie(resp),
	}
	c.mu.Unlock()
	return nil
}

// Do sends an authenticated request. On a 401 it refreshes the session once
// and retries; a second 401 is returned as-is.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	token, err := c.accessToken()
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	token, err = c.refreshSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, body, token)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.http.Do(req)
}

func (c *Client) accessToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return "", ErrNoSession
	}
	return c.sess.accessToken, nil
}

// refreshSession rotates the refresh token. The singleflight group collapses
// concurrent callers onto one server round trip; staleToken lets a caller
// whose 401 raced an already-completed refresh pick up the fresh token
// without another call.
func (c *Client) refreshSession(ctx context.Context, staleToken string) (string, error) {
	c.mu.Lock()
	if c.sess != nil && c.sess.accessToken != staleToken {
		token := c.sess.accessToken
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	result, err, _ := c.refresh.Do("refresh", func() (interface{}, error) {
		return c.doRefresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (c *Client) doRefresh(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.sess == nil {
		c.mu.Unlock()
		return "", ErrNoSession
	}
	refreshToken := c.sess.refreshToken
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/accounts/refresh-token", nil)
	if err != nil {
		return "", err
	}
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: refreshToken})

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The server rejected the rotation: the session is gone.
		c.mu.Lock()
		c.sess = nil
		c.mu.Unlock()
		return "", ErrSessionExpired
	}

	var out tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.sess = &session{
		accessToken:  out.Data.AccessToken,
		refreshToken: refreshCookie(resp),
	}
	c.mu.Unlock()
	return out.Data.AccessToken, nil
}

func refreshCookie(resp *http.Response) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "refreshToken" {
			return cookie.Value
		}
	}
	return ""
}
