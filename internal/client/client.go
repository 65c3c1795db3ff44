package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	endpointPath      = "/api/graphql"
	sessionCookieName = "session_id"
)

// Client talks to the GraphQL API and keeps task lists in a Cache.
// Construct one per application with New and release it with Close.
type Client struct {
	endpoint string
	http     *http.Client
	cache    Cache
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache replaces the default MemoryCache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithTimeout sets the timeout on the client's own copy of its http.Client,
// so a client passed to WithHTTPClient is left unchanged.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + endpointPath,
		http:     &http.Client{Timeout: 10 * time.Second},
		cache:    NewMemoryCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache exposes the client's cache.
func (c *Client) Cache() Cache { return c.cache }

// Close drops cached data and idle connections.
func (c *Client) Close() {
	c.cache.Clear()
	c.http.CloseIdleConnections()
}

type sessionKey struct{}

// WithSession makes requests issued with ctx carry the given session token.
func WithSession(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionKey{}, token)
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

func (c *Client) do(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": vars})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token, _ := ctx.Value(sessionKey{}).(string); token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql request: status %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(r.Errors) > 0 {
		return &ResponseError{Errors: r.Errors}
	}
	if out == nil || len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
