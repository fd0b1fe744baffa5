// Package client is the HTTP client for the FindIt API. It implements both
// collaborator surfaces the registry core consumes: registry.Repository
// (item query/insert) and session.Provider (session snapshot, session feed,
// sign-out). Fetching is pull-based; the session feed only carries changes
// made through this client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/finditapp/findit/internal/model"
	"github.com/finditapp/findit/internal/registry"
	"github.com/finditapp/findit/internal/session"
)

// Client talks to a FindIt server. If TokenPath is set, the session token is
// persisted there across invocations.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	TokenPath  string

	mu      sync.Mutex
	token   string
	subs    map[int]func(session.Identity)
	nextSub int
}

var (
	_ registry.Repository = (*Client)(nil)
	_ session.Provider    = (*Client)(nil)
)

// New creates a client for baseURL, loading any previously saved token from
// tokenPath (which may be empty for a memory-only session).
func New(baseURL, tokenPath string) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
		TokenPath:  tokenPath,
		subs:       make(map[int]func(session.Identity)),
	}
	if tokenPath != "" {
		if data, err := os.ReadFile(tokenPath); err == nil {
			c.token = strings.TrimSpace(string(data))
		}
	}
	return c
}

type sessionResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Register creates an account and signs the new member in.
func (c *Client) Register(ctx context.Context, email, password string) (session.Identity, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

// Login signs in with email and password and stores the session token.
func (c *Client) Login(ctx context.Context, email, password string) (session.Identity, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (session.Identity, error) {
	var resp sessionResponse
	err := c.do(ctx, http.MethodPost, path, map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return session.Anonymous, err
	}

	c.setToken(resp.Token)
	id := session.Identity{UserID: resp.UserID, Email: resp.Email}
	c.emit(id)
	return id, nil
}

// CurrentSession implements session.Provider. A missing, expired, or
// revoked token means no session, not an error.
func (c *Client) CurrentSession(ctx context.Context) (session.Identity, error) {
	if c.Token() == "" {
		return session.Anonymous, nil
	}

	var resp sessionResponse
	err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &resp)
	if err != nil {
		var statusErr *statusError
		if errors.As(err, &statusErr) && statusErr.code == http.StatusUnauthorized {
			return session.Anonymous, nil
		}
		return session.Anonymous, err
	}
	return session.Identity{UserID: resp.UserID, Email: resp.Email}, nil
}

// OnSessionChange implements session.Provider.
func (c *Client) OnSessionChange(fn func(session.Identity)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// SignOut implements session.Provider. On failure the stored token is kept
// so the caller can retry.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil); err != nil {
		return err
	}
	c.setToken("")
	c.emit(session.Anonymous)
	return nil
}

// ListByType implements registry.Repository.
func (c *Client) ListByType(ctx context.Context, itemType, status string) ([]model.Item, error) {
	var items []model.Item
	path := fmt.Sprintf("/api/items?type=%s&status=%s", itemType, status)
	if err := c.do(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, &registry.FetchError{Err: err}
	}
	return items, nil
}

// Insert implements registry.Repository. The reporter is identified by the
// session token; reporterID is the local pipeline's view of it.
func (c *Client) Insert(ctx context.Context, draft registry.Draft, reporterID string) (*model.Item, error) {
	item := &model.Item{}
	if err := c.do(ctx, http.MethodPost, "/api/items", draft, item); err != nil {
		var statusErr *statusError
		if errors.As(err, &statusErr) {
			switch {
			case statusErr.code == http.StatusUnauthorized:
				return nil, &registry.AuthError{Reason: statusErr.message}
			case statusErr.field != "":
				rule := strings.TrimPrefix(statusErr.message, statusErr.field+": ")
				return nil, &registry.ValidationError{Field: statusErr.field, Rule: rule}
			}
		}
		return nil, &registry.InsertError{Err: err}
	}
	return item, nil
}

// Contact fetches a report's disclosed contact information.
func (c *Client) Contact(ctx context.Context, itemID string) (title, contactInfo string, err error) {
	var resp struct {
		Title       string `json:"title"`
		ContactInfo string `json:"contact_info"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/items/"+itemID+"/contact", nil, &resp); err != nil {
		return "", "", err
	}
	return resp.Title, resp.ContactInfo, nil
}

// Mine fetches the signed-in reporter's own reports.
func (c *Client) Mine(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := c.do(ctx, http.MethodGet, "/api/items/mine", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Resolve marks one of the caller's reports as resolved.
func (c *Client) Resolve(ctx context.Context, itemID string) (*model.Item, error) {
	item := &model.Item{}
	if err := c.do(ctx, http.MethodPut, "/api/items/"+itemID+"/resolve", nil, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Token returns the stored session token, if any.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	if c.TokenPath == "" {
		return
	}
	if token == "" {
		os.Remove(c.TokenPath)
		return
	}
	os.MkdirAll(filepath.Dir(c.TokenPath), 0700)
	os.WriteFile(c.TokenPath, []byte(token), 0600)
}

func (c *Client) emit(id session.Identity) {
	c.mu.Lock()
	fns := make([]func(session.Identity), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(id)
	}
}

// statusError is a non-2xx response carrying the server's message verbatim.
type statusError struct {
	code    int
	message string
	field   string
}

func (e *statusError) Error() string { return e.message }

// do performs a JSON request against the API, decoding the response into
// out when it is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr != nil || errResp.Error == "" {
			errResp.Error = fmt.Sprintf("server returned %s", resp.Status)
		}
		return &statusError{code: resp.StatusCode, message: errResp.Error, field: errResp.Field}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
