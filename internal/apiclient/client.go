// Package apiclient wraps every call to the library-management service. It
// injects the bearer token from the session store on each request and handles
// authorization failures globally: a 401 from any endpoint collapses the
// session, wipes every response cache and fires the login-boundary callback
// before the caller sees the error.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ezmaadmin/internal/util"
	"ezmaadmin/pkg/cache"
	"ezmaadmin/pkg/session"
)

// ErrUnauthorized marks a 401 response after the session collapse ran.
var ErrUnauthorized = errors.New("unauthorized")

// APIError represents a service error response.
type APIError struct {
	Status  int
	Message string
	Code    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap lets callers match authorization failures with errors.Is.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Config wires the client to the process-wide session and cache singletons.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Session *session.Store
	Caches  *cache.Registry

	// OnAuthExpired runs once per 401 response after the session and caches
	// are gone; it navigates to the login boundary.
	OnAuthExpired func()
}

// Client calls the library-management service over HTTP.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	session       *session.Store
	caches        *cache.Registry
	onAuthExpired func()
}

// New constructs a service client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:    &http.Client{Timeout: timeout},
		session:       cfg.Session,
		caches:        cfg.Caches,
		onAuthExpired: cfg.OnAuthExpired,
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	body := &bytes.Buffer{}
	if payload != nil {
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", util.NewID())
	c.addAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		apiErr := decodeError(resp)
		c.collapseSession()
		return apiErr
	}
	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// addAuthHeader attaches the bearer token when a session token is present.
// Anonymous requests (login) pass through without the header.
func (c *Client) addAuthHeader(req *http.Request) {
	if c.session == nil {
		return
	}
	token := strings.TrimSpace(c.session.Token())
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

// collapseSession tears down all client-side state after a 401: logout,
// cache wipe, then the login-boundary navigation. Runs once per failing
// response; the caller still gets the error afterwards.
func (c *Client) collapseSession() {
	if c.session != nil {
		c.session.Logout()
	}
	if c.caches != nil {
		c.caches.Clear()
	}
	if c.onAuthExpired != nil {
		c.onAuthExpired()
	}
}

func decodeError(resp *http.Response) *APIError {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Code    string `json:"code"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&errResp)
	msg := errResp.Message
	if msg == "" {
		msg = errResp.Detail
	}
	if msg == "" {
		msg = errResp.Error
	}
	if msg == "" {
		msg = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: msg, Code: strings.TrimSpace(errResp.Code)}
}
