package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/fitgrid/internal/cache"
	"github.com/sadopc/fitgrid/internal/log"
	"github.com/sadopc/fitgrid/internal/store"
)

// APIError is a structured remote failure: the HTTP status plus the
// server's message, kept intact so callers can tell an authorization
// failure from a connectivity one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// Client talks to the fitness service. Every read goes through the cache,
// so the app keeps working offline on the last fetched data.
type Client struct {
	http    *http.Client
	probe   *http.Client
	baseURL string
	session *store.Session
	cache   *cache.Cache
	ttl     time.Duration
}

func NewClient(baseURL string, sess *store.Session, c *cache.Cache, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		probe:   &http.Client{Timeout: 2 * time.Second},
		baseURL: baseURL,
		session: sess,
		cache:   c,
		ttl:     ttl,
	}
}

func (c *Client) Session() *store.Session {
	return c.session
}

// Reachable reports whether the service answers at all. A failing probe
// counts as unreachable; the cache layer then serves stored data.
func (c *Client) Reachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.probe.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// Login authenticates and installs the resulting session on the client.
// The device id survives re-login so the backend sees a stable device.
func (c *Client) Login(ctx context.Context, email, password string) (*store.Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	var out struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", bytes.NewReader(body), &out); err != nil {
		return nil, err
	}

	deviceID := ""
	if c.session != nil {
		deviceID = c.session.DeviceID
	}
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	c.session = &store.Session{
		Email:     email,
		Token:     out.Token,
		UserID:    out.UserID,
		DeviceID:  deviceID,
		CreatedAt: time.Now().UTC(),
	}
	log.Info("signed in", "user", out.UserID)
	return c.session, nil
}

// do performs one HTTP round trip and decodes the response into out.
// Non-2xx responses become *APIError with the server's message.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if c.session.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.session.Token)
		}
		if c.session.DeviceID != "" {
			req.Header.Set("X-Device-ID", c.session.DeviceID)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			if payload.Error != "" {
				apiErr.Message = payload.Error
			} else {
				apiErr.Message = payload.Message
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
