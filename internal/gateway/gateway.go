// Package gateway wraps the journal server's HTTP API behind the small
// contract the sync pipeline needs. Operations that must never surface a
// transport failure to the caller report success flags instead of errors:
// session checks, upserts and settings pushes swallow errors internally.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"

	"github.com/moodix/journal/internal/logging"
	"github.com/moodix/journal/internal/models"
	"github.com/moodix/journal/internal/normalize"
)

// ErrUnauthorized distinguishes "the server said 401" from a transport or
// server error on bulk load. Callers fall back differently: unauthorized is
// silent read-only degradation, other errors fall back to the local mirror.
var ErrUnauthorized = errors.New("not authenticated")

// Client is the remote contract consumed by the sync engine and the session.
type Client interface {
	CheckSession(ctx context.Context) models.SessionInfo
	Login(ctx context.Context, username, password string) bool
	Logout(ctx context.Context)
	FetchAllEntries(ctx context.Context) (map[string]normalize.RawEntry, error)
	UpsertEntry(ctx context.Context, entry models.JournalEntry) bool
	FetchSettings(ctx context.Context) *models.Settings
	PushSettings(ctx context.Context, settings models.Settings)
	Ping(ctx context.Context) error
}

// HTTPClient talks JSON over HTTP with a cookie session.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// New builds an HTTPClient for baseURL (no trailing slash needed).
func New(baseURL string, log logging.Logger) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Jar: jar, Timeout: 15 * time.Second},
		log:     log,
	}, nil
}

// do issues a request with a correlation id and optional JSON body.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	return c.http.Do(req)
}

func drainBody(res *http.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}

// CheckSession asks the server who the caller is. Any transport error or
// non-2xx response means "not authenticated".
func (c *HTTPClient) CheckSession(ctx context.Context) models.SessionInfo {
	res, err := c.do(ctx, http.MethodGet, "/api/check-auth", nil)
	if err != nil {
		return models.SessionInfo{}
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return models.SessionInfo{}
	}

	var info models.SessionInfo
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return models.SessionInfo{}
	}
	return info
}

// Login authenticates with a username and password, keeping the session
// cookie on success.
func (c *HTTPClient) Login(ctx context.Context, username, password string) bool {
	res, err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return false
	}
	drainBody(res)
	return res.StatusCode >= 200 && res.StatusCode < 300
}

// Logout is best-effort; errors are ignored.
func (c *HTTPClient) Logout(ctx context.Context) {
	res, err := c.do(ctx, http.MethodPost, "/api/logout", nil)
	if err != nil {
		return
	}
	drainBody(res)
}

// FetchAllEntries bulk-loads every entry, server-shaped. A 401 returns
// ErrUnauthorized; other failures return an error for the caller to fall
// back to the local mirror.
func (c *HTTPClient) FetchAllEntries(ctx context.Context) (map[string]normalize.RawEntry, error) {
	res, err := c.do(ctx, http.MethodGet, "/api/entries", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching entries: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching entries: server returned %s", res.Status)
	}

	var raw map[string]normalize.RawEntry
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}
	return raw, nil
}

// UpsertEntry saves one entry, keyed by its date on the server side. The
// operation is idempotent: repeating it with the same content is safe.
func (c *HTTPClient) UpsertEntry(ctx context.Context, entry models.JournalEntry) bool {
	res, err := c.do(ctx, http.MethodPost, "/api/save", entry)
	if err != nil {
		c.log.Debug(ctx, "upsert failed", "date", entry.Date, "error", err)
		return false
	}
	drainBody(res)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.log.Debug(ctx, "upsert rejected", "date", entry.Date, "status", res.Status)
		return false
	}
	return true
}

// FetchSettings loads the remote settings object, or nil when unavailable.
func (c *HTTPClient) FetchSettings(ctx context.Context) *models.Settings {
	res, err := c.do(ctx, http.MethodGet, "/api/settings", nil)
	if err != nil {
		c.log.Debug(ctx, "settings fetch failed", "error", err)
		return nil
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil
	}

	var settings models.Settings
	if err := json.NewDecoder(res.Body).Decode(&settings); err != nil {
		c.log.Warn(ctx, "settings decode failed", "error", err)
		return nil
	}
	return &settings
}

// PushSettings uploads settings best-effort. Settings sync carries no
// durability guarantee; failures are only logged.
func (c *HTTPClient) PushSettings(ctx context.Context, settings models.Settings) {
	res, err := c.do(ctx, http.MethodPost, "/api/settings", settings)
	if err != nil {
		c.log.Warn(ctx, "settings push failed", "error", err)
		return
	}
	drainBody(res)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.log.Warn(ctx, "settings push rejected", "status", res.Status)
	}
}

// Ping probes server reachability via the health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	res, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	drainBody(res)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("health check returned %s", res.Status)
	}
	return nil
}
