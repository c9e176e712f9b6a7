// Package cloud replicates the dataset to and from a single remote document
// endpoint, last write wins. Pull overwrites the local store; push is
// fire-and-forget.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pizzangooo/loyalty/internal/loyalty"
	"github.com/pizzangooo/loyalty/internal/store"
)

const defaultTimeout = 15 * time.Second

// Manager talks to the sync endpoint. The endpoint URL is resolved from the
// store on every call, falling back to the configured default when the user
// never set one; an empty URL disables both directions.
type Manager struct {
	store      *store.Store
	client     *http.Client
	defaultURL string
	errSink    func(error)
}

type Option func(*Manager)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(m *Manager) { m.client = c }
}

// WithErrorSink receives errors from fire-and-forget pushes. The default
// sink logs them.
func WithErrorSink(sink func(error)) Option {
	return func(m *Manager) { m.errSink = sink }
}

func NewManager(st *store.Store, defaultURL string, opts ...Option) *Manager {
	m := &Manager{
		store:      st,
		client:     &http.Client{Timeout: defaultTimeout},
		defaultURL: defaultURL,
		errSink: func(err error) {
			slog.Error("cloud push failed", "error", err)
		},
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Endpoint resolves the sync endpoint URL. Empty means sync is disabled.
func (m *Manager) Endpoint(ctx context.Context) (string, error) {
	url, ok, err := m.store.SyncURL(ctx)
	if err != nil {
		return "", err
	}

	if !ok {
		return m.defaultURL, nil
	}

	return url, nil
}

// SetEndpoint persists the sync endpoint URL. Storing an empty string
// disables sync even when a default is configured.
func (m *Manager) SetEndpoint(ctx context.Context, url string) error {
	return m.store.SetSyncURL(ctx, url)
}

// Pull fetches the remote document and, when it has the dataset shape,
// overwrites the local store with it unconditionally. It reports false when
// sync is disabled, and an error on network failure or an invalid payload;
// in both cases the local data is left untouched.
func (m *Manager) Pull(ctx context.Context) (bool, error) {
	url, err := m.Endpoint(ctx)
	if err != nil {
		return false, err
	}

	if url == "" {
		return false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("fetching remote dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("unexpected status %d from sync endpoint", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("reading remote dataset: %w", err)
	}

	ds, err := loyalty.DecodeDataset(body)
	if err != nil {
		return false, fmt.Errorf("remote dataset rejected: %w", err)
	}

	if err := m.store.Replace(ctx, ds); err != nil {
		return false, err
	}

	return true, nil
}

type pushResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Push sends the dataset to the endpoint, replacing the remote document.
func (m *Manager) Push(ctx context.Context, ds *loyalty.Dataset) error {
	url, err := m.Endpoint(ctx)
	if err != nil {
		return err
	}

	if url == "" {
		return nil
	}

	data, err := loyalty.EncodeDataset(ds)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("pushing dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status %d from sync endpoint", resp.StatusCode)
	}

	// The endpoint answers with a status document; tolerate anything that
	// is not JSON, some deployments respond with an empty body.
	var pr pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err == nil && pr.Status == "error" {
		return fmt.Errorf("sync endpoint rejected push: %s", pr.Message)
	}

	return nil
}

// PushAsync pushes in the background. The caller's local write has already
// succeeded and is never rolled back; failures go to the error sink only.
func (m *Manager) PushAsync(ds *loyalty.Dataset) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()

		if err := m.Push(ctx, ds); err != nil {
			m.errSink(err)
		}
	}()
}
