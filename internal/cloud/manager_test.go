package cloud_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pizzangooo/loyalty/internal/cloud"
	"github.com/pizzangooo/loyalty/internal/loyalty"
	"github.com/pizzangooo/loyalty/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(store.NewMemKV())
}

func TestManager_Pull_OverwritesLocalStore(t *testing.T) {
	remote := `{
		"customers":[{"id":"CUST1","name":"Ayu","instagram":"@ayu","phone":{"countryCode":"+62","number":"81234567"},"registeredAt":"2024-03-01T10:00:00Z","entryFeePaid":true}],
		"cards":[{"id":"FID-1","customerId":"CUST1","type":"Fidelity","points":2,"createdAt":"2024-03-01T10:00:00Z","expiresAt":"2025-03-01T10:00:00Z"}],
		"transactions":[]
	}`

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, remote)
	}))
	defer ts.Close()

	st := newStore(t)
	ctx := context.Background()

	// Local state that must be replaced wholesale.
	local := loyalty.NewDataset()
	local.Customers = append(local.Customers, loyalty.Customer{ID: "CUSTOLD", Name: "Old"})
	require.NoError(t, st.Replace(ctx, local))

	m := cloud.NewManager(st, ts.URL)

	synced, err := m.Pull(ctx)
	require.NoError(t, err)
	assert.True(t, synced)

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Customers, 1)
	assert.Equal(t, "CUST1", got.Customers[0].ID)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, 2, got.Cards[0].Points)
}

func TestManager_Pull_RejectsInvalidShape(t *testing.T) {
	// Payload missing the cards array must be rejected.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"customers":[],"transactions":[]}`)
	}))
	defer ts.Close()

	st := newStore(t)
	ctx := context.Background()

	local := loyalty.NewDataset()
	local.Customers = append(local.Customers, loyalty.Customer{ID: "CUST1", Name: "Ayu"})
	require.NoError(t, st.Replace(ctx, local))

	m := cloud.NewManager(st, ts.URL)

	synced, err := m.Pull(ctx)
	assert.ErrorIs(t, err, loyalty.ErrInvalidFormat)
	assert.False(t, synced)

	// Local data untouched.
	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Customers, 1)
	assert.Equal(t, "CUST1", got.Customers[0].ID)
}

func TestManager_Pull_DisabledWithoutURL(t *testing.T) {
	m := cloud.NewManager(newStore(t), "")

	synced, err := m.Pull(context.Background())
	require.NoError(t, err)
	assert.False(t, synced)
}

func TestManager_Pull_StoredURLOverridesDefault(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"customers":[],"cards":[],"transactions":[]}`)
	}))
	defer ts.Close()

	st := newStore(t)
	ctx := context.Background()

	// An explicitly cleared URL disables sync even with a default configured.
	m := cloud.NewManager(st, ts.URL)
	require.NoError(t, m.SetEndpoint(ctx, ""))

	synced, err := m.Pull(ctx)
	require.NoError(t, err)
	assert.False(t, synced)

	require.NoError(t, m.SetEndpoint(ctx, ts.URL))

	synced, err = m.Pull(ctx)
	require.NoError(t, err)
	assert.True(t, synced)
}

func TestManager_Pull_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	m := cloud.NewManager(newStore(t), ts.URL)

	synced, err := m.Pull(context.Background())
	assert.Error(t, err)
	assert.False(t, synced)
}

func TestManager_Push(t *testing.T) {
	var received *loyalty.Dataset

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		received, err = loyalty.DecodeDataset(body)
		require.NoError(t, err)

		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer ts.Close()

	m := cloud.NewManager(newStore(t), ts.URL)

	ds := loyalty.NewDataset()
	ds.Customers = append(ds.Customers, loyalty.Customer{ID: "CUST1", Name: "Ayu"})

	require.NoError(t, m.Push(context.Background(), ds))
	require.NotNil(t, received)
	assert.Equal(t, "CUST1", received.Customers[0].ID)
}

func TestManager_Push_EndpointReportsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "disk full"})
	}))
	defer ts.Close()

	m := cloud.NewManager(newStore(t), ts.URL)

	err := m.Push(context.Background(), loyalty.NewDataset())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestManager_PushAsync_ErrorsGoToSink(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	errs := make(chan error, 1)
	m := cloud.NewManager(newStore(t), ts.URL, cloud.WithErrorSink(func(err error) {
		errs <- err
	}))

	m.PushAsync(loyalty.NewDataset())

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("push error never reached the sink")
	}
}

// A save through the store must fan out to the endpoint without the caller
// waiting on it.
func TestStoreSave_PushesInBackground(t *testing.T) {
	pushed := make(chan struct{}, 1)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			pushed <- struct{}{}
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	defer ts.Close()

	st := newStore(t)
	m := cloud.NewManager(st, ts.URL)
	st.SetPusher(m)

	require.NoError(t, st.Save(context.Background(), loyalty.NewDataset()))

	select {
	case <-pushed:
	case <-time.After(5 * time.Second):
		t.Fatal("save never reached the sync endpoint")
	}
}
