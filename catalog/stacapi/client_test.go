package stacapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/poiesic/stacpopulator/catalog"
	"github.com/poiesic/stacpopulator/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSTAC is a minimal in-memory STAC Transactions API.
type fakeSTAC struct {
	mu          sync.Mutex
	collections map[string]json.RawMessage
	items       map[string]map[string]json.RawMessage
	requests    []string
	failures    int // respond 503 to this many requests first
}

func newFakeSTAC(t *testing.T) (*fakeSTAC, *httptest.Server) {
	t.Helper()
	f := &fakeSTAC{
		collections: make(map[string]json.RawMessage),
		items:       make(map[string]map[string]json.RawMessage),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /collections", func(w http.ResponseWriter, r *http.Request) {
		var col struct {
			ID string `json:"id"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &col)
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.collections[col.ID]; ok {
			http.Error(w, `{"code":"ConflictError"}`, http.StatusConflict)
			return
		}
		f.collections[col.ID] = body
		f.items[col.ID] = make(map[string]json.RawMessage)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("PUT /collections/{collection}", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.collections[r.PathValue("collection")] = body
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /collections/{collection}/items/{item}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		item, ok := f.items[r.PathValue("collection")][r.PathValue("item")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(item)
	})
	mux.HandleFunc("POST /collections/{collection}/items", func(w http.ResponseWriter, r *http.Request) {
		var item struct {
			ID string `json:"id"`
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &item)
		f.mu.Lock()
		defer f.mu.Unlock()
		items, ok := f.items[r.PathValue("collection")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if _, exists := items[item.ID]; exists {
			http.Error(w, "item exists", http.StatusConflict)
			return
		}
		items[item.ID] = body
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("PUT /collections/{collection}/items/{item}", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		defer f.mu.Unlock()
		items := f.items[r.PathValue("collection")]
		if _, exists := items[r.PathValue("item")]; !exists {
			http.NotFound(w, r)
			return
		}
		items[r.PathValue("item")] = body
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		fail := f.failures > 0
		if fail {
			f.failures--
		}
		f.mu.Unlock()
		if fail {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeSTAC) requestLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func testCollection() *catalog.Collection {
	cfg := &catalog.CollectionConfig{ID: "CMIP6_UofT", Title: "CMIP6", Description: "CMIP6 data"}
	return cfg.Collection()
}

func testItem(id string) *core.Item {
	d := core.NewDraft("CMIP6_UofT")
	_ = d.SetID(id)
	_ = d.SetGeometry(core.NewPolygon(0, -90, 360, 90), []float64{0, -90, 360, 90})
	_ = d.SetProperty("datetime", nil)
	_ = d.SetProperty("start_datetime", "2015-01-01T00:00:00Z")
	_ = d.SetProperty("end_datetime", "2100-12-31T00:00:00Z")
	return d.Item()
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	c, err := New(server.URL+"/", server.Client(), WithRetry(3, time.Millisecond))
	require.NoError(t, err)
	return c
}

func TestNew_InvalidHost(t *testing.T) {
	for _, host := range []string{"", "localhost:8080", "ftp://example.org", "http://", "::bad"} {
		_, err := New(host, nil)
		assert.ErrorIs(t, err, ErrInvalidHost, host)
	}

	_, err := New("http://example.org", nil, WithRetry(0, time.Second))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestClient_ItemLifecycle(t *testing.T) {
	ctx := context.Background()
	fake, server := newFakeSTAC(t)
	client := newTestClient(t, server)

	require.NoError(t, client.EnsureCollection(ctx, testCollection(), false))

	exists, err := client.ItemExists(ctx, "CMIP6_UofT", "item-1")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, client.CreateItem(ctx, "CMIP6_UofT", testItem("item-1")))

	exists, err = client.ItemExists(ctx, "CMIP6_UofT", "item-1")
	require.NoError(t, err)
	assert.True(t, exists)

	err = client.CreateItem(ctx, "CMIP6_UofT", testItem("item-1"))
	var pe *catalog.PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusConflict, pe.StatusCode)
	assert.ErrorIs(t, err, catalog.ErrAlreadyExists)

	require.NoError(t, client.ReplaceItem(ctx, "CMIP6_UofT", "item-1", testItem("item-1")))

	err = client.ReplaceItem(ctx, "CMIP6_UofT", "item-2", testItem("item-2"))
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	assert.Equal(t, []string{
		"POST /collections",
		"GET /collections/CMIP6_UofT/items/item-1",
		"POST /collections/CMIP6_UofT/items",
		"GET /collections/CMIP6_UofT/items/item-1",
		"POST /collections/CMIP6_UofT/items",
		"PUT /collections/CMIP6_UofT/items/item-1",
		"PUT /collections/CMIP6_UofT/items/item-2",
	}, fake.requestLog())
}

func TestClient_EnsureCollectionUpdate(t *testing.T) {
	ctx := context.Background()
	fake, server := newFakeSTAC(t)
	client := newTestClient(t, server)

	require.NoError(t, client.EnsureCollection(ctx, testCollection(), false))
	require.NoError(t, client.EnsureCollection(ctx, testCollection(), false))
	require.NoError(t, client.EnsureCollection(ctx, testCollection(), true))

	assert.Equal(t, []string{
		"POST /collections",
		"POST /collections",
		"POST /collections",
		"PUT /collections/CMIP6_UofT",
	}, fake.requestLog())
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	ctx := context.Background()
	fake, server := newFakeSTAC(t)
	client := newTestClient(t, server)
	require.NoError(t, client.EnsureCollection(ctx, testCollection(), false))

	fake.mu.Lock()
	fake.failures = 2
	fake.mu.Unlock()

	require.NoError(t, client.CreateItem(ctx, "CMIP6_UofT", testItem("item-1")))
	assert.Len(t, fake.requestLog(), 4)
}

func TestClient_RetriesExhausted(t *testing.T) {
	ctx := context.Background()
	fake, server := newFakeSTAC(t)
	client := newTestClient(t, server)

	fake.mu.Lock()
	fake.failures = 10
	fake.mu.Unlock()

	_, err := client.ItemExists(ctx, "CMIP6_UofT", "item-1")
	var pe *catalog.PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "lookup", pe.Op)
	assert.Equal(t, http.StatusServiceUnavailable, pe.StatusCode)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Len(t, fake.requestLog(), 3)
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"description":"invalid item"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.CreateItem(context.Background(), "CMIP6_UofT", testItem("item-1"))

	var pe *catalog.PublishError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, http.StatusBadRequest, pe.StatusCode)
	assert.Contains(t, err.Error(), "invalid item")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_NetworkError(t *testing.T) {
	_, server := newFakeSTAC(t)
	client := newTestClient(t, server)
	server.Close()

	_, err := client.ItemExists(context.Background(), "CMIP6_UofT", "item-1")
	var pe *catalog.PublishError
	require.ErrorAs(t, err, &pe)
	assert.Zero(t, pe.StatusCode)
}

func TestClient_EscapesIdentifiers(t *testing.T) {
	fake, server := newFakeSTAC(t)
	client := newTestClient(t, server)

	_, err := client.ItemExists(context.Background(), "CMIP6_UofT", "a b")
	require.NoError(t, err)
	assert.Equal(t, []string{"GET /collections/CMIP6_UofT/items/a b"}, fake.requestLog())
}

func TestClient_Validate(t *testing.T) {
	_, server := newFakeSTAC(t)
	client := newTestClient(t, server)

	assert.NoError(t, client.Validate(testItem("item-1")))

	invalid := testItem("item-1")
	delete(invalid.Properties, "start_datetime")
	assert.ErrorIs(t, client.Validate(invalid), core.ErrInvalidDatetime)
	assert.NoError(t, client.Close())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"ascii", "abcdef", 3, "abc..."},
		{"inside rune", "aé", 2, "a..."},
		{"rune boundary", "éa", 2, "é..."},
		{"inside wide rune", "ab東", 4, "ab..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.in, tt.n))
		})
	}
}

func TestStatusError_TruncatesBodyOnRuneBoundary(t *testing.T) {
	body := []byte(strings.Repeat("a", maxErrorBody-1) + strings.Repeat("é", 10))
	err := statusError("create", "c", "i", http.StatusBadRequest, body)

	var pe *catalog.PublishError
	require.True(t, errors.As(err, &pe))
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.True(t, strings.HasSuffix(err.Error(), "..."))
}
