package cache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// failingStore errors on every operation, for exercising the swallow paths.
type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("store unavailable")
}
func (failingStore) Put(ctx context.Context, key string, value []byte) error {
	return errors.New("store unavailable")
}
func (failingStore) Delete(ctx context.Context, key string) error {
	return errors.New("store unavailable")
}

func newTestServer(t *testing.T, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(body))
	}))
}

func TestFetchWithCacheServesFromCacheWithinTTL(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, `{"ok":true}`, &hits)
	defer srv.Close()

	f := NewFetcher(5*time.Second, NewMemoryStore())
	ctx := context.Background()

	first, err := f.FetchWithCache(ctx, srv.URL, "k1", time.Minute)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	second, err := f.FetchWithCache(ctx, srv.URL, "k1", time.Minute)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if hits.Load() != 1 {
		t.Errorf("expected 1 network call, got %d", hits.Load())
	}
	if string(first) != string(second) {
		t.Errorf("cached payload differs: %q vs %q", first, second)
	}
}

func TestFetchWithCacheRefetchesAfterTTL(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, `{"ok":true}`, &hits)
	defer srv.Close()

	f := NewFetcher(5*time.Second, NewMemoryStore())
	ctx := context.Background()

	now := time.Now()
	f.now = func() time.Time { return now }

	if _, err := f.FetchWithCache(ctx, srv.URL, "k1", time.Minute); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	// Advance the clock past the TTL; the entry must read as absent.
	f.now = func() time.Time { return now.Add(time.Minute) }

	if _, err := f.FetchWithCache(ctx, srv.URL, "k1", time.Minute); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if hits.Load() != 2 {
		t.Errorf("expected 2 network calls after expiry, got %d", hits.Load())
	}
}

func TestFetchWithCacheCorruptEntryFallsThrough(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, `{"ok":true}`, &hits)
	defer srv.Close()

	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Put(ctx, "k1", []byte("not json at all")); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(5*time.Second, store)
	payload, err := f.FetchWithCache(ctx, srv.URL, "k1", time.Minute)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if string(payload) != `{"ok":true}` {
		t.Errorf("unexpected payload: %q", payload)
	}
	if hits.Load() != 1 {
		t.Errorf("expected corrupt entry to fall through to network, got %d hits", hits.Load())
	}
}

func TestFetchWithCacheStoreFailuresNeverSurface(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, "payload", &hits)
	defer srv.Close()

	f := NewFetcher(5*time.Second, failingStore{})
	payload, err := f.FetchWithCache(context.Background(), srv.URL, "k1", time.Minute)
	if err != nil {
		t.Fatalf("store failure surfaced as fetch error: %v", err)
	}
	if string(payload) != "payload" {
		t.Errorf("unexpected payload: %q", payload)
	}
}

func TestFetchWithCacheNilStoreAlwaysFetches(t *testing.T) {
	var hits atomic.Int32
	srv := newTestServer(t, "payload", &hits)
	defer srv.Close()

	f := NewFetcher(5*time.Second, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.FetchWithCache(ctx, srv.URL, "k1", time.Hour); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}
	if hits.Load() != 3 {
		t.Errorf("expected 3 network calls with nil store, got %d", hits.Load())
	}
}

func TestFetchWithCacheNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, NewMemoryStore())
	_, err := f.FetchWithCache(context.Background(), srv.URL, "k1", time.Minute)
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %T: %v", err, err)
	}
	if statusErr.Code != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", statusErr.Code)
	}
}

func TestFetchWithCacheNegativeTTLPanics(t *testing.T) {
	f := NewFetcher(5*time.Second, NewMemoryStore())

	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative ttl")
		}
	}()
	f.FetchWithCache(context.Background(), "http://example.com", "k1", -time.Second)
}

func TestFetchWithCacheRespectsCancellation(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, NewMemoryStore())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := f.FetchWithCache(ctx, srv.URL, "k1", time.Minute)
		done <- err
	}()

	<-started
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not return after cancellation")
	}
}
