package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/calderasec/vigil/internal/logging"
)

// StatusError is returned when an upstream responds with a non-2xx status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d fetching %s", e.Code, e.URL)
}

// Fetcher retrieves raw payloads over HTTP through a TTL cache.
//
// Side effects per call: at most one store read, at most one store write,
// at most one network call. Store failures never propagate; network failures
// and non-2xx responses always do.
type Fetcher struct {
	client *http.Client
	store  Store // nil disables caching entirely
	limit  *rate.Limiter
	now    func() time.Time
}

// NewFetcher creates a Fetcher with the given HTTP timeout and backing
// store. A nil store is valid and means every call goes to the network.
func NewFetcher(timeout time.Duration, store Store) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		store:  store,
		limit:  rate.NewLimiter(rate.Every(200*time.Millisecond), 3),
		now:    time.Now,
	}
}

// FetchWithCache returns the payload for url, serving from the cache when a
// stored entry under cacheKey is younger than ttl, otherwise fetching over
// the network and writing the result back best-effort.
//
// A negative ttl is a programming error and panics at call time.
// Cancellation of ctx propagates as the context's error.
func (f *Fetcher) FetchWithCache(ctx context.Context, url, cacheKey string, ttl time.Duration) ([]byte, error) {
	if ttl < 0 {
		panic(fmt.Sprintf("cache: negative ttl %v for key %q", ttl, cacheKey))
	}

	if payload, ok := f.readCache(ctx, cacheKey, ttl); ok {
		return payload, nil
	}

	payload, err := f.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	f.writeCache(ctx, cacheKey, payload)
	return payload, nil
}

// readCache returns the cached payload if a valid entry exists. Any failure
// (missing key, corrupt envelope, store error) reports a miss; the caller
// falls through to the network.
func (f *Fetcher) readCache(ctx context.Context, cacheKey string, ttl time.Duration) ([]byte, bool) {
	if f.store == nil {
		return nil, false
	}

	raw, err := f.store.Get(ctx, cacheKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.Debug("cache read failed", "key", cacheKey, "err", err)
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		logging.Debug("cache entry corrupt", "key", cacheKey, "err", err)
		return nil, false
	}

	age := f.now().Sub(time.UnixMilli(entry.Timestamp))
	if age >= ttl {
		return nil, false
	}
	return entry.Payload, true
}

// writeCache stores the payload under cacheKey. Failures are swallowed.
func (f *Fetcher) writeCache(ctx context.Context, cacheKey string, payload []byte) {
	if f.store == nil {
		return
	}

	raw, err := json.Marshal(Entry{Timestamp: f.now().UnixMilli(), Payload: payload})
	if err != nil {
		return
	}
	if err := f.store.Put(ctx, cacheKey, raw); err != nil {
		logging.Debug("cache write failed", "key", cacheKey, "err", err)
	}
}

// fetch performs the network request, bypassing intermediary HTTP caches.
func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limit.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Vigil/1.0 (https://github.com/calderasec/vigil)")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
