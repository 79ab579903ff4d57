// Package controller owns the polling lifecycle of one feed source: fetch
// through the cache, normalize, bound, publish, and filter by watchlist.
//
// Each Controller runs one background goroutine with context cancellation
// as the only stop mechanism. Cycles are serialized inside that goroutine,
// so there is never more than one fetch in flight per controller.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/calderasec/vigil/internal/feed"
	"github.com/calderasec/vigil/internal/logging"
)

// Status is the externally visible feed state.
type Status string

const (
	// StatusIdle is the pre-start state, never observed after Start.
	StatusIdle Status = "idle"
	// StatusLoading means a fetch is in flight or about to start.
	StatusLoading Status = "loading"
	// StatusLive means the last fetch succeeded.
	StatusLive Status = "live"
	// StatusDegraded means the last fetch failed; the previous items are
	// retained so the view shows stale data instead of going blank.
	StatusDegraded Status = "degraded"
)

// Defaults applied when Options leaves a knob unset.
const (
	DefaultMaxItems     = 100
	DefaultRefresh      = 60 * time.Second
	DefaultCacheTTL     = 5 * time.Minute
	DefaultFetchTimeout = 30 * time.Second
)

// Fetcher is the slice of the cache fetcher the controller needs.
// Narrow on purpose so tests can inject a fake.
type Fetcher interface {
	FetchWithCache(ctx context.Context, url, cacheKey string, ttl time.Duration) ([]byte, error)
}

// WatchlistStore persists watch terms across sessions. May be nil, in which
// case the watchlist starts empty and saving is a no-op.
type WatchlistStore interface {
	Load(key string) string
	Save(key, value string)
}

// Options configures a Controller.
type Options struct {
	Name         string // display name, also used in logs
	Endpoint     string // upstream URL
	CacheKey     string // cache store key; caller ensures uniqueness
	WatchlistKey string // watchlist store key; empty disables persistence

	CacheTTL     time.Duration // payload freshness window
	Refresh      time.Duration // poll interval
	FetchTimeout time.Duration // per-cycle deadline
	MaxItems     int           // bound on published items

	Normalize  feed.Normalizer        // required
	Searchable func(feed.Item) string // text the watchlist matches against
	OnUpdate   func(Snapshot)         // called after every publish; may be nil
}

// Snapshot is one published view of controller state. All slices are copies;
// consumers are read-only observers.
type Snapshot struct {
	Name              string
	Status            Status
	Items             []feed.Item
	PinnedItems       []feed.Item
	VisibleItems      []feed.Item
	UpdatedAt         time.Time
	Watchlist         string
	WatchTerms        []string
	ShowOnlyWatchlist bool
}

// Controller polls one endpoint and republishes filtered state.
type Controller struct {
	opts     Options
	fetcher  Fetcher
	watchers WatchlistStore

	mu        sync.RWMutex
	status    Status
	items     []feed.Item
	updatedAt time.Time
	watchlist string
	showOnly  bool

	wg sync.WaitGroup
}

// New validates options, applies defaults, and loads the persisted
// watchlist. A missing normalizer or endpoint is a programming error and
// fails construction.
func New(opts Options, f Fetcher, w WatchlistStore) (*Controller, error) {
	if opts.Normalize == nil {
		return nil, fmt.Errorf("controller %q: Normalize is required", opts.Name)
	}
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("controller %q: Endpoint is required", opts.Name)
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	if opts.Refresh <= 0 {
		opts.Refresh = DefaultRefresh
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Searchable == nil {
		opts.Searchable = func(it feed.Item) string { return it.Title + " " + it.Summary }
	}

	c := &Controller{
		opts:     opts,
		fetcher:  f,
		watchers: w,
		status:   StatusIdle,
	}
	if w != nil && opts.WatchlistKey != "" {
		c.watchlist = w.Load(opts.WatchlistKey)
	}
	return c, nil
}

// Start begins polling. The first cycle runs immediately, not on the first
// tick. Cancel the context to stop, then Wait.
func (c *Controller) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.cycle(ctx)

		ticker := time.NewTicker(c.opts.Refresh)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.cycle(ctx)
			}
		}
	}()
}

// Wait blocks until the polling goroutine exits.
// Call after canceling the context passed to Start.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// PollOnce runs a single fetch cycle synchronously. Used by the headless
// one-shot mode; Start uses the same cycle internally.
func (c *Controller) PollOnce(ctx context.Context) (int, error) {
	return c.cycle(ctx)
}

// cycle performs one fetch+normalize+publish pass.
//
// State transitions: loading at entry; live on success; degraded on any
// failure except cancellation of the parent context, which leaves state
// untouched. Returns the published item count.
func (c *Controller) cycle(ctx context.Context) (int, error) {
	c.setStatus(StatusLoading)

	fetchCtx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	raw, err := c.fetcher.FetchWithCache(fetchCtx, c.opts.Endpoint, c.opts.CacheKey, c.opts.CacheTTL)
	if err != nil {
		return c.fail(ctx, err)
	}

	items, err := c.opts.Normalize(raw)
	if err != nil {
		return c.fail(ctx, err)
	}

	// Ordering is the controller's job, not the normalizer's.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Published.After(items[j].Published)
	})
	if len(items) > c.opts.MaxItems {
		items = items[:c.opts.MaxItems]
	}

	c.mu.Lock()
	c.items = items
	c.updatedAt = time.Now()
	c.status = StatusLive
	c.mu.Unlock()

	c.publish()
	return len(items), nil
}

// fail resolves a cycle error: torn-down controllers discard the result
// silently, everything else degrades while keeping the last good items.
func (c *Controller) fail(ctx context.Context, err error) (int, error) {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		// Teardown mid-flight: no state transition after cancellation.
		return 0, err
	}

	logging.Warn("fetch cycle failed", "source", c.opts.Name, "err", err)
	c.setStatus(StatusDegraded)
	return 0, err
}

// setStatus updates status without touching items, then publishes.
func (c *Controller) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
	c.publish()
}

// publish hands the current snapshot to the consumer, if any.
func (c *Controller) publish() {
	if c.opts.OnUpdate != nil {
		c.opts.OnUpdate(c.Snapshot())
	}
}

// Snapshot returns a copy of the current state with the derived watchlist
// views computed.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]feed.Item, len(c.items))
	copy(items, c.items)

	terms := ParseTerms(c.watchlist)
	pinned := matchItems(items, terms, c.opts.Searchable)

	// Fall back to the full list when show-only is on but no terms are
	// set, so the view never filters down to empty by accident.
	visible := items
	if c.showOnly && len(terms) > 0 {
		visible = pinned
	}

	return Snapshot{
		Name:              c.opts.Name,
		Status:            c.status,
		Items:             items,
		PinnedItems:       pinned,
		VisibleItems:      visible,
		UpdatedAt:         c.updatedAt,
		Watchlist:         c.watchlist,
		WatchTerms:        terms,
		ShowOnlyWatchlist: c.showOnly,
	}
}

// SetWatchlist replaces the watchlist input. This only re-filters already
// fetched items; it triggers no fetch and no persistence.
func (c *Controller) SetWatchlist(raw string) {
	c.mu.Lock()
	c.watchlist = raw
	c.mu.Unlock()
	c.publish()
}

// SetShowOnlyWatchlist toggles the pinned-only view.
func (c *Controller) SetShowOnlyWatchlist(on bool) {
	c.mu.Lock()
	c.showOnly = on
	c.mu.Unlock()
	c.publish()
}

// SaveWatchlist persists the current watchlist string as the user typed it.
// Explicit by contract: typing never autosaves.
func (c *Controller) SaveWatchlist() {
	if c.watchers == nil || c.opts.WatchlistKey == "" {
		return
	}
	c.mu.RLock()
	raw := c.watchlist
	c.mu.RUnlock()
	c.watchers.Save(c.opts.WatchlistKey, raw)
}

// ParseTerms splits a comma-separated watchlist into match terms:
// trimmed, lower-cased, empty tokens removed.
func ParseTerms(raw string) []string {
	var terms []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// matchItems returns the items whose searchable text contains at least one
// term, case-insensitively. Empty terms yield an empty result.
func matchItems(items []feed.Item, terms []string, searchable func(feed.Item) string) []feed.Item {
	if len(terms) == 0 {
		return nil
	}

	var matched []feed.Item
	for _, it := range items {
		text := strings.ToLower(searchable(it))
		for _, term := range terms {
			if strings.Contains(text, term) {
				matched = append(matched, it)
				break
			}
		}
	}
	return matched
}
