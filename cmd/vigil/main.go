package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calderasec/vigil/internal/cache"
	"github.com/calderasec/vigil/internal/config"
	"github.com/calderasec/vigil/internal/controller"
	"github.com/calderasec/vigil/internal/feed"
	"github.com/calderasec/vigil/internal/logging"
	"github.com/calderasec/vigil/internal/ui"
	"github.com/calderasec/vigil/internal/watchlist"
)

func main() {
	once := flag.Bool("once", false, "poll every source once, print counts, and exit")
	configPath := flag.String("config", "", "path to config file (default: <data dir>/config.json)")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dataDir, err := config.DefaultDataDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}
	if v := os.Getenv("VIGIL_DATA_DIR"); v != "" {
		dataDir = v
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	if err := logging.Init(dataDir); err != nil {
		log.Fatalf("Failed to init logging: %v", err)
	}
	defer logging.Close()

	if *configPath == "" {
		*configPath = config.Path(dataDir)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DataDir != "" {
		dataDir = cfg.DataDir
	}

	// Response cache backend
	store, closeStore := openCacheStore(cfg, dataDir)
	defer closeStore()

	fetcher := cache.NewFetcher(30*time.Second, store)

	// Durable watchlists, separate from the transient response cache
	watchStore, err := watchlist.Open(filepath.Join(dataDir, "watchlists.db"))
	if err != nil {
		log.Fatalf("Failed to open watchlist store: %v", err)
	}
	defer watchStore.Close()

	// One controller per configured source. Snapshots flow to the TUI via
	// program.Send; the program pointer is set before any controller starts.
	var program *tea.Program
	send := func(snap controller.Snapshot) {
		if program != nil {
			program.Send(ui.SnapshotMsg{Snapshot: snap})
		}
	}

	var controllers []*controller.Controller
	byName := make(map[string]*controller.Controller)
	var names []string
	for _, src := range cfg.Sources {
		normalize, ok := feed.ForKind(src.Kind)
		if !ok {
			log.Fatalf("Unknown source kind %q for %q", src.Kind, src.Name)
		}

		maxItems := src.MaxItems
		if maxItems == 0 {
			maxItems = cfg.UI.ItemLimit
		}

		c, err := controller.New(controller.Options{
			Name:         src.Name,
			Endpoint:     src.Endpoint,
			CacheKey:     src.CacheKey,
			WatchlistKey: src.WatchlistKey,
			CacheTTL:     time.Duration(src.CacheTTLSeconds) * time.Second,
			Refresh:      time.Duration(src.RefreshSeconds) * time.Second,
			MaxItems:     maxItems,
			Normalize:    normalize,
			OnUpdate:     send,
		}, fetcher, watchStore)
		if err != nil {
			log.Fatalf("Failed to create controller %q: %v", src.Name, err)
		}

		controllers = append(controllers, c)
		byName[src.Name] = c
		names = append(names, src.Name)
	}

	if *once {
		runOnce(ctx, controllers)
		return
	}

	hooks := ui.Hooks{
		SetWatchlist: func(source, raw string) {
			if c, ok := byName[source]; ok {
				c.SetWatchlist(raw)
			}
		},
		SetShowOnly: func(source string, on bool) {
			if c, ok := byName[source]; ok {
				c.SetShowOnlyWatchlist(on)
			}
		},
		SaveWatchlist: func(source string) {
			if c, ok := byName[source]; ok {
				c.SaveWatchlist()
			}
		},
	}

	program = tea.NewProgram(ui.NewModel(names, hooks), tea.WithAltScreen())

	for _, c := range controllers {
		c.Start(ctx)
	}

	if _, err := program.Run(); err != nil {
		log.Printf("Error running program: %v", err)
	}

	// Graceful shutdown: cancel in-flight fetches, then wait them out.
	cancel()
	for _, c := range controllers {
		c.Wait()
	}
}

// runOnce polls all sources in parallel and prints per-source counts.
func runOnce(ctx context.Context, controllers []*controller.Controller) {
	results := controller.RunOnce(ctx, controllers)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("%-14s ERROR %v\n", r.Name, r.Err)
			continue
		}
		fmt.Printf("%-14s %d items\n", r.Name, r.Items)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// openCacheStore builds the configured cache backend. Redis trouble degrades
// to the in-memory cache rather than refusing to start.
func openCacheStore(cfg *config.Config, dataDir string) (cache.Store, func()) {
	switch cfg.Cache.Backend {
	case "redis":
		rs, err := cache.NewRedisStore(cfg.Cache.RedisAddr, os.Getenv("REDIS_PASS"), cfg.Cache.RedisDB)
		if err != nil {
			logging.Warn("redis cache unavailable, using memory cache", "addr", cfg.Cache.RedisAddr, "err", err)
			return cache.NewMemoryStore(), func() {}
		}
		return rs, func() { rs.Close() }
	case "memory":
		return cache.NewMemoryStore(), func() {}
	default: // sqlite
		ss, err := cache.OpenSQLite(filepath.Join(dataDir, "cache.db"))
		if err != nil {
			log.Fatalf("Failed to open cache database: %v", err)
		}
		return ss, func() { ss.Close() }
	}
}
