// Package config loads and persists the application configuration.
//
// Configuration lives in a JSON file under the data directory. A .env file
// (or the process environment) overrides connection details so secrets stay
// out of the config file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the persistent application configuration.
type Config struct {
	DataDir string         `json:"data_dir,omitempty"`
	Cache   CacheConfig    `json:"cache"`
	UI      UIConfig       `json:"ui"`
	Sources []SourceConfig `json:"sources"`
}

// CacheConfig selects and configures the response cache backend.
type CacheConfig struct {
	Backend   string `json:"backend"` // "memory", "sqlite", or "redis"
	RedisAddr string `json:"redis_addr,omitempty"`
	RedisDB   int    `json:"redis_db,omitempty"`
}

// UIConfig holds UI preferences.
type UIConfig struct {
	Theme     string `json:"theme"`
	ItemLimit int    `json:"item_limit"`
}

// SourceConfig describes one upstream feed.
type SourceConfig struct {
	Name            string `json:"name"`
	Kind            string `json:"kind"` // normalizer: quake, airquality, spaceweather, disaster, newswire
	Endpoint        string `json:"endpoint"`
	CacheKey        string `json:"cache_key"`
	WatchlistKey    string `json:"watchlist_key"`
	CacheTTLSeconds int    `json:"cache_ttl_seconds"`
	RefreshSeconds  int    `json:"refresh_seconds"`
	MaxItems        int    `json:"max_items"`
}

// DefaultConfig returns sensible defaults: the five live sources with the
// public endpoints the normalizers understand.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend: "sqlite",
		},
		UI: UIConfig{
			Theme:     "dark",
			ItemLimit: 100,
		},
		Sources: []SourceConfig{
			{
				Name:            "Seismic",
				Kind:            "quake",
				Endpoint:        "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson",
				CacheKey:        "feed:quakes",
				WatchlistKey:    "watch:quakes",
				CacheTTLSeconds: 300,
				RefreshSeconds:  60,
				MaxItems:        100,
			},
			{
				Name:            "Air Quality",
				Kind:            "airquality",
				Endpoint:        "https://api.waqi.info/v2/map/bounds?latlng=-60,-180,70,180&token=demo",
				CacheKey:        "feed:aqi",
				WatchlistKey:    "watch:aqi",
				CacheTTLSeconds: 900,
				RefreshSeconds:  300,
				MaxItems:        100,
			},
			{
				Name:            "Space Weather",
				Kind:            "spaceweather",
				Endpoint:        "https://services.swpc.noaa.gov/products/alerts.json",
				CacheKey:        "feed:swpc",
				WatchlistKey:    "watch:swpc",
				CacheTTLSeconds: 900,
				RefreshSeconds:  300,
				MaxItems:        50,
			},
			{
				Name:            "Disasters",
				Kind:            "disaster",
				Endpoint:        "https://www.gdacs.org/gdacsapi/api/events/geteventlist/MAP",
				CacheKey:        "feed:gdacs",
				WatchlistKey:    "watch:gdacs",
				CacheTTLSeconds: 600,
				RefreshSeconds:  300,
				MaxItems:        100,
			},
			{
				Name:            "News Wire",
				Kind:            "newswire",
				Endpoint:        "https://news.google.com/rss/search?q=security+OR+port+OR+pipeline+OR+substation",
				CacheKey:        "feed:news",
				WatchlistKey:    "watch:news",
				CacheTTLSeconds: 300,
				RefreshSeconds:  120,
				MaxItems:        100,
			},
		},
	}
}

// DefaultDataDir returns ~/.vigil.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".vigil"), nil
}

// Path returns the config file path under dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, "config.json")
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist, then applies environment overrides. A .env file in
// the working directory is honored if present.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	_ = godotenv.Load()
	applyEnv(cfg)
	return cfg, nil
}

// Save writes the config as indented JSON.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// applyEnv overlays environment variables onto cfg.
func applyEnv(cfg *Config) {
	if v := os.Getenv("VIGIL_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Cache.RedisDB = db
		}
	}
	if v := os.Getenv("VIGIL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
}
