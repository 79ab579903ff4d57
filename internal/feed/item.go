// Package feed defines the common item shape produced by all source
// normalizers, plus the severity buckets used across the app.
//
// A Normalizer is a pure function from one raw upstream payload to a slice
// of Items. Normalizers never mutate shared state and must be idempotent:
// the same payload always yields the same items with the same IDs, so that
// de-duplication across polls holds.
package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Severity buckets an item's urgency. Thresholds are fixed per source and
// inclusive on the lower bound of each tier.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the numeric ordering of a severity, low first.
// Unknown values rank below low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Item is the unified shape every source normalizes into.
type Item struct {
	ID        string // stable, source-scoped unique
	Source    string // "usgs", "waqi", "swpc", "gdacs", "newswire"
	Title     string
	Summary   string
	URL       string
	Lat       float64
	Lng       float64
	HasCoords bool
	Severity  Severity
	Published time.Time
}

// Normalizer maps one raw upstream payload to items.
// A top-level parse failure returns an error; junk individual entries are
// dropped silently instead.
type Normalizer func(raw []byte) ([]Item, error)

// QuakeSeverity classifies an earthquake magnitude.
// Boundaries: >=6.0 critical, >=5.0 high, >=4.0 medium, else low.
func QuakeSeverity(mag float64) Severity {
	switch {
	case mag >= 6.0:
		return SeverityCritical
	case mag >= 5.0:
		return SeverityHigh
	case mag >= 4.0:
		return SeverityMedium
	}
	return SeverityLow
}

// AQISeverity classifies an air quality index reading.
// Boundaries: >=200 critical, >=150 high, >=100 medium, else low.
func AQISeverity(aqi int) Severity {
	switch {
	case aqi >= 200:
		return SeverityCritical
	case aqi >= 150:
		return SeverityHigh
	case aqi >= 100:
		return SeverityMedium
	}
	return SeverityLow
}

// ScaleSeverity classifies a NOAA space weather scale level (R/S/G 1-5).
// Boundaries: >=4 critical, 3 high, 2 medium, else low.
func ScaleSeverity(level int) Severity {
	switch {
	case level >= 4:
		return SeverityCritical
	case level == 3:
		return SeverityHigh
	case level == 2:
		return SeverityMedium
	}
	return SeverityLow
}

// AlertLevelSeverity classifies a GDACS alert level string.
// Unknown levels fall into the low bucket rather than being dropped.
func AlertLevelSeverity(level string) Severity {
	switch level {
	case "Red":
		return SeverityCritical
	case "Orange":
		return SeverityHigh
	case "Green":
		return SeverityMedium
	}
	return SeverityLow
}

// hashString creates a short hex hash of a string for use as an ID.
// IDs derived this way are deterministic: the same input always produces
// the same ID, never a random one.
func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:8]) // 16 character hex string
}
