package feed

import (
	"encoding/json"
	"fmt"
	"time"
)

// GeoJSON structures for the USGS earthquake summary feeds.
type quakeCollection struct {
	Features []quakeFeature `json:"features"`
}

type quakeFeature struct {
	ID         string          `json:"id"`
	Properties quakeProperties `json:"properties"`
	Geometry   quakeGeometry   `json:"geometry"`
}

type quakeProperties struct {
	Mag     float64 `json:"mag"`     // Magnitude
	Place   string  `json:"place"`   // Location description
	Time    int64   `json:"time"`    // Unix timestamp (ms)
	URL     string  `json:"url"`     // USGS event page
	Alert   string  `json:"alert"`   // PAGER alert level (green/yellow/orange/red)
	Tsunami int     `json:"tsunami"` // 1 if tsunami warning
	Title   string  `json:"title"`
	Type    string  `json:"type"` // earthquake, quarry blast, etc.
}

type quakeGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude, depth]
}

// NormalizeQuakes maps a USGS GeoJSON summary payload to items.
// Features without coordinates are dropped (the map view cannot place them).
// Severity comes from magnitude via QuakeSeverity.
func NormalizeQuakes(raw []byte) ([]Item, error) {
	var fc quakeCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("failed to decode earthquakes: %w", err)
	}

	items := make([]Item, 0, len(fc.Features))
	for _, f := range fc.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		lng := f.Geometry.Coordinates[0]
		lat := f.Geometry.Coordinates[1]

		title := f.Properties.Title
		if title == "" {
			title = fmt.Sprintf("M %.1f - %s", f.Properties.Mag, f.Properties.Place)
		}

		summary := fmt.Sprintf("Magnitude %.1f earthquake %s", f.Properties.Mag, f.Properties.Place)
		if f.Properties.Alert != "" {
			summary += fmt.Sprintf(" [ALERT: %s]", f.Properties.Alert)
		}
		if f.Properties.Tsunami == 1 {
			summary += " [TSUNAMI WARNING]"
		}
		if len(f.Geometry.Coordinates) >= 3 {
			summary += fmt.Sprintf(" Depth: %.1fkm", f.Geometry.Coordinates[2])
		}

		id := f.ID
		if id == "" {
			// Composite of timestamp and coordinates keeps the ID stable
			// across polls when USGS omits the event id.
			id = hashString(fmt.Sprintf("quake|%d|%.4f|%.4f", f.Properties.Time, lat, lng))
		}

		items = append(items, Item{
			ID:        "usgs-" + id,
			Source:    "usgs",
			Title:     title,
			Summary:   summary,
			URL:       f.Properties.URL,
			Lat:       lat,
			Lng:       lng,
			HasCoords: true,
			Severity:  QuakeSeverity(f.Properties.Mag),
			Published: time.UnixMilli(f.Properties.Time),
		})
	}

	return items, nil
}
