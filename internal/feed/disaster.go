package feed

import (
	"encoding/json"
	"fmt"
	"time"
)

// GDACS GeoJSON event feed structures.
type disasterCollection struct {
	Features []disasterFeature `json:"features"`
}

type disasterFeature struct {
	Properties disasterProperties `json:"properties"`
	Geometry   disasterGeometry   `json:"geometry"`
}

type disasterProperties struct {
	EventID     json.Number  `json:"eventid"`
	EventType   string       `json:"eventtype"`  // EQ, TC, FL, VO, DR, WF
	AlertLevel  string       `json:"alertlevel"` // Green, Orange, Red
	Name        string       `json:"name"`
	Description string       `json:"description"`
	FromDate    string       `json:"fromdate"` // ISO 8601
	URL         disasterURLs `json:"url"`
}

type disasterURLs struct {
	Report string `json:"report"`
}

type disasterGeometry struct {
	Coordinates []float64 `json:"coordinates"` // [longitude, latitude]
}

// NormalizeDisasters maps a GDACS GeoJSON payload to items.
// Events without coordinates are dropped. Severity comes from the GDACS
// alert level via AlertLevelSeverity.
func NormalizeDisasters(raw []byte) ([]Item, error) {
	var fc disasterCollection
	if err := json.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("failed to decode disaster events: %w", err)
	}

	items := make([]Item, 0, len(fc.Features))
	for _, f := range fc.Features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		lng := f.Geometry.Coordinates[0]
		lat := f.Geometry.Coordinates[1]

		title := f.Properties.Name
		if title == "" {
			title = f.Properties.Description
		}
		if title == "" {
			title = f.Properties.EventType + " event"
		}

		var published time.Time
		if t, err := time.Parse(time.RFC3339, f.Properties.FromDate); err == nil {
			published = t
		}

		id := f.Properties.EventID.String()
		if id == "" {
			id = hashString(fmt.Sprintf("gdacs|%s|%s|%.4f|%.4f",
				f.Properties.EventType, f.Properties.FromDate, lat, lng))
		}

		items = append(items, Item{
			ID:        "gdacs-" + id,
			Source:    "gdacs",
			Title:     title,
			Summary:   f.Properties.Description,
			URL:       f.Properties.URL.Report,
			Lat:       lat,
			Lng:       lng,
			HasCoords: true,
			Severity:  AlertLevelSeverity(f.Properties.AlertLevel),
			Published: published,
		})
	}

	return items, nil
}
