package feed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// WAQI map-bounds response shape.
type aqiResponse struct {
	Status string       `json:"status"`
	Data   []aqiStation `json:"data"`
}

type aqiStation struct {
	UID     int        `json:"uid"`
	Lat     *float64   `json:"lat"`
	Lon     *float64   `json:"lon"`
	AQI     string     `json:"aqi"` // numeric string, or "-" when the station is down
	Station aqiDetails `json:"station"`
}

type aqiDetails struct {
	Name string `json:"name"`
	Time string `json:"time"` // ISO 8601
}

// NormalizeAirQuality maps a WAQI station payload to items.
// Stations without coordinates are dropped. An unreadable AQI value defaults
// to 0 (low severity) rather than dropping the station.
func NormalizeAirQuality(raw []byte) ([]Item, error) {
	var resp aqiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode air quality: %w", err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, fmt.Errorf("air quality feed status %q", resp.Status)
	}

	items := make([]Item, 0, len(resp.Data))
	for _, st := range resp.Data {
		if st.Lat == nil || st.Lon == nil {
			continue
		}

		aqi, err := strconv.Atoi(st.AQI)
		if err != nil {
			aqi = 0
		}

		name := st.Station.Name
		if name == "" {
			name = fmt.Sprintf("Station %d", st.UID)
		}

		var published time.Time
		if t, err := time.Parse(time.RFC3339, st.Station.Time); err == nil {
			published = t
		}

		id := strconv.Itoa(st.UID)
		if st.UID == 0 {
			id = hashString(fmt.Sprintf("aqi|%s|%.4f|%.4f", name, *st.Lat, *st.Lon))
		}

		items = append(items, Item{
			ID:        "waqi-" + id,
			Source:    "waqi",
			Title:     name,
			Summary:   fmt.Sprintf("AQI %d at %s", aqi, name),
			Lat:       *st.Lat,
			Lng:       *st.Lon,
			HasCoords: true,
			Severity:  AQISeverity(aqi),
			Published: published,
		})
	}

	return items, nil
}
