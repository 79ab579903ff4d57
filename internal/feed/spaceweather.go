package feed

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NOAA SWPC alerts payload: a flat array of issued products.
type swpcAlert struct {
	ProductID     string `json:"product_id"`
	IssueDatetime string `json:"issue_datetime"` // "2006-01-02 15:04:05.000"
	Message       string `json:"message"`
}

const swpcTimeLayout = "2006-01-02 15:04:05.000"

// noaaScaleRe extracts the level from lines like "NOAA Scale: G3 - Strong".
var noaaScaleRe = regexp.MustCompile(`NOAA Scale:\s*[RSG]([1-5])`)

// NormalizeSpaceWeather maps a NOAA SWPC alerts payload to items.
// Alerts with an empty message are dropped (nothing to show in a list).
// Severity comes from the embedded NOAA scale level; messages without one
// fall into the low bucket.
func NormalizeSpaceWeather(raw []byte) ([]Item, error) {
	var alerts []swpcAlert
	if err := json.Unmarshal(raw, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode space weather alerts: %w", err)
	}

	items := make([]Item, 0, len(alerts))
	for _, a := range alerts {
		title := firstLine(a.Message)
		if title == "" {
			continue
		}

		level := 0
		if m := noaaScaleRe.FindStringSubmatch(a.Message); m != nil {
			level, _ = strconv.Atoi(m[1])
		}

		var published time.Time
		if t, err := time.Parse(swpcTimeLayout, a.IssueDatetime); err == nil {
			published = t.UTC()
		}

		items = append(items, Item{
			ID:        "swpc-" + hashString(a.ProductID+"|"+a.IssueDatetime),
			Source:    "swpc",
			Title:     title,
			Summary:   a.Message,
			Severity:  ScaleSeverity(level),
			Published: published,
		})
	}

	return items, nil
}

// firstLine returns the first non-empty line of s, trimmed.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
