package feed

import "testing"

func TestAlertLevelSeverity(t *testing.T) {
	tests := []struct {
		level string
		want  Severity
	}{
		{"Red", SeverityCritical},
		{"Orange", SeverityHigh},
		{"Green", SeverityMedium},
		{"", SeverityLow},
		{"Purple", SeverityLow}, // unknown levels fall to low, not dropped
	}

	for _, tt := range tests {
		if got := AlertLevelSeverity(tt.level); got != tt.want {
			t.Errorf("AlertLevelSeverity(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNormalizeDisasters(t *testing.T) {
	payload := []byte(`{
		"features": [
			{
				"properties": {
					"eventid": 101, "eventtype": "TC", "alertlevel": "Red",
					"name": "Cyclone Test", "description": "Tropical cyclone",
					"fromdate": "2026-08-25T00:00:00Z",
					"url": {"report": "https://gdacs.example/101"}
				},
				"geometry": {"coordinates": [72.8, 19.0]}
			},
			{
				"properties": {"eventid": 102, "eventtype": "FL", "alertlevel": "Green", "name": "No geometry"},
				"geometry": {"coordinates": []}
			}
		]
	}`)

	items, err := NormalizeDisasters(payload)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected event without coordinates to be dropped, got %d items", len(items))
	}

	it := items[0]
	if it.ID != "gdacs-101" {
		t.Errorf("expected id gdacs-101, got %q", it.ID)
	}
	if it.Severity != SeverityCritical {
		t.Errorf("expected critical for Red alert, got %v", it.Severity)
	}
	if it.Lat != 19.0 || it.Lng != 72.8 {
		t.Errorf("expected coords (19,72.8), got (%v,%v)", it.Lat, it.Lng)
	}
	if it.URL != "https://gdacs.example/101" {
		t.Errorf("unexpected url %q", it.URL)
	}
}
