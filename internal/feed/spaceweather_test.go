package feed

import "testing"

func TestScaleSeverityBoundaries(t *testing.T) {
	tests := []struct {
		level int
		want  Severity
	}{
		{5, SeverityCritical},
		{4, SeverityCritical},
		{3, SeverityHigh},
		{2, SeverityMedium},
		{1, SeverityLow},
		{0, SeverityLow},
	}

	for _, tt := range tests {
		if got := ScaleSeverity(tt.level); got != tt.want {
			t.Errorf("ScaleSeverity(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestNormalizeSpaceWeather(t *testing.T) {
	payload := []byte(`[
		{
			"product_id": "ALTK08",
			"issue_datetime": "2026-08-26 09:15:00.000",
			"message": "ALERT: Geomagnetic K-index of 8\nNOAA Scale: G4 - Severe"
		},
		{
			"product_id": "WARK04",
			"issue_datetime": "2026-08-26 08:00:00.000",
			"message": "WARNING: Geomagnetic K-index of 4 expected"
		},
		{
			"product_id": "EMPTY",
			"issue_datetime": "2026-08-26 07:00:00.000",
			"message": ""
		}
	]`)

	items, err := NormalizeSpaceWeather(payload)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected empty-message alert to be dropped, got %d items", len(items))
	}

	if items[0].Severity != SeverityCritical {
		t.Errorf("expected critical for G4, got %v", items[0].Severity)
	}
	if items[0].Title != "ALERT: Geomagnetic K-index of 8" {
		t.Errorf("unexpected title %q", items[0].Title)
	}
	if items[0].Published.IsZero() {
		t.Error("expected issue time to be parsed")
	}

	// No NOAA scale line means the low bucket, not a dropped item.
	if items[1].Severity != SeverityLow {
		t.Errorf("expected low without a scale line, got %v", items[1].Severity)
	}
}

func TestNormalizeSpaceWeatherStableIDs(t *testing.T) {
	payload := []byte(`[{"product_id": "ALTK08", "issue_datetime": "2026-08-26 09:15:00.000", "message": "ALERT"}]`)

	first, _ := NormalizeSpaceWeather(payload)
	second, _ := NormalizeSpaceWeather(payload)
	if len(first) != 1 || len(second) != 1 {
		t.Fatal("expected one item per poll")
	}
	if first[0].ID != second[0].ID {
		t.Errorf("id not stable across polls: %q vs %q", first[0].ID, second[0].ID)
	}
}
