package feed

import "testing"

const rssPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Wire</title>
	<item>
		<title>Mumbai port fire contained</title>
		<link>https://news.example/mumbai-port</link>
		<guid>wire-001</guid>
		<description>Fire at the container terminal brought under control.</description>
		<pubDate>Tue, 26 Aug 2026 09:00:00 GMT</pubDate>
	</item>
	<item>
		<title></title>
		<link>https://news.example/untitled</link>
	</item>
</channel>
</rss>`

func TestNormalizeNewsWire(t *testing.T) {
	items, err := NormalizeNewsWire([]byte(rssPayload))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected untitled entry to be dropped, got %d items", len(items))
	}

	it := items[0]
	if it.Title != "Mumbai port fire contained" {
		t.Errorf("unexpected title %q", it.Title)
	}
	if it.Severity != SeverityLow {
		t.Errorf("wire items carry no severity signal, expected low, got %v", it.Severity)
	}
	if it.HasCoords {
		t.Error("wire items have no coordinates")
	}
	if it.Published.IsZero() {
		t.Error("expected pubDate to be parsed")
	}
}

func TestNormalizeNewsWireStableIDs(t *testing.T) {
	first, err := NormalizeNewsWire([]byte(rssPayload))
	if err != nil {
		t.Fatal(err)
	}
	second, err := NormalizeNewsWire([]byte(rssPayload))
	if err != nil {
		t.Fatal(err)
	}
	if first[0].ID != second[0].ID {
		t.Errorf("id not stable across polls: %q vs %q", first[0].ID, second[0].ID)
	}
}

func TestNormalizeNewsWireBadPayload(t *testing.T) {
	if _, err := NormalizeNewsWire([]byte("{definitely not xml}")); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestForKind(t *testing.T) {
	for _, kind := range []string{"quake", "airquality", "spaceweather", "disaster", "newswire"} {
		if n, ok := ForKind(kind); !ok || n == nil {
			t.Errorf("no normalizer registered for %q", kind)
		}
	}
	if _, ok := ForKind("bogus"); ok {
		t.Error("expected no normalizer for unknown kind")
	}
}
