package feed

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
)

// NormalizeNewsWire maps an RSS or Atom payload to items.
// Entries without a title are dropped (nothing to show in a list).
// Wire items carry no severity signal, so they all land in the low bucket.
func NormalizeNewsWire(raw []byte) ([]Item, error) {
	parser := gofeed.NewParser()
	f, err := parser.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(f.Items))
	for _, fi := range f.Items {
		if fi.Title == "" {
			continue
		}

		var published time.Time
		if fi.PublishedParsed != nil {
			published = *fi.PublishedParsed
		} else if fi.UpdatedParsed != nil {
			published = *fi.UpdatedParsed
		}

		items = append(items, Item{
			ID:        "news-" + newsItemID(fi),
			Source:    "newswire",
			Title:     fi.Title,
			Summary:   fi.Description,
			URL:       fi.Link,
			Severity:  SeverityLow,
			Published: published,
		})
	}

	return items, nil
}

// newsItemID creates a deterministic ID for a feed entry.
// Uses the GUID if available, otherwise hashes the link, otherwise
// the title plus published time.
func newsItemID(fi *gofeed.Item) string {
	if fi.GUID != "" {
		return hashString(fi.GUID)
	}
	if fi.Link != "" {
		return hashString(fi.Link)
	}
	key := fi.Title
	if fi.PublishedParsed != nil {
		key += fi.PublishedParsed.String()
	}
	return hashString(key)
}
