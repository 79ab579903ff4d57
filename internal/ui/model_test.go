package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/calderasec/vigil/internal/controller"
	"github.com/calderasec/vigil/internal/feed"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testSnapshot(name string, status controller.Status) controller.Snapshot {
	items := []feed.Item{
		{ID: "a", Title: "Mumbai port fire", Severity: feed.SeverityHigh, Published: time.Now()},
		{ID: "b", Title: "Delhi flood alert", Severity: feed.SeverityLow, Published: time.Now()},
	}
	return controller.Snapshot{
		Name:         name,
		Status:       status,
		Items:        items,
		VisibleItems: items,
		UpdatedAt:    time.Now(),
	}
}

func TestSnapshotMsgUpdatesView(t *testing.T) {
	m := NewModel([]string{"Seismic", "News Wire"}, Hooks{})

	updated, _ := m.Update(SnapshotMsg{Snapshot: testSnapshot("Seismic", controller.StatusLive)})
	view := updated.View()

	if !strings.Contains(view, "LIVE") {
		t.Errorf("expected LIVE status in view:\n%s", view)
	}
	if !strings.Contains(view, "Mumbai port fire") {
		t.Errorf("expected item title in view:\n%s", view)
	}
}

func TestDegradedShowsStaleData(t *testing.T) {
	m := NewModel([]string{"Seismic"}, Hooks{})

	updated, _ := m.Update(SnapshotMsg{Snapshot: testSnapshot("Seismic", controller.StatusDegraded)})
	view := updated.View()

	if !strings.Contains(view, "DEGRADED") {
		t.Errorf("expected DEGRADED indicator:\n%s", view)
	}
	// Stale items stay on screen rather than blanking the view.
	if !strings.Contains(view, "Mumbai port fire") {
		t.Errorf("expected stale items to remain visible:\n%s", view)
	}
}

func TestTabSwitchesSource(t *testing.T) {
	m := NewModel([]string{"Seismic", "News Wire"}, Hooks{})

	updated, _ := m.Update(keyMsg("tab"))
	model := updated.(Model)
	if model.current() != "News Wire" {
		t.Errorf("expected News Wire active, got %q", model.current())
	}

	updated, _ = model.Update(keyMsg("tab"))
	model = updated.(Model)
	if model.current() != "Seismic" {
		t.Errorf("expected wraparound to Seismic, got %q", model.current())
	}
}

func TestWatchlistHooksFire(t *testing.T) {
	var applied, saved string
	var toggled bool

	hooks := Hooks{
		SetWatchlist:  func(source, raw string) { applied = source + "=" + raw },
		SetShowOnly:   func(source string, on bool) { toggled = on },
		SaveWatchlist: func(source string) { saved = source },
	}
	m := NewModel([]string{"Seismic"}, hooks)

	// Enter edit mode, type, apply on enter.
	updated, _ := m.Update(keyMsg("/"))
	model := updated.(Model)
	if !model.editing {
		t.Fatal("expected edit mode after /")
	}
	model.input.SetValue("mumbai")
	updated, _ = model.Update(keyMsg("enter"))
	model = updated.(Model)
	if applied != "Seismic=mumbai" {
		t.Errorf("expected SetWatchlist hook, got %q", applied)
	}
	if model.editing {
		t.Error("expected edit mode to end on enter")
	}

	// Toggle show-only and save are separate actions.
	updated, _ = model.Update(keyMsg("o"))
	model = updated.(Model)
	if !toggled {
		t.Error("expected SetShowOnly hook")
	}

	model.Update(keyMsg("ctrl+s"))
	if saved != "Seismic" {
		t.Errorf("expected SaveWatchlist hook, got %q", saved)
	}
}
