package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/calderasec/vigil/internal/controller"
)

// Hooks are the controller mutators the UI drives. Injected so the model
// stays headless-testable.
type Hooks struct {
	SetWatchlist  func(source, raw string)
	SetShowOnly   func(source string, on bool)
	SaveWatchlist func(source string)
}

// Model is the top-level Bubble Tea model: one tab per source, each showing
// that controller's visible items.
type Model struct {
	order     []string // stable tab order
	snapshots map[string]controller.Snapshot
	active    int
	hooks     Hooks

	input   textinput.Model
	editing bool
	spin    spinner.Model

	width  int
	height int
}

// NewModel creates the console model for the given source names.
func NewModel(sources []string, hooks Hooks) Model {
	ti := textinput.New()
	ti.Placeholder = "mumbai, pipeline, substation"
	ti.Prompt = "watchlist> "
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		order:     sources,
		snapshots: make(map[string]controller.Snapshot),
		hooks:     hooks,
		input:     ti,
		spin:      sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// current returns the active source name.
func (m Model) current() string {
	if len(m.order) == 0 {
		return ""
	}
	return m.order[m.active]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SnapshotMsg:
		m.snapshots[msg.Snapshot.Name] = msg.Snapshot
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}

	return m, nil
}

// updateEditing handles keys while the watchlist input has focus.
// Enter applies the input reactively; saving stays explicit (ctrl+s).
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		m.input.Blur()
		if m.hooks.SetWatchlist != nil {
			m.hooks.SetWatchlist(m.current(), m.input.Value())
		}
		return m, nil
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab":
		if len(m.order) > 0 {
			m.active = (m.active + 1) % len(m.order)
		}
		return m, nil

	case "shift+tab":
		if len(m.order) > 0 {
			m.active = (m.active - 1 + len(m.order)) % len(m.order)
		}
		return m, nil

	case "/":
		m.editing = true
		m.input.SetValue(m.snapshots[m.current()].Watchlist)
		m.input.Focus()
		return m, textinput.Blink

	case "o":
		snap := m.snapshots[m.current()]
		if m.hooks.SetShowOnly != nil {
			m.hooks.SetShowOnly(m.current(), !snap.ShowOnlyWatchlist)
		}
		return m, nil

	case "ctrl+s":
		if m.hooks.SaveWatchlist != nil {
			m.hooks.SaveWatchlist(m.current())
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	// Tabs
	var tabs []string
	for i, name := range m.order {
		if i == m.active {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, tabStyle.Render(name))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	snap := m.snapshots[m.current()]
	b.WriteString(m.statusLine(snap))
	b.WriteString("\n\n")

	// Items: pinned markers on watch-term matches
	pinned := make(map[string]bool, len(snap.PinnedItems))
	for _, it := range snap.PinnedItems {
		pinned[it.ID] = true
	}

	limit := m.height - 10
	if limit < 5 {
		limit = 5
	}
	for i, it := range snap.VisibleItems {
		if i >= limit {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", len(snap.VisibleItems)-i)))
			b.WriteString("\n")
			break
		}

		marker := "  "
		title := titleStyle.Render(it.Title)
		if pinned[it.ID] {
			marker = pinnedStyle.Render("★ ")
			title = pinnedStyle.Render(it.Title)
		}
		line := fmt.Sprintf("%s%s %s", marker, severityBadge(it.Severity), title)
		if !it.Published.IsZero() {
			line += dimStyle.Render("  " + it.Published.Format("15:04"))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.input.View())
	} else {
		watch := snap.Watchlist
		if watch == "" {
			watch = "(none)"
		}
		only := ""
		if snap.ShowOnlyWatchlist {
			only = " [watchlist only]"
		}
		b.WriteString(footerStyle.Render(
			"watchlist: " + watch + only + "  •  / edit  enter apply  ctrl+s save  o only  tab source  q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

// statusLine distinguishes first load, fresh data, and stale data.
func (m Model) statusLine(snap controller.Snapshot) string {
	switch snap.Status {
	case controller.StatusLive:
		return liveStyle.Render("● LIVE") + dimStyle.Render("  updated "+snap.UpdatedAt.Format("15:04:05"))
	case controller.StatusDegraded:
		s := degradedStyle.Render("● DEGRADED")
		if !snap.UpdatedAt.IsZero() {
			s += dimStyle.Render("  showing data from " + snap.UpdatedAt.Format("15:04:05"))
		}
		return s
	case controller.StatusLoading:
		if len(snap.Items) == 0 {
			return m.spin.View() + dimStyle.Render(" loading…")
		}
		// Refreshing with data on screen reads as live to the user.
		return liveStyle.Render("● LIVE") + dimStyle.Render("  refreshing…")
	}
	return dimStyle.Render("● waiting")
}
