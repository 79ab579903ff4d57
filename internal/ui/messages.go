// Package ui provides the Bubble Tea console for Vigil.
package ui

import "github.com/calderasec/vigil/internal/controller"

// SnapshotMsg carries a fresh controller snapshot into the UI.
// Controllers publish these via program.Send from their own goroutines.
type SnapshotMsg struct {
	Snapshot controller.Snapshot
}
