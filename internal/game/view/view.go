// Package view is the read surface handed to the presentation layer: the
// current snapshot plus the action list and outcome records derived from
// it. It holds no logic of its own beyond recomputation wiring.
package view

import (
	"sync"

	"github.com/petrellis/caucus/internal/game/action"
	"github.com/petrellis/caucus/internal/game/narration"
	"github.com/petrellis/caucus/internal/game/snapshot"
)

// View caches derivations for one acting player. Refresh is wired as a
// sync driver replace callback, so derivations always reflect the exact
// snapshot that was installed.
type View struct {
	store   *snapshot.Store
	actorID string

	mu       sync.RWMutex
	actions  []action.Descriptor
	outcomes []narration.OutcomeRecord
}

// New creates a view for actorID reading from store.
func New(store *snapshot.Store, actorID string) *View {
	return &View{store: store, actorID: actorID}
}

// Refresh recomputes the derived action list and outcome records from the
// installed snapshot.
func (v *View) Refresh(snap snapshot.Snapshot) {
	actions := action.Derive(snap, v.actorID)
	outcomes := narration.Reconstruct(snap.Log)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.actions = actions
	v.outcomes = outcomes
}

// Snapshot returns the current authoritative snapshot.
func (v *View) Snapshot() snapshot.Snapshot {
	return v.store.Current()
}

// Actions returns the legal actions derived from the last refresh.
func (v *View) Actions() []action.Descriptor {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.actions
}

// Outcomes returns the contest records reconstructed at the last refresh.
func (v *View) Outcomes() []narration.OutcomeRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.outcomes
}
