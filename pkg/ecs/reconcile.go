package ecs

import (
	"github.com/argus-labs/reactor/pkg/assert"
)

// Stats counts the work done by a world since it was created.
type Stats struct {
	Updates         uint64 // World.Update calls
	Reconciles      uint64 // Reconciliations that had work to do
	Passes          uint64 // Drain passes across all reconciliations
	Notifications   uint64 // Entity x index membership checks
	IndexRebuilds   uint64 // Full scans for new indices
	CachePopulates  uint64 // Data caches filled from their index
	EntitiesErased  uint64 // Removed entities dropped from the world
	EntitiesChanged uint64 // Entities taken off the changed queue
}

// Stats returns the world's counters.
func (w *World) Stats() Stats { return w.stats }

// Reconcile applies all queued structural changes. It repeats until every queue is empty, so
// changes made by Added and Removed handlers are applied in the same call. Each pass:
//
//  1. re-evaluates changed entities against every index, in the order they were queued
//  2. erases removed entities
//  3. fills newly created data caches from their index
//  4. fills newly created indices from every entity in the world
//
// Membership is only evaluated here. An attach and a detach of the same component with no
// reconciliation in between cancel out and emit neither Added nor Removed. When they are
// separated by a reconciliation, such as in two system groups of one Update, the index emits
// exactly one Added followed by exactly one Removed.
func (w *World) Reconcile() {
	if !w.pending() {
		return
	}
	if !assert.That(!w.reconciling, "reconcile re-entered from an index or cache handler") {
		return
	}
	w.reconciling = true
	defer func() { w.reconciling = false }()

	passes := 0
	for w.pending() {
		w.processChanged()
		w.processRemoved()
		w.populateCaches()
		w.rebuildIndices()
		passes++
	}

	w.stats.Reconciles++
	w.stats.Passes += uint64(passes)
	w.logger.Trace().Int("passes", passes).Int("entities", len(w.entities)).Msg("reconciled")
}

// CleanupRemovedEntities drops removed entities from every index and erases them from the world
// without running a full reconciliation.
func (w *World) CleanupRemovedEntities() {
	if !assert.That(!w.reconciling, "cleanup called from an index or cache handler") {
		return
	}
	w.reconciling = true
	defer func() { w.reconciling = false }()

	for len(w.changed) > 0 || len(w.removed) > 0 {
		w.processChanged()
		w.processRemoved()
	}
}

func (w *World) pending() bool {
	return len(w.changed) > 0 || len(w.removed) > 0 || len(w.pendingCaches) > 0 || len(w.pendingIndices) > 0
}

func (w *World) processChanged() {
	for len(w.changed) > 0 {
		batch := w.changed
		w.changed = w.changedSpare[:0]

		// Unqueue first so handlers that touch an entity of this batch queue it again.
		for _, e := range batch {
			e.queued = false
		}
		for _, e := range batch {
			w.stats.EntitiesChanged++
			if e.world != w {
				continue
			}
			for _, idx := range w.indexOrder {
				idx.notifyEntityChanged(e)
				w.stats.Notifications++
			}
		}

		clear(batch)
		w.changedSpare = batch[:0]
	}
}

func (w *World) processRemoved() {
	for len(w.removed) > 0 {
		batch := w.removed
		w.removed = nil
		for _, e := range batch {
			for _, idx := range w.indexOrder {
				assert.Invariant(!idx.Contains(e), "erasing entity %s still in index %s", e.id, idx.name)
			}
			w.erase(e)
		}
	}
}

func (w *World) populateCaches() {
	for len(w.pendingCaches) > 0 {
		batch := w.pendingCaches
		w.pendingCaches = nil
		for _, c := range batch {
			c.populate()
			w.stats.CachePopulates++
		}
	}
}

func (w *World) rebuildIndices() {
	for len(w.pendingIndices) > 0 {
		batch := w.pendingIndices
		w.pendingIndices = nil
		for _, idx := range batch {
			for _, e := range w.slots {
				if e != nil {
					idx.notifyEntityChanged(e)
				}
			}
			w.stats.IndexRebuilds++
		}
	}
}
