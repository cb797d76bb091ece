package signaledit

import (
	"github.com/google/uuid"

	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

// Store is the shared map-edit overlay the editor writes to
type Store interface {
	// TrafficSignal returns a copy of the effective plan of an intersection
	TrafficSignal(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, bool)
	// Commit stores a copy of the plan and re-applies it to observers
	Commit(plan *signal.ControlTrafficSignal) uuid.UUID
}

// commit writes the working plan to the overlay. It runs at the end of every
// tick, whether or not anything changed.
func (e *Editor) commit() uuid.UUID {
	revision := e.deps.Store.Commit(e.plan)
	e.observers.NotifyCommit(e.session, e.plan.Clone(), revision)
	return revision
}
