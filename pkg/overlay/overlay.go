package overlay

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

// BaseSignals supplies the unedited signal plan of an intersection
type BaseSignals interface {
	TrafficSignal(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, bool)
}

// AppliedEvent is sent to observers each time an intersection's plan is
// re-applied
type AppliedEvent struct {
	Revision     uuid.UUID
	Intersection mapmodel.IntersectionID
	EditsName    string
	Plan         *signal.ControlTrafficSignal
	Timestamp    time.Time
}

// Observer is notified after the overlay is re-applied. Simulation and
// rendering subsystems implement it.
type Observer interface {
	OnApplied(event AppliedEvent)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(event AppliedEvent)

// OnApplied calls f
func (f ObserverFunc) OnApplied(event AppliedEvent) {
	f(event)
}

// Overlay is the shared, observed store of in-progress map edits
type Overlay struct {
	mutex     sync.RWMutex
	base      BaseSignals
	edits     *MapEdits
	revision  uuid.UUID
	observers []Observer
	logger    *slog.Logger
}

// Option configures an Overlay
type Option func(*Overlay)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(o *Overlay) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver registers an observer at construction
func WithObserver(observer Observer) Option {
	return func(o *Overlay) {
		o.observers = append(o.observers, observer)
	}
}

// New creates an overlay over base signals. A nil edits starts an empty,
// unnamed edit set.
func New(base BaseSignals, edits *MapEdits, opts ...Option) *Overlay {
	if edits == nil {
		edits = NewMapEdits("")
	}
	edits.ensureMaps()
	o := &Overlay{
		base:   base,
		edits:  edits,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TrafficSignal returns a copy of the effective plan: the override when one
// exists, the base plan otherwise
func (o *Overlay) TrafficSignal(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, bool) {
	o.mutex.RLock()
	plan, ok := o.edits.TrafficSignalOverrides[id]
	o.mutex.RUnlock()
	if ok {
		return plan.Clone(), true
	}
	if o.base == nil {
		return nil, false
	}
	plan, ok = o.base.TrafficSignal(id)
	if !ok {
		return nil, false
	}
	return plan.Clone(), true
}

// Commit stores a copy of plan as the override for its intersection and
// re-applies the overlay. Committing the same plan twice leaves the same edits.
func (o *Overlay) Commit(plan *signal.ControlTrafficSignal) uuid.UUID {
	o.mutex.Lock()
	o.edits.TrafficSignalOverrides[plan.ID] = plan.Clone()
	o.mutex.Unlock()
	return o.Apply(plan.ID)
}

// Apply notifies observers of the current plan of one intersection under a
// fresh revision
func (o *Overlay) Apply(id mapmodel.IntersectionID) uuid.UUID {
	o.mutex.Lock()
	o.revision = uuid.New()
	revision := o.revision
	editsName := o.edits.EditsName
	observers := slices.Clone(o.observers)
	o.mutex.Unlock()

	plan, ok := o.TrafficSignal(id)
	if !ok {
		return revision
	}
	event := AppliedEvent{
		Revision:     revision,
		Intersection: id,
		EditsName:    editsName,
		Plan:         plan,
		Timestamp:    time.Now(),
	}
	o.logger.Debug("Overlay applied",
		"revision", revision,
		"intersection", int(id),
		"cycles", plan.Len())
	for _, observer := range observers {
		o.notify(observer, event)
	}
	return revision
}

func (o *Overlay) notify(observer Observer, event AppliedEvent) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Overlay observer panicked",
				"intersection", int(event.Intersection),
				"panic", r)
		}
	}()
	observer.OnApplied(event)
}

// ReplaceEdits swaps in a whole edit set and re-applies every intersection
// that either edit set overrides
func (o *Overlay) ReplaceEdits(edits *MapEdits) {
	edits = edits.Clone()
	o.mutex.Lock()
	touched := make(map[mapmodel.IntersectionID]struct{})
	for id := range o.edits.TrafficSignalOverrides {
		touched[id] = struct{}{}
	}
	for id := range edits.TrafficSignalOverrides {
		touched[id] = struct{}{}
	}
	o.edits = edits
	o.mutex.Unlock()

	ids := make([]mapmodel.IntersectionID, 0, len(touched))
	for id := range touched {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		o.Apply(id)
	}
}

// Edits returns a copy of the current edit set
func (o *Overlay) Edits() *MapEdits {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.edits.Clone()
}

// Revision returns the id of the last re-application
func (o *Overlay) Revision() uuid.UUID {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.revision
}

// AddObserver registers an observer
func (o *Overlay) AddObserver(observer Observer) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.observers = append(o.observers, observer)
}

// RemoveObserver unregisters an observer
func (o *Overlay) RemoveObserver(observer Observer) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	for i, obs := range o.observers {
		if obs == observer {
			o.observers = append(o.observers[:i], o.observers[i+1:]...)
			return
		}
	}
}
