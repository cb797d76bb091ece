package signaledit

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

// ObserverManager manages a collection of observers. A panicking observer is
// reported to the extended observers through OnError and never reaches the
// editor.
type ObserverManager struct {
	mutex     sync.RWMutex
	observers []Observer
}

// NewObserverManager creates a new observer manager
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		observers: make([]Observer, 0),
	}
}

// AddObserver adds an observer to the manager
func (om *ObserverManager) AddObserver(observer Observer) {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	om.observers = append(om.observers, observer)
}

// RemoveObserver removes an observer from the manager
func (om *ObserverManager) RemoveObserver(observer Observer) {
	om.mutex.Lock()
	defer om.mutex.Unlock()
	for i, obs := range om.observers {
		if obs == observer {
			om.observers = append(om.observers[:i], om.observers[i+1:]...)
			break
		}
	}
}

func (om *ObserverManager) snapshot() []Observer {
	om.mutex.RLock()
	defer om.mutex.RUnlock()
	observers := make([]Observer, len(om.observers))
	copy(observers, om.observers)
	return observers
}

// each calls fn for every observer, containing panics
func (om *ObserverManager) each(session *core.Session, method string, fn func(Observer)) {
	for _, observer := range om.snapshot() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if extObs, ok := observer.(ExtendedObserver); ok {
						func() {
							defer func() { recover() }()
							extObs.OnError(session, fmt.Errorf("observer panic in %s: %v", method, r))
						}()
					}
				}
			}()
			fn(observer)
		}()
	}
}

// eachExtended is each restricted to extended observers
func (om *ObserverManager) eachExtended(session *core.Session, method string, fn func(ExtendedObserver)) {
	om.each(session, method, func(observer Observer) {
		if extObs, ok := observer.(ExtendedObserver); ok {
			fn(extObs)
		}
	})
}

// NotifyAction notifies all observers of an applied action
func (om *ObserverManager) NotifyAction(session *core.Session, event *core.Event) {
	om.each(session, "OnAction", func(o Observer) { o.OnAction(session, event) })
}

// NotifyCommit notifies all observers of a commit
func (om *ObserverManager) NotifyCommit(session *core.Session, plan *signal.ControlTrafficSignal, revision uuid.UUID) {
	om.each(session, "OnCommit", func(o Observer) { o.OnCommit(session, plan, revision) })
}

// NotifySessionStarted notifies all observers that an editing session began
func (om *ObserverManager) NotifySessionStarted(session *core.Session) {
	om.eachExtended(session, "OnSessionStarted", func(o ExtendedObserver) { o.OnSessionStarted(session) })
}

// NotifySessionEnded notifies all observers that an editing session ended
func (om *ObserverManager) NotifySessionEnded(session *core.Session) {
	om.eachExtended(session, "OnSessionEnded", func(o ExtendedObserver) { o.OnSessionEnded(session) })
}

// NotifyCycleSelected notifies all observers of a new active cycle
func (om *ObserverManager) NotifyCycleSelected(session *core.Session, index int) {
	om.eachExtended(session, "OnCycleSelected", func(o ExtendedObserver) { o.OnCycleSelected(session, index) })
}

// NotifyTurnToggled notifies all observers of a priority change
func (om *ObserverManager) NotifyTurnToggled(session *core.Session, turn mapmodel.TurnID, from, to signal.TurnPriority) {
	om.eachExtended(session, "OnTurnToggled", func(o ExtendedObserver) { o.OnTurnToggled(session, turn, from, to) })
}

// NotifyWizardOpened notifies all observers that a wizard opened
func (om *ObserverManager) NotifyWizardOpened(session *core.Session, wizard core.WizardKind) {
	om.eachExtended(session, "OnWizardOpened", func(o ExtendedObserver) { o.OnWizardOpened(session, wizard) })
}

// NotifyWizardClosed notifies all observers that a wizard closed
func (om *ObserverManager) NotifyWizardClosed(session *core.Session, wizard core.WizardKind, outcome core.WizardOutcome) {
	om.eachExtended(session, "OnWizardClosed", func(o ExtendedObserver) { o.OnWizardClosed(session, wizard, outcome) })
}

// NotifyError notifies all observers of a recoverable error
func (om *ObserverManager) NotifyError(session *core.Session, err error) {
	for _, observer := range om.snapshot() {
		if extObs, ok := observer.(ExtendedObserver); ok {
			func() {
				defer func() { recover() }()
				extObs.OnError(session, err)
			}()
		}
	}
}
