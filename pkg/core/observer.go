package core

import (
	"github.com/google/uuid"

	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

// Observer represents an entity that observes an editing session
type Observer interface {
	// OnAction is called when a modal action or a toggle is applied
	OnAction(session *Session, event *Event)

	// OnCommit is called after the working plan is written to the overlay
	OnCommit(session *Session, plan *signal.ControlTrafficSignal, revision uuid.UUID)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	OnSessionStarted(session *Session)
	OnSessionEnded(session *Session)
	OnCycleSelected(session *Session, index int)
	OnTurnToggled(session *Session, turn mapmodel.TurnID, from, to signal.TurnPriority)
	OnWizardOpened(session *Session, wizard WizardKind)
	OnWizardClosed(session *Session, wizard WizardKind, outcome WizardOutcome)
	OnError(session *Session, err error)
}

// BaseObserver provides no-op implementations of every observer method
type BaseObserver struct{}

func (o *BaseObserver) OnAction(session *Session, event *Event) {}

func (o *BaseObserver) OnCommit(session *Session, plan *signal.ControlTrafficSignal, revision uuid.UUID) {
}

func (o *BaseObserver) OnSessionStarted(session *Session) {}

func (o *BaseObserver) OnSessionEnded(session *Session) {}

func (o *BaseObserver) OnCycleSelected(session *Session, index int) {}

func (o *BaseObserver) OnTurnToggled(session *Session, turn mapmodel.TurnID, from, to signal.TurnPriority) {
}

func (o *BaseObserver) OnWizardOpened(session *Session, wizard WizardKind) {}

func (o *BaseObserver) OnWizardClosed(session *Session, wizard WizardKind, outcome WizardOutcome) {}

func (o *BaseObserver) OnError(session *Session, err error) {}
