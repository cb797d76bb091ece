// Package core provides the central types shared by the signal editor and its
// observers: actions, sessions, and editor notifications.
package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/anggasct/signaledit/pkg/mapmodel"
)

// Action is a named discrete input the editor can be asked to perform
type Action string

const (
	ActionQuit           Action = "quit"
	ActionPreviousCycle  Action = "select previous cycle"
	ActionNextCycle      Action = "select next cycle"
	ActionChangeDuration Action = "change cycle duration"
	ActionChoosePreset   Action = "choose a preset signal"
	ActionMoveCycleUp    Action = "move current cycle up"
	ActionMoveCycleDown  Action = "move current cycle down"
	ActionDeleteCycle    Action = "delete current cycle"
	ActionAddCycle       Action = "add a new empty cycle"
	ActionAddScramble    Action = "add a new pedestrian scramble cycle"

	// ActionToggle is the contextual action offered while a turn is selected
	ActionToggle Action = "toggle"
)

var actionKeys = map[Action]string{
	ActionQuit:           "escape",
	ActionPreviousCycle:  "up",
	ActionNextCycle:      "down",
	ActionChangeDuration: "d",
	ActionChoosePreset:   "p",
	ActionMoveCycleUp:    "k",
	ActionMoveCycleDown:  "j",
	ActionDeleteCycle:    "backspace",
	ActionAddCycle:       "n",
	ActionAddScramble:    "m",
	ActionToggle:         "space",
}

// Key returns the default key binding of an action
func (a Action) Key() string {
	return actionKeys[a]
}

// Actions lists every action, modal actions first in dispatch order
func Actions() []Action {
	return []Action{
		ActionQuit,
		ActionPreviousCycle,
		ActionNextCycle,
		ActionChangeDuration,
		ActionChoosePreset,
		ActionMoveCycleUp,
		ActionMoveCycleDown,
		ActionDeleteCycle,
		ActionAddCycle,
		ActionAddScramble,
		ActionToggle,
	}
}

// ParseAction resolves an action name or key binding
func ParseAction(s string) (Action, bool) {
	for _, a := range Actions() {
		if string(a) == s || a.Key() == s {
			return a, true
		}
	}
	return "", false
}

// WizardKind names a nested input flow
type WizardKind string

const (
	WizardNone     WizardKind = "none"
	WizardDuration WizardKind = "duration"
	WizardPreset   WizardKind = "preset"
)

// WizardOutcome describes how a wizard closed
type WizardOutcome string

const (
	WizardConfirmed WizardOutcome = "confirmed"
	WizardAborted   WizardOutcome = "aborted"
)

// Session identifies one editing session of one intersection
type Session struct {
	ID           uuid.UUID
	Intersection mapmodel.IntersectionID
	StartedAt    time.Time
}

// NewSession creates a session with a fresh id
func NewSession(id mapmodel.IntersectionID) *Session {
	return &Session{
		ID:           uuid.New(),
		Intersection: id,
		StartedAt:    time.Now(),
	}
}

// Event describes an action the editor applied during a tick
type Event struct {
	ID        string
	Action    Action
	Tick      int
	Timestamp time.Time
	Metadata  map[string]interface{}
}

// NewEvent creates an event for an applied action
func NewEvent(action Action, tick int) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Action:    action,
		Tick:      tick,
		Timestamp: time.Now(),
		Metadata:  make(map[string]interface{}),
	}
}

// WithMetadata adds metadata to the event and returns the event
func (e *Event) WithMetadata(key string, value interface{}) *Event {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// GetMetadata retrieves metadata from the event
func (e *Event) GetMetadata(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}
