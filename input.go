package signaledit

import (
	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
)

// SelectionKind is the kind of map entity under the cursor
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectTurn
	SelectIntersection
	SelectLane
)

// Selection is the current map selection. Only the turn case is acted on.
type Selection struct {
	Kind         SelectionKind
	Turn         mapmodel.TurnID
	Intersection mapmodel.IntersectionID
	Lane         mapmodel.LaneID
}

// NoSelection is the empty selection
func NoSelection() Selection {
	return Selection{Kind: SelectNone}
}

// TurnSelection selects a turn
func TurnSelection(id mapmodel.TurnID) Selection {
	return Selection{Kind: SelectTurn, Turn: id}
}

// IntersectionSelection selects an intersection
func IntersectionSelection(id mapmodel.IntersectionID) Selection {
	return Selection{Kind: SelectIntersection, Intersection: id}
}

// LaneSelection selects a lane
func LaneSelection(id mapmodel.LaneID) Selection {
	return Selection{Kind: SelectLane, Lane: id}
}

// WizardInput is what the operator did to an open wizard this tick
type WizardInput struct {
	Submitted bool
	Aborted   bool
	Value     string
}

// Input is one tick of operator input
type Input interface {
	// Selection returns the entity under the cursor
	Selection() Selection
	// Invoked reports whether an action was triggered this tick
	Invoked(action core.Action) bool
	// Wizard returns the answer to an open wizard, if any
	Wizard() WizardInput
}

// TickInput is a plain Input value
type TickInput struct {
	Selected Selection
	Actions  []core.Action
	Answer   WizardInput
}

func (in TickInput) Selection() Selection {
	return in.Selected
}

func (in TickInput) Invoked(action core.Action) bool {
	for _, a := range in.Actions {
		if a == action {
			return true
		}
	}
	return false
}

func (in TickInput) Wizard() WizardInput {
	return in.Answer
}

// Select returns a copy of the input with a turn under the cursor
func (in TickInput) Select(id mapmodel.TurnID) TickInput {
	in.Selected = TurnSelection(id)
	return in
}

// Invoke returns a copy of the input with actions triggered
func (in TickInput) Invoke(actions ...core.Action) TickInput {
	in.Actions = append(append([]core.Action(nil), in.Actions...), actions...)
	return in
}

// Submit returns a copy of the input that answers the open wizard with value
func (in TickInput) Submit(value string) TickInput {
	in.Answer = WizardInput{Submitted: true, Value: value}
	return in
}

// Abort returns a copy of the input that cancels the open wizard
func (in TickInput) Abort() TickInput {
	in.Answer = WizardInput{Aborted: true}
	return in
}
