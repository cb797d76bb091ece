package signaledit

import (
	"github.com/google/uuid"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
)

// Prompt is what an open wizard shows
type Prompt struct {
	Question string
	Prefill  string
	Choices  []string
}

// Highlight tells the renderer how to draw the selected turn
type Highlight struct {
	Turn   mapmodel.TurnID
	Dashed bool
}

// TickResult represents the outcome of one editor tick and the view the
// renderer should draw until the next one
type TickResult struct {
	Tick        int
	Mode        core.WizardKind
	ActiveCycle int
	CycleCount  int

	// Offered lists the actions the input layer should offer next
	Offered []core.Action
	// Applied is the action that took effect this tick, if any
	Applied core.Action
	// Changed reports whether the working plan was modified
	Changed    bool
	ToggleHint string
	Highlight  *Highlight
	Prompt     *Prompt

	HiddenTurnIcons       []mapmodel.TurnID
	SuppressSignalDetails mapmodel.IntersectionID

	Warnings []string
	Revision uuid.UUID
	Done     bool
	Error    error
}

// WithError adds an error to the tick result
func (r *TickResult) WithError(err error) *TickResult {
	r.Error = err
	return r
}

// Success returns true if the tick completed without an input error
func (r *TickResult) Success() bool {
	return r.Error == nil
}

// IsOffered reports whether an action is offered
func (r *TickResult) IsOffered(action core.Action) bool {
	for _, a := range r.Offered {
		if a == action {
			return true
		}
	}
	return false
}
