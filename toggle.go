package signaledit

import (
	"fmt"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

// NextPriority returns the priority a toggle moves a turn to within a cycle,
// or false when the turn has no legal next state
func NextPriority(turn mapmodel.Turn, cycle *signal.Cycle, oracle signal.ConflictOracle) (signal.TurnPriority, bool) {
	switch current := cycle.GetPriority(turn.ID); current {
	case signal.Banned:
		if turn.Type != mapmodel.Crosswalk {
			return signal.Yield, true
		}
		if oracle.CouldBePriorityTurn(turn.ID, cycle) {
			return signal.Priority, true
		}
		return signal.Banned, false
	case signal.Yield:
		if oracle.CouldBePriorityTurn(turn.ID, cycle) {
			return signal.Priority, true
		}
		return signal.Banned, true
	case signal.Priority:
		return signal.Banned, true
	default:
		panic(signal.NewInvariantError(signal.ErrCodeUnknownPriority, turn.ID.Parent,
			fmt.Sprintf("turn %s has %s in a traffic signal", turn.ID, current)))
	}
}

// ToggleHint describes a proposed toggle
func ToggleHint(from, to signal.TurnPriority) string {
	return fmt.Sprintf("toggle from %s to %s", from, to)
}

// tickToggle handles a tick where a turn of this intersection is selected
func (e *Editor) tickToggle(turn mapmodel.Turn, in Input, res *TickResult) {
	cycle := e.plan.Cycles[e.current]
	from := cycle.GetPriority(turn.ID)
	next, ok := NextPriority(turn, cycle, e.deps.Oracle)
	if !ok {
		return
	}
	if !in.Invoked(core.ActionToggle) {
		return
	}

	cycle.EditTurn(turn.ID, next)
	res.Applied = core.ActionToggle
	res.Changed = true
	e.observers.NotifyTurnToggled(e.session, turn.ID, from, next)
	e.observers.NotifyAction(e.session, core.NewEvent(core.ActionToggle, e.tick).
		WithMetadata("turn", turn.ID.String()).
		WithMetadata("from", from.String()).
		WithMetadata("to", next.String()))
}
