package signaledit

import (
	"time"

	"github.com/samber/lo"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

// modalAction is one row of the dispatch table: an action is only offered,
// and only fires, while available holds
type modalAction struct {
	action    core.Action
	available func(e *Editor) bool
	apply     func(e *Editor, res *TickResult)
}

func always(*Editor) bool { return true }

// modalActionTable returns the dispatch table. Rows are evaluated in order and
// at most one fires per tick.
func modalActionTable() []modalAction {
	return []modalAction{
		{
			action:    core.ActionQuit,
			available: always,
			apply: func(e *Editor, res *TickResult) {
				res.Done = true
			},
		},
		{
			action:    core.ActionPreviousCycle,
			available: func(e *Editor) bool { return e.current > 0 },
			apply: func(e *Editor, res *TickResult) {
				e.selectCycle(e.current - 1)
			},
		},
		{
			action:    core.ActionNextCycle,
			available: func(e *Editor) bool { return e.current < e.plan.Len()-1 },
			apply: func(e *Editor, res *TickResult) {
				e.selectCycle(e.current + 1)
			},
		},
		{
			action:    core.ActionChangeDuration,
			available: always,
			apply: func(e *Editor, res *TickResult) {
				e.openWizard(&durationWizard{prefill: formatSeconds(e.plan.Cycles[e.current].Seconds())})
			},
		},
		{
			action:    core.ActionChoosePreset,
			available: always,
			apply: func(e *Editor, res *TickResult) {
				e.openWizard(&presetWizard{choices: Catalog(e.deps.Presets, e.id)})
			},
		},
		{
			action:    core.ActionMoveCycleUp,
			available: func(e *Editor) bool { return e.current > 0 },
			apply: func(e *Editor, res *TickResult) {
				e.plan.SwapCycles(e.current, e.current-1)
				e.current--
				res.Changed = true
			},
		},
		{
			action:    core.ActionMoveCycleDown,
			available: func(e *Editor) bool { return e.current < e.plan.Len()-1 },
			apply: func(e *Editor, res *TickResult) {
				e.plan.SwapCycles(e.current, e.current+1)
				e.current++
				res.Changed = true
			},
		},
		{
			action:    core.ActionDeleteCycle,
			available: func(e *Editor) bool { return e.plan.Len() > 1 },
			apply: func(e *Editor, res *TickResult) {
				e.plan.RemoveCycle(e.current)
				if e.current == e.plan.Len() {
					e.current--
				}
				res.Changed = true
			},
		},
		{
			action:    core.ActionAddCycle,
			available: always,
			apply: func(e *Editor, res *TickResult) {
				e.plan.InsertCycle(e.current, signal.NewCycle(e.id, e.cycleDuration))
				res.Changed = true
			},
		},
		{
			action:    core.ActionAddScramble,
			available: func(e *Editor) bool { return e.hasSidewalks },
			apply: func(e *Editor, res *TickResult) {
				e.plan.InsertCycle(e.current, ScrambleCycle(e.id, e.turns, e.cycleDuration))
				res.Changed = true
			},
		},
	}
}

// ScrambleCycle builds a pedestrian scramble: every shared sidewalk corner and
// one direction of every crosswalk get Priority
func ScrambleCycle(id mapmodel.IntersectionID, turns []mapmodel.Turn, duration time.Duration) *signal.Cycle {
	cycle := signal.NewCycle(id, duration)
	for _, t := range lo.Filter(turns, func(t mapmodel.Turn, _ int) bool {
		return t.Type == mapmodel.SharedSidewalkCorner ||
			(t.Type == mapmodel.Crosswalk && t.ID.Src < t.ID.Dst)
	}) {
		cycle.EditTurn(t.ID, signal.Priority)
	}
	return cycle
}

// offeredModal lists the modal actions available right now, in dispatch order
func (e *Editor) offeredModal() []core.Action {
	var offered []core.Action
	for _, row := range e.actions {
		if row.available(e) {
			offered = append(offered, row.action)
		}
	}
	return offered
}

// tickActions fires the first available modal action the input invoked
func (e *Editor) tickActions(in Input, res *TickResult) {
	for _, row := range e.actions {
		if !row.available(e) || !in.Invoked(row.action) {
			continue
		}
		row.apply(e, res)
		res.Applied = row.action
		e.observers.NotifyAction(e.session, core.NewEvent(row.action, e.tick).
			WithMetadata("cycle", e.current).
			WithMetadata("cycles", e.plan.Len()))
		return
	}
}
