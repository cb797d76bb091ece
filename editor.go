package signaledit

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
	"github.com/anggasct/signaledit/visualization"
)

// MapSource is the read-only map data the editor consumes
type MapSource interface {
	HasTrafficSignal(id mapmodel.IntersectionID) bool
	Turn(id mapmodel.TurnID) (mapmodel.Turn, bool)
	TurnsInIntersection(id mapmodel.IntersectionID) []mapmodel.Turn
}

// Simulation reports whether the live simulation has any agents
type Simulation interface {
	IsEmpty() bool
}

// Deps are the collaborators an editor needs. Simulation may be nil.
type Deps struct {
	Map        MapSource
	Oracle     signal.ConflictOracle
	Presets    PresetProvider
	Store      Store
	Simulation Simulation
}

// Option configures an Editor
type Option func(*Editor)

// WithObserver registers an observer before the session starts
func WithObserver(observer Observer) Option {
	return func(e *Editor) {
		e.observers.AddObserver(observer)
	}
}

// WithCycleDuration sets the duration of cycles the editor creates
func WithCycleDuration(d time.Duration) Option {
	return func(e *Editor) {
		e.cycleDuration = d
	}
}

// Editor is an editing session on the signal plan of one intersection. It is
// driven by one Tick call per input frame and is not safe for concurrent use.
type Editor struct {
	id      mapmodel.IntersectionID
	deps    Deps
	session *core.Session
	actions []modalAction

	turns        []mapmodel.Turn
	hasSidewalks bool

	plan     *signal.ControlTrafficSignal
	current  int
	mode     mode
	selected *mapmodel.TurnID

	cycleDuration time.Duration
	observers     *ObserverManager
	tick          int
	done          bool
}

// New opens an editor on intersection id. The intersection must have a
// traffic signal and the simulation must be empty.
func New(id mapmodel.IntersectionID, deps Deps, opts ...Option) (*Editor, error) {
	switch {
	case deps.Map == nil:
		return nil, errors.New("signaledit: map source is required")
	case deps.Oracle == nil:
		return nil, errors.New("signaledit: conflict oracle is required")
	case deps.Presets == nil:
		return nil, errors.New("signaledit: preset provider is required")
	case deps.Store == nil:
		return nil, errors.New("signaledit: overlay store is required")
	}
	if !deps.Map.HasTrafficSignal(id) {
		return nil, fmt.Errorf("edit %s: %w", id, ErrNoTrafficSignal)
	}
	if deps.Simulation != nil && !deps.Simulation.IsEmpty() {
		return nil, fmt.Errorf("edit %s: %w", id, ErrSimulationRunning)
	}
	plan, ok := deps.Store.TrafficSignal(id)
	if !ok {
		return nil, fmt.Errorf("edit %s: %w", id, ErrNoTrafficSignal)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("edit %s: %w", id, err)
	}

	turns := deps.Map.TurnsInIntersection(id)
	e := &Editor{
		id:      id,
		deps:    deps,
		session: core.NewSession(id),
		actions: modalActionTable(),
		turns:   turns,
		hasSidewalks: lo.ContainsBy(turns, func(t mapmodel.Turn) bool {
			return t.BetweenSidewalks()
		}),
		plan:          plan,
		mode:          normalMode{},
		cycleDuration: signal.DefaultCycleDuration,
		observers:     NewObserverManager(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.observers.NotifySessionStarted(e.session)
	return e, nil
}

// Session returns the session identity
func (e *Editor) Session() *core.Session {
	return e.session
}

// Intersection returns the intersection being edited
func (e *Editor) Intersection() mapmodel.IntersectionID {
	return e.id
}

// Plan returns a copy of the working plan
func (e *Editor) Plan() *signal.ControlTrafficSignal {
	return e.plan.Clone()
}

// ActiveCycle returns the index of the active cycle
func (e *Editor) ActiveCycle() int {
	return e.current
}

// Mode returns the open wizard, or WizardNone
func (e *Editor) Mode() core.WizardKind {
	return e.mode.kind()
}

// Done reports whether the session has quit
func (e *Editor) Done() bool {
	return e.done
}

// AddObserver registers an observer
func (e *Editor) AddObserver(observer Observer) {
	e.observers.AddObserver(observer)
}

// RemoveObserver unregisters an observer
func (e *Editor) RemoveObserver(observer Observer) {
	e.observers.RemoveObserver(observer)
}

// Tick runs one input frame: a wizard owns the tick when open, otherwise a
// selected turn of this intersection is toggled, otherwise at most one modal
// action fires. The working plan is committed at the end of every tick.
func (e *Editor) Tick(in Input) *TickResult {
	if e.done {
		return (&TickResult{
			Tick:        e.tick,
			Mode:        e.mode.kind(),
			ActiveCycle: e.current,
			CycleCount:  e.plan.Len(),
			Done:        true,
		}).WithError(ErrSessionEnded)
	}

	e.tick++
	res := &TickResult{Tick: e.tick}
	e.step(in, res)
	res.Revision = e.commit()
	e.describe(res)

	if res.Error != nil {
		e.observers.NotifyError(e.session, res.Error)
	}
	if res.Done {
		e.done = true
		e.observers.NotifySessionEnded(e.session)
	}
	return res
}

func (e *Editor) step(in Input, res *TickResult) {
	switch w := e.mode.(type) {
	case *durationWizard:
		e.tickDuration(w, in.Wizard(), res)
		return
	case *presetWizard:
		e.tickPreset(w, in.Wizard(), res)
		return
	}

	e.selected = nil
	if sel := in.Selection(); sel.Kind == SelectTurn && sel.Turn.Parent == e.id {
		if turn, ok := e.deps.Map.Turn(sel.Turn); ok {
			e.selected = &turn.ID
			e.tickToggle(turn, in, res)
			return
		}
	}
	e.tickActions(in, res)
}

func (e *Editor) tickDuration(w *durationWizard, answer WizardInput, res *TickResult) {
	switch {
	case answer.Aborted:
		e.closeWizard(core.WizardAborted)
	case answer.Submitted:
		seconds, err := w.parse(answer.Value)
		if err != nil {
			res.WithError(err)
			return
		}
		if err := e.plan.Cycles[e.current].SetSeconds(seconds); err != nil {
			res.WithError(NewInvalidDurationError(answer.Value, err))
			return
		}
		res.Changed = true
		e.closeWizard(core.WizardConfirmed)
	}
}

func (e *Editor) tickPreset(w *presetWizard, answer WizardInput, res *TickResult) {
	switch {
	case answer.Aborted:
		e.closeWizard(core.WizardAborted)
	case answer.Submitted:
		choice, err := w.choose(answer.Value)
		if err != nil {
			res.WithError(err)
			return
		}
		if err := e.checkPreset(choice.Plan); err != nil {
			res.WithError(NewInvalidPresetError(choice.Label, err))
			return
		}
		e.plan = choice.Plan.Clone()
		if e.current >= e.plan.Len() {
			e.current = 0
		}
		res.Changed = true
		e.closeWizard(core.WizardConfirmed)
	}
}

// checkPreset rejects a preset plan that could not stand in for the working plan
func (e *Editor) checkPreset(plan *signal.ControlTrafficSignal) error {
	if plan == nil {
		return signal.NewInvariantError(signal.ErrCodeEmptyPlan, e.id, "preset produced no plan")
	}
	if plan.ID != e.id {
		return signal.NewInvariantError(signal.ErrCodeForeignPlan, e.id,
			fmt.Sprintf("preset plan belongs to %s", plan.ID))
	}
	return plan.Validate()
}

func (e *Editor) openWizard(m mode) {
	e.mode = m
	e.observers.NotifyWizardOpened(e.session, m.kind())
}

func (e *Editor) closeWizard(outcome core.WizardOutcome) {
	kind := e.mode.kind()
	e.mode = normalMode{}
	e.observers.NotifyWizardClosed(e.session, kind, outcome)
}

func (e *Editor) selectCycle(index int) {
	e.current = index
	e.observers.NotifyCycleSelected(e.session, index)
}

// describe fills in the view part of a tick result
func (e *Editor) describe(res *TickResult) {
	res.Mode = e.mode.kind()
	res.ActiveCycle = e.current
	res.CycleCount = e.plan.Len()
	res.Prompt = e.mode.prompt()
	res.SuppressSignalDetails = e.id
	res.HiddenTurnIcons = lo.FilterMap(e.turns, func(t mapmodel.Turn, _ int) (mapmodel.TurnID, bool) {
		return t.ID, t.Type == mapmodel.SharedSidewalkCorner
	})
	res.Warnings = e.plan.Warnings(e.turns)

	if res.Done || e.mode.kind() != core.WizardNone {
		return
	}
	if e.selected != nil {
		cycle := e.plan.Cycles[e.current]
		res.Highlight = &Highlight{
			Turn:   *e.selected,
			Dashed: cycle.GetPriority(*e.selected) == signal.Yield,
		}
		if turn, ok := e.deps.Map.Turn(*e.selected); ok {
			if next, ok := NextPriority(turn, cycle, e.deps.Oracle); ok {
				res.ToggleHint = ToggleHint(cycle.GetPriority(turn.ID), next)
				res.Offered = []core.Action{core.ActionToggle}
			}
		}
		return
	}
	res.Offered = e.offeredModal()
}

// ColorFor returns the color of a turn in the active cycle. Turns of other
// intersections have no editor color.
func (e *Editor) ColorFor(turn mapmodel.TurnID) (color.RGBA, bool) {
	if turn.Parent != e.id {
		return color.RGBA{}, false
	}
	return visualization.PriorityColor(e.plan.Cycles[e.current].GetPriority(turn)), true
}

func formatSeconds(seconds uint64) string {
	return strconv.FormatUint(seconds, 10)
}
