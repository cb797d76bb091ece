package signaledit

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/overlay"
	"github.com/anggasct/signaledit/pkg/presets"
	"github.com/anggasct/signaledit/pkg/signal"
)

// TestObserver is a mock observer for testing that captures all observer events
type TestObserver struct {
	mutex         sync.RWMutex
	Actions       []*core.Event
	Commits       []CommitEvent
	Started       int
	Ended         int
	Selected      []int
	Toggles       []ToggleEvent
	WizardsOpened []core.WizardKind
	WizardsClosed []WizardEvent
	Errors        []error
}

type CommitEvent struct {
	Plan     *signal.ControlTrafficSignal
	Revision uuid.UUID
}

type ToggleEvent struct {
	Turn mapmodel.TurnID
	From signal.TurnPriority
	To   signal.TurnPriority
}

type WizardEvent struct {
	Wizard  core.WizardKind
	Outcome core.WizardOutcome
}

// NewTestObserver creates a new test observer
func NewTestObserver() *TestObserver {
	return &TestObserver{}
}

func (o *TestObserver) OnAction(session *core.Session, event *core.Event) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Actions = append(o.Actions, event)
}

func (o *TestObserver) OnCommit(session *core.Session, plan *signal.ControlTrafficSignal, revision uuid.UUID) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Commits = append(o.Commits, CommitEvent{Plan: plan, Revision: revision})
}

func (o *TestObserver) OnSessionStarted(session *core.Session) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Started++
}

func (o *TestObserver) OnSessionEnded(session *core.Session) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Ended++
}

func (o *TestObserver) OnCycleSelected(session *core.Session, index int) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Selected = append(o.Selected, index)
}

func (o *TestObserver) OnTurnToggled(session *core.Session, turn mapmodel.TurnID, from, to signal.TurnPriority) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Toggles = append(o.Toggles, ToggleEvent{Turn: turn, From: from, To: to})
}

func (o *TestObserver) OnWizardOpened(session *core.Session, wizard core.WizardKind) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.WizardsOpened = append(o.WizardsOpened, wizard)
}

func (o *TestObserver) OnWizardClosed(session *core.Session, wizard core.WizardKind, outcome core.WizardOutcome) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.WizardsClosed = append(o.WizardsClosed, WizardEvent{Wizard: wizard, Outcome: outcome})
}

func (o *TestObserver) OnError(session *core.Session, err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
}

// Helper methods for test assertions
func (o *TestObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Actions = nil
	o.Commits = nil
	o.Started = 0
	o.Ended = 0
	o.Selected = nil
	o.Toggles = nil
	o.WizardsOpened = nil
	o.WizardsClosed = nil
	o.Errors = nil
}

func (o *TestObserver) CommitCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Commits)
}

func (o *TestObserver) ActionCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Actions)
}

func (o *TestObserver) LastCommit() *CommitEvent {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Commits) == 0 {
		return nil
	}
	return &o.Commits[len(o.Commits)-1]
}

func (o *TestObserver) LastAction() *core.Event {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Actions) == 0 {
		return nil
	}
	return o.Actions[len(o.Actions)-1]
}

// FakeSimulation is a simulation with a fixed number of agents
type FakeSimulation struct {
	Agents int
}

func (s *FakeSimulation) IsEmpty() bool {
	return s.Agents == 0
}

// Test fixtures - common maps for testing

// FourWayIntersection is the signalized intersection of the four-way fixture
const FourWayIntersection mapmodel.IntersectionID = 1

// Fixture bundles a map with the collaborators an editor needs
type Fixture struct {
	Map        *mapmodel.Map
	Presets    *presets.Generator
	Overlay    *overlay.Overlay
	Simulation *FakeSimulation
}

// Deps returns editor dependencies backed by the fixture
func (f *Fixture) Deps() Deps {
	return Deps{
		Map:        f.Map,
		Oracle:     signal.NewOracle(f.Map),
		Presets:    f.Presets,
		Store:      f.Overlay,
		Simulation: f.Simulation,
	}
}

// CreateFourWayFixture builds a generated four-way signalized intersection
// plus a three-way one (2) and an unsignalized one (3). A non-nil plan is
// installed as the starting override.
func CreateFourWayFixture(t testing.TB, plan *signal.ControlTrafficSignal) *Fixture {
	t.Helper()
	m, err := mapmodel.NewBuilder("fixture").
		AddGeneratedIntersection(FourWayIntersection, 4, true).
		AddGeneratedIntersection(2, 3, true).
		AddGeneratedIntersection(3, 4, false).
		Build()
	if err != nil {
		t.Fatalf("Failed to build fixture map: %v", err)
	}
	return newFixture(m, plan)
}

// ScrambleIntersection is the intersection of the scramble fixture
const ScrambleIntersection mapmodel.IntersectionID = 5

// CreateScrambleFixture builds one signalized intersection holding a single
// shared sidewalk corner 3->4 and the crosswalks 1->2 and 2->1
func CreateScrambleFixture(t testing.TB, plan *signal.ControlTrafficSignal) *Fixture {
	t.Helper()
	id := ScrambleIntersection
	m, err := mapmodel.NewBuilder("scramble").
		Rule(mapmodel.ExplicitRule).
		Intersection(id, true, 50).
		Turn(mapmodel.Turn{ID: mapmodel.TurnID{Parent: id, Src: 1, Dst: 2}, Type: mapmodel.Crosswalk, SrcRoad: 50, DstRoad: 50}).
		Turn(mapmodel.Turn{ID: mapmodel.TurnID{Parent: id, Src: 2, Dst: 1}, Type: mapmodel.Crosswalk, SrcRoad: 50, DstRoad: 50}).
		Turn(mapmodel.Turn{ID: mapmodel.TurnID{Parent: id, Src: 3, Dst: 4}, Type: mapmodel.SharedSidewalkCorner, SrcRoad: 50, DstRoad: 50}).
		Build()
	if err != nil {
		t.Fatalf("Failed to build scramble map: %v", err)
	}
	return newFixture(m, plan)
}

func newFixture(m *mapmodel.Map, plan *signal.ControlTrafficSignal) *Fixture {
	generator := presets.NewGenerator(m)
	edits := overlay.NewMapEdits(m.Name())
	if plan != nil {
		edits.TrafficSignalOverrides[plan.ID] = plan.Clone()
	}
	return &Fixture{
		Map:        m,
		Presets:    generator,
		Overlay:    overlay.New(generator, edits),
		Simulation: &FakeSimulation{},
	}
}

// PlanOf builds a plan of empty cycles with the given durations in seconds
func PlanOf(id mapmodel.IntersectionID, seconds ...uint64) *signal.ControlTrafficSignal {
	plan := signal.NewControlTrafficSignal(id)
	for _, s := range seconds {
		c := signal.NewCycle(id, 0)
		if err := c.SetSeconds(s); err != nil {
			panic(err)
		}
		plan.Cycles = append(plan.Cycles, c)
	}
	return plan
}

// Test helpers for common assertions

// AssertActiveCycle checks the active cycle index of a tick result
func AssertActiveCycle(t *testing.T, res *TickResult, expected int) {
	t.Helper()
	if res.ActiveCycle != expected {
		t.Errorf("Expected active cycle %d, got %d", expected, res.ActiveCycle)
	}
}

// AssertOffered checks whether an action is offered by a tick result
func AssertOffered(t *testing.T, res *TickResult, action core.Action, expected bool) {
	t.Helper()
	if res.IsOffered(action) != expected {
		t.Errorf("Expected %q offered=%v, got offered=%v (offered: %v)", action, expected, !expected, res.Offered)
	}
}

// AssertDurations checks the cycle durations of a plan in seconds
func AssertDurations(t *testing.T, plan *signal.ControlTrafficSignal, expected ...uint64) {
	t.Helper()
	if plan.Len() != len(expected) {
		t.Fatalf("Expected %d cycles, got %d", len(expected), plan.Len())
	}
	for i, s := range expected {
		if got := plan.Cycles[i].Seconds(); got != s {
			t.Errorf("Expected cycle %d to last %ds, got %ds", i, s, got)
		}
	}
}
