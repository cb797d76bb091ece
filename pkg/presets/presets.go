// Package presets generates candidate signal plans for an intersection from
// its road layout and turn classification.
package presets

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

// ErrNotApplicable is returned when a preset's layout does not match the intersection
var ErrNotApplicable = errors.New("preset does not apply to this intersection")

// Generator builds presets from a map
type Generator struct {
	m        *mapmodel.Map
	oracle   signal.ConflictOracle
	duration time.Duration
}

// Option configures a Generator
type Option func(*Generator)

// WithCycleDuration sets the duration of every generated cycle
func WithCycleDuration(d time.Duration) Option {
	return func(g *Generator) {
		g.duration = d
	}
}

// NewGenerator creates a preset generator over m
func NewGenerator(m *mapmodel.Map, opts ...Option) *Generator {
	g := &Generator{
		m:        m,
		oracle:   signal.NewOracle(m),
		duration: signal.DefaultCycleDuration,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// phase describes the vehicle movements of one cycle
type phase struct {
	roads    []int
	priority []mapmodel.TurnType
	yield    []mapmodel.TurnType
}

var (
	straightRight = []mapmodel.TurnType{mapmodel.Straight, mapmodel.Right}
	leftOnly      = []mapmodel.TurnType{mapmodel.Left}
	allVehicle    = []mapmodel.TurnType{mapmodel.Straight, mapmodel.Right, mapmodel.Left}
)

// FourWayFourPhase gives each approach pair one cycle for through and right
// movements and one for protected lefts
func (g *Generator) FourWayFourPhase(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, error) {
	return g.phased(id, 4, []phase{
		{roads: []int{0, 2}, priority: straightRight},
		{roads: []int{0, 2}, priority: leftOnly},
		{roads: []int{1, 3}, priority: straightRight},
		{roads: []int{1, 3}, priority: leftOnly},
	})
}

// FourWayTwoPhase gives each approach pair one cycle with permissive lefts
func (g *Generator) FourWayTwoPhase(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, error) {
	return g.phased(id, 4, []phase{
		{roads: []int{0, 2}, priority: straightRight, yield: leftOnly},
		{roads: []int{1, 3}, priority: straightRight, yield: leftOnly},
	})
}

// ThreeWay gives each of three approaches its own cycle
func (g *Generator) ThreeWay(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, error) {
	return g.phased(id, 3, []phase{
		{roads: []int{0}, priority: allVehicle},
		{roads: []int{1}, priority: allVehicle},
		{roads: []int{2}, priority: allVehicle},
	})
}

// GreedyAssignment places every turn with Priority into the first cycle that
// can take it, opening a new cycle when none can. It works for any layout.
func (g *Generator) GreedyAssignment(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, error) {
	if _, ok := g.m.Intersection(id); !ok {
		return nil, fmt.Errorf("%w %d", mapmodel.ErrUnknownIntersection, int(id))
	}
	cycles := []*signal.Cycle{signal.NewCycle(id, g.duration)}
	for _, t := range g.m.TurnsInIntersection(id) {
		placed := false
		for _, c := range cycles {
			if g.oracle.CouldBePriorityTurn(t.ID, c) {
				c.EditTurn(t.ID, signal.Priority)
				placed = true
				break
			}
		}
		if !placed {
			c := signal.NewCycle(id, g.duration)
			c.EditTurn(t.ID, signal.Priority)
			cycles = append(cycles, c)
		}
	}
	return signal.NewControlTrafficSignal(id, cycles...), nil
}

// TrafficSignal returns the base plan of a signalized intersection
func (g *Generator) TrafficSignal(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, bool) {
	if !g.m.HasTrafficSignal(id) {
		return nil, false
	}
	plan, err := g.GreedyAssignment(id)
	if err != nil {
		return nil, false
	}
	return plan, true
}

func (g *Generator) phased(id mapmodel.IntersectionID, roadCount int, phases []phase) (*signal.ControlTrafficSignal, error) {
	in, ok := g.m.Intersection(id)
	if !ok {
		return nil, fmt.Errorf("%w %d", mapmodel.ErrUnknownIntersection, int(id))
	}
	if len(in.Roads) != roadCount {
		return nil, fmt.Errorf("%w: %s has %d roads, want %d", ErrNotApplicable, id, len(in.Roads), roadCount)
	}

	turns := g.m.TurnsInIntersection(id)
	vehicles := lo.GroupBy(lo.Filter(turns, func(t mapmodel.Turn, _ int) bool {
		return t.IsVehicle()
	}), func(t mapmodel.Turn) mapmodel.RoadID {
		return t.SrcRoad
	})
	corners := lo.Filter(turns, func(t mapmodel.Turn, _ int) bool {
		return t.Type == mapmodel.SharedSidewalkCorner
	})
	crosswalks := lo.Filter(turns, func(t mapmodel.Turn, _ int) bool {
		return t.Type == mapmodel.Crosswalk
	})

	plan := signal.NewControlTrafficSignal(id)
	for _, ph := range phases {
		c := signal.NewCycle(id, g.duration)
		for _, r := range ph.roads {
			for _, t := range vehicles[in.Roads[r]] {
				switch {
				case slices.Contains(ph.priority, t.Type):
					c.EditTurn(t.ID, signal.Priority)
				case slices.Contains(ph.yield, t.Type):
					c.EditTurn(t.ID, signal.Yield)
				}
			}
		}
		for _, t := range corners {
			c.EditTurn(t.ID, signal.Priority)
		}
		for _, t := range crosswalks {
			c.EditTurn(t.ID, signal.Yield)
		}
		if c.IsEmpty() {
			return nil, fmt.Errorf("%w: phase over roads %v has no turns", ErrNotApplicable, ph.roads)
		}
		plan.Cycles = append(plan.Cycles, c)
	}

	for i, c := range plan.Cycles {
		if a, b, found := signal.CheckConflicts(g.m, c); found {
			return nil, fmt.Errorf("%w: cycle %d grants priority to conflicting %s and %s", ErrNotApplicable, i+1, a, b)
		}
	}
	return plan, nil
}
