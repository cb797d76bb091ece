package presets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

func buildMap(t *testing.T) *mapmodel.Map {
	t.Helper()
	m, err := mapmodel.NewBuilder("presets").
		AddGeneratedIntersection(1, 4, true).
		AddGeneratedIntersection(2, 3, true).
		AddGeneratedIntersection(3, 5, false).
		Build()
	require.NoError(t, err)
	return m
}

func assertConflictFree(t *testing.T, m *mapmodel.Map, plan *signal.ControlTrafficSignal) {
	t.Helper()
	require.NoError(t, plan.Validate())
	for i, c := range plan.Cycles {
		a, b, found := signal.CheckConflicts(m, c)
		assert.False(t, found, "cycle %d: %s conflicts with %s", i+1, a, b)
	}
}

func TestFourWayPresets(t *testing.T) {
	m := buildMap(t)
	g := NewGenerator(m)

	four, err := g.FourWayFourPhase(1)
	require.NoError(t, err)
	assert.Equal(t, 4, four.Len())
	assertConflictFree(t, m, four)

	two, err := g.FourWayTwoPhase(1)
	require.NoError(t, err)
	assert.Equal(t, 2, two.Len())
	assertConflictFree(t, m, two)

	northLeft := mapmodel.TurnID{Parent: 1, Src: 101, Dst: 112}
	assert.Equal(t, signal.Yield, two.Cycles[0].GetPriority(northLeft))
	assert.Equal(t, signal.Priority, four.Cycles[1].GetPriority(northLeft))

	_, err = g.FourWayFourPhase(2)
	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestThreeWayPreset(t *testing.T) {
	m := buildMap(t)
	g := NewGenerator(m, WithCycleDuration(12*time.Second))

	plan, err := g.ThreeWay(2)
	require.NoError(t, err)
	assert.Equal(t, 3, plan.Len())
	assert.Equal(t, 12*time.Second, plan.Cycles[0].Duration)
	assertConflictFree(t, m, plan)

	_, err = g.ThreeWay(1)
	assert.ErrorIs(t, err, ErrNotApplicable)
}

func TestGreedyAssignmentCoversEveryTurn(t *testing.T) {
	m := buildMap(t)
	g := NewGenerator(m)

	for _, id := range []mapmodel.IntersectionID{1, 2, 3} {
		plan, err := g.GreedyAssignment(id)
		require.NoError(t, err)
		assertConflictFree(t, m, plan)
		for _, turn := range m.TurnsInIntersection(id) {
			served := false
			for _, c := range plan.Cycles {
				if c.GetPriority(turn.ID) == signal.Priority {
					served = true
				}
			}
			assert.True(t, served, "turn %s is never served", turn.ID)
		}
	}

	_, err := g.GreedyAssignment(99)
	assert.ErrorIs(t, err, mapmodel.ErrUnknownIntersection)
}

func TestTrafficSignalOnlyForSignalizedIntersections(t *testing.T) {
	g := NewGenerator(buildMap(t))

	plan, ok := g.TrafficSignal(1)
	require.True(t, ok)
	assert.Equal(t, mapmodel.IntersectionID(1), plan.ID)

	_, ok = g.TrafficSignal(3)
	assert.False(t, ok)
}
