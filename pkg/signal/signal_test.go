package signal

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/anggasct/signaledit/pkg/mapmodel"
)

func turn(src, dst int) mapmodel.TurnID {
	return mapmodel.TurnID{Parent: 1, Src: mapmodel.LaneID(src), Dst: mapmodel.LaneID(dst)}
}

func fourWay(t *testing.T) *mapmodel.Map {
	t.Helper()
	m, err := mapmodel.NewBuilder("four_way").AddGeneratedIntersection(1, 4, true).Build()
	require.NoError(t, err)
	return m
}

func TestCycleEditTurn(t *testing.T) {
	c := NewCycle(1, DefaultCycleDuration)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, Banned, c.GetPriority(turn(101, 122)))

	c.EditTurn(turn(101, 122), Priority)
	c.EditTurn(turn(101, 132), Yield)
	assert.Equal(t, Priority, c.GetPriority(turn(101, 122)))
	assert.Equal(t, []mapmodel.TurnID{turn(101, 122)}, c.PriorityTurns())
	assert.Equal(t, []mapmodel.TurnID{turn(101, 132)}, c.YieldTurns())

	c.EditTurn(turn(101, 122), Banned)
	assert.Equal(t, Banned, c.GetPriority(turn(101, 122)))
	assert.Empty(t, c.PriorityTurns())
	assert.False(t, c.IsEmpty())
}

func TestCycleEditForeignTurnPanics(t *testing.T) {
	c := NewCycle(1, DefaultCycleDuration)
	assert.Panics(t, func() {
		c.EditTurn(mapmodel.TurnID{Parent: 2, Src: 1, Dst: 2}, Yield)
	})
}

func TestCycleSeconds(t *testing.T) {
	c := NewCycle(1, 15*time.Second)
	assert.Equal(t, uint64(15), c.Seconds())
	require.NoError(t, c.SetSeconds(42))
	assert.Equal(t, 42*time.Second, c.Duration)

	require.NoError(t, c.SetSeconds(MaxSeconds))
	assert.Equal(t, MaxSeconds, c.Seconds())
	assert.Positive(t, c.Duration)
}

func TestCycleSecondsOutOfRange(t *testing.T) {
	c := NewCycle(1, 15*time.Second)
	for _, seconds := range []uint64{MaxSeconds + 1, 10_000_000_000, math.MaxUint64} {
		err := c.SetSeconds(seconds)
		assert.ErrorIs(t, err, ErrDurationOutOfRange, seconds)
		assert.Equal(t, 15*time.Second, c.Duration)
	}
}

func TestCycleCloneIsIndependent(t *testing.T) {
	c := NewCycle(1, DefaultCycleDuration)
	c.EditTurn(turn(101, 122), Priority)

	clone := c.Clone()
	require.True(t, c.Equal(clone))

	clone.EditTurn(turn(101, 122), Banned)
	require.NoError(t, clone.SetSeconds(5))
	assert.Equal(t, Priority, c.GetPriority(turn(101, 122)))
	assert.Equal(t, DefaultCycleDuration, c.Duration)
	assert.False(t, c.Equal(clone))
}

func TestPlanMutations(t *testing.T) {
	a, b, c := NewCycle(1, time.Second), NewCycle(1, 2*time.Second), NewCycle(1, 3*time.Second)
	plan := NewControlTrafficSignal(1, a, b)

	plan.InsertCycle(1, c)
	assert.Equal(t, []*Cycle{a, c, b}, plan.Cycles)

	plan.SwapCycles(0, 2)
	assert.Equal(t, []*Cycle{b, c, a}, plan.Cycles)

	removed := plan.RemoveCycle(1)
	assert.Same(t, c, removed)
	assert.Equal(t, 2, plan.Len())
	assert.Equal(t, uint64(3), plan.TotalDuration())

	plan.RemoveCycle(0)
	assert.Panics(t, func() { plan.RemoveCycle(0) })
}

func TestPlanValidate(t *testing.T) {
	assert.Equal(t, ErrCodeEmptyPlan, GetErrorCode(NewControlTrafficSignal(1).Validate()))

	foreign := NewControlTrafficSignal(1, NewCycle(2, time.Second))
	assert.Equal(t, ErrCodeForeignPlan, GetErrorCode(foreign.Validate()))

	assert.NoError(t, NewControlTrafficSignal(1, NewCycle(1, time.Second)).Validate())
}

func TestPlanWarnings(t *testing.T) {
	m := fourWay(t)
	full := NewCycle(1, DefaultCycleDuration)
	for _, tr := range m.TurnsInIntersection(1) {
		if tr.Type != mapmodel.SharedSidewalkCorner {
			full.EditTurn(tr.ID, Yield)
		}
	}
	plan := NewControlTrafficSignal(1, full, NewCycle(1, DefaultCycleDuration))
	assert.Equal(t, []string{"cycle 2 is empty"}, plan.Warnings(m.TurnsInIntersection(1)))

	full.EditTurn(turn(101, 122), Banned)
	warnings := plan.Warnings(m.TurnsInIntersection(1))
	assert.Contains(t, warnings, turn(101, 122).String()+" is banned in every cycle")
}

func TestOracle(t *testing.T) {
	m := fourWay(t)
	oracle := NewOracle(m)
	c := NewCycle(1, DefaultCycleDuration)

	c.EditTurn(turn(101, 122), Priority)
	assert.True(t, oracle.CouldBePriorityTurn(turn(121, 102), c), "opposing straight")
	assert.False(t, oracle.CouldBePriorityTurn(turn(111, 132), c), "perpendicular straight")
	assert.True(t, oracle.CouldBePriorityTurn(turn(101, 122), c), "itself")

	c.EditTurn(turn(111, 132), Yield)
	assert.True(t, oracle.CouldBePriorityTurn(turn(121, 102), c), "yield turns do not block")

	_, _, found := CheckConflicts(m, c)
	assert.False(t, found)
	c.EditTurn(turn(111, 132), Priority)
	a, b, found := CheckConflicts(m, c)
	assert.True(t, found)
	assert.Equal(t, turn(101, 122), a)
	assert.Equal(t, turn(111, 132), b)
}

func TestPriorityConversion(t *testing.T) {
	id := turn(101, 122)
	for _, p := range []TurnPriority{Banned, Yield, Priority} {
		got, err := FromMapPriority(id, p.MapPriority())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}

	_, err := FromMapPriority(id, mapmodel.Stop)
	require.Error(t, err)
	assert.True(t, IsInvariantError(err))
	assert.Equal(t, ErrCodeStopInSignal, GetErrorCode(err))

	assert.Panics(t, func() { MustFromMapPriority(id, mapmodel.Stop) })
}

func samplePlan() *ControlTrafficSignal {
	first := NewCycle(1, 20*time.Second)
	first.EditTurn(turn(101, 122), Priority)
	first.EditTurn(turn(101, 112), Yield)
	second := NewCycle(1, 10*time.Second)
	return NewControlTrafficSignal(1, first, second)
}

func TestPlanYAMLRoundTrip(t *testing.T) {
	plan := samplePlan()
	data, err := yaml.Marshal(plan)
	require.NoError(t, err)
	assert.Contains(t, string(data), "duration_s: 20")
	assert.Contains(t, string(data), "priority: Priority")

	var decoded ControlTrafficSignal
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.True(t, plan.Equal(&decoded))
}

func TestPlanJSONRoundTrip(t *testing.T) {
	plan := samplePlan()
	data, err := json.Marshal(plan)
	require.NoError(t, err)

	var decoded ControlTrafficSignal
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, plan.Equal(&decoded))
}

func TestDecodeStopIsInvariantError(t *testing.T) {
	doc := `
intersection: 1
cycles:
  - duration_s: 30
    turns:
      - {src: 101, dst: 122, priority: Stop}
`
	var plan ControlTrafficSignal
	err := yaml.Unmarshal([]byte(doc), &plan)
	require.Error(t, err)
	assert.ErrorContains(t, err, "can't have TurnPriority::Stop")
}

func TestDecodeEmptyPlanFails(t *testing.T) {
	var plan ControlTrafficSignal
	err := yaml.Unmarshal([]byte("intersection: 1\ncycles: []\n"), &plan)
	assert.Error(t, err)
}

func TestDecodeHugeDurationFails(t *testing.T) {
	doc := `
intersection: 1
cycles:
  - duration_s: 18446744073709551615
`
	var plan ControlTrafficSignal
	err := yaml.Unmarshal([]byte(doc), &plan)
	assert.ErrorIs(t, err, ErrDurationOutOfRange)

	err = json.Unmarshal([]byte(`{"intersection":1,"cycles":[{"duration_s":10000000000}]}`), &plan)
	assert.ErrorIs(t, err, ErrDurationOutOfRange)
}
