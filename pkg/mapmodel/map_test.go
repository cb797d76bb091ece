package mapmodel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildFourWay(t *testing.T) *Map {
	t.Helper()
	m, err := NewBuilder("four_way").AddGeneratedIntersection(1, 4, true).Build()
	require.NoError(t, err)
	return m
}

func TestGeneratedIntersection(t *testing.T) {
	m := buildFourWay(t)

	turns := m.TurnsInIntersection(1)
	// 12 vehicle turns, 8 crosswalk directions, 8 corner directions
	assert.Len(t, turns, 28)

	counts := make(map[TurnType]int)
	for _, turn := range turns {
		counts[turn.Type]++
	}
	assert.Equal(t, 4, counts[Straight])
	assert.Equal(t, 4, counts[Left])
	assert.Equal(t, 4, counts[Right])
	assert.Equal(t, 8, counts[Crosswalk])
	assert.Equal(t, 8, counts[SharedSidewalkCorner])

	for i := 1; i < len(turns); i++ {
		assert.True(t, turns[i-1].ID.Less(turns[i].ID), "turns should be ordered by id")
	}
	assert.True(t, m.HasTrafficSignal(1))
	assert.False(t, m.HasTrafficSignal(2))
}

func TestVehicleTurnType(t *testing.T) {
	tests := []struct {
		r, s, n int
		want    TurnType
	}{
		{0, 2, 4, Straight},
		{0, 1, 4, Left},
		{0, 3, 4, Right},
		{1, 3, 4, Straight},
		{0, 1, 3, Left},
		{0, 2, 3, Right},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, vehicleTurnType(tc.r, tc.s, tc.n), "from %d to %d of %d", tc.r, tc.s, tc.n)
	}
}

func TestApproachConflicts(t *testing.T) {
	m := buildFourWay(t)
	turn := func(src, dst int) TurnID {
		return TurnID{Parent: 1, Src: LaneID(src), Dst: LaneID(dst)}
	}

	northStraight := turn(101, 122)
	southStraight := turn(121, 102)
	northLeft := turn(101, 112)
	southLeft := turn(121, 132)
	eastStraight := turn(111, 132)
	northRight := turn(101, 132)
	eastRight := turn(111, 102)
	crossNorth := turn(103, 104)
	crossNorthBack := turn(104, 103)
	corner := turn(104, 113)

	t.Run("opposing straights coexist", func(t *testing.T) {
		assert.False(t, m.TurnsConflict(northStraight, southStraight))
	})
	t.Run("opposing lefts coexist", func(t *testing.T) {
		assert.False(t, m.TurnsConflict(northLeft, southLeft))
	})
	t.Run("left against opposing straight conflicts", func(t *testing.T) {
		assert.True(t, m.TurnsConflict(northLeft, southStraight))
	})
	t.Run("perpendicular straights conflict", func(t *testing.T) {
		assert.True(t, m.TurnsConflict(northStraight, eastStraight))
	})
	t.Run("merging into one road conflicts", func(t *testing.T) {
		assert.True(t, m.TurnsConflict(northRight, eastStraight))
	})
	t.Run("perpendicular rights coexist", func(t *testing.T) {
		assert.False(t, m.TurnsConflict(northRight, eastRight))
	})
	t.Run("crosswalk conflicts with traffic on its road", func(t *testing.T) {
		assert.True(t, m.TurnsConflict(crossNorth, northStraight))
		assert.True(t, m.TurnsConflict(southStraight, crossNorth))
		assert.False(t, m.TurnsConflict(crossNorth, eastStraight))
	})
	t.Run("pedestrian movements never conflict with each other", func(t *testing.T) {
		assert.False(t, m.TurnsConflict(crossNorth, crossNorthBack))
		assert.False(t, m.TurnsConflict(corner, northStraight))
	})
	t.Run("a turn does not conflict with itself", func(t *testing.T) {
		assert.False(t, m.TurnsConflict(northStraight, northStraight))
	})
}

func TestExplicitConflicts(t *testing.T) {
	a := TurnID{Parent: 7, Src: 1, Dst: 2}
	b := TurnID{Parent: 7, Src: 3, Dst: 4}
	c := TurnID{Parent: 7, Src: 5, Dst: 6}

	m, err := NewBuilder("explicit").
		Rule(ExplicitRule).
		Intersection(7, true).
		Turn(Turn{ID: a, Type: Straight}).
		Turn(Turn{ID: b, Type: Straight}).
		Turn(Turn{ID: c, Type: Left}).
		Conflict(b, a).
		Build()
	require.NoError(t, err)

	assert.True(t, m.TurnsConflict(a, b))
	assert.True(t, m.TurnsConflict(b, a))
	assert.False(t, m.TurnsConflict(a, c))
}

func TestBuilderErrors(t *testing.T) {
	t.Run("turn on unknown intersection", func(t *testing.T) {
		_, err := NewBuilder("bad").Turn(Turn{ID: TurnID{Parent: 3, Src: 1, Dst: 2}}).Build()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownIntersection)
	})

	t.Run("conflict with unknown turn", func(t *testing.T) {
		_, err := NewBuilder("bad").
			Intersection(1, true).
			Conflict(TurnID{Parent: 1, Src: 1, Dst: 2}, TurnID{Parent: 1, Src: 2, Dst: 1}).
			Build()
		assert.Error(t, err)
	})

	t.Run("unknown rule", func(t *testing.T) {
		_, err := NewBuilder("bad").Rule("geometric").Build()
		assert.Error(t, err)
	})
}

func TestMapYAMLRoundTrip(t *testing.T) {
	original := buildFourWay(t)

	data, err := original.Marshal()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "four_way.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "four_way", loaded.Name())
	assert.Equal(t, original.TurnsInIntersection(1), loaded.TurnsInIntersection(1))
	in, ok := loaded.Intersection(1)
	require.True(t, ok)
	assert.Equal(t, []RoadID{10, 11, 12, 13}, in.Roads)
}

func TestParseTestdataFixture(t *testing.T) {
	m, err := LoadFromFile(filepath.Join("testdata", "scramble.yaml"))
	require.NoError(t, err)

	turns := m.TurnsInIntersection(5)
	require.Len(t, turns, 3)
	assert.Equal(t, Crosswalk, turns[0].Type)
	assert.Equal(t, Crosswalk, turns[1].Type)
	assert.Equal(t, SharedSidewalkCorner, turns[2].Type)
	assert.False(t, m.TurnsConflict(turns[0].ID, turns[2].ID))
}

func TestParseTurnID(t *testing.T) {
	id, err := ParseTurnID(4, "101->122")
	require.NoError(t, err)
	assert.Equal(t, TurnID{Parent: 4, Src: 101, Dst: 122}, id)

	id, err = ParseTurnID(4, " 7-9 ")
	require.NoError(t, err)
	assert.Equal(t, TurnID{Parent: 4, Src: 7, Dst: 9}, id)

	_, err = ParseTurnID(4, "seven")
	assert.ErrorIs(t, err, ErrInvalidTurnID)
}

func TestTurnPriorityNames(t *testing.T) {
	for _, p := range []TurnPriority{Stop, Yield, Priority, Banned} {
		parsed, err := ParseTurnPriority(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, parsed)
	}
	_, err := ParseTurnPriority("Go")
	assert.Error(t, err)
}
