package mapmodel

import (
	"fmt"
	"slices"
)

// Builder assembles a Map
type Builder struct {
	m    *Map
	errs []error
}

// NewBuilder creates a builder for a map with the given name. Conflicts are
// derived with ApproachRule unless Rule says otherwise.
func NewBuilder(name string) *Builder {
	return &Builder{
		m: &Map{
			name:          name,
			intersections: make(map[IntersectionID]*Intersection),
			turns:         make(map[TurnID]Turn),
			byParent:      make(map[IntersectionID][]TurnID),
			conflicts:     make(map[turnPair]struct{}),
			rule:          ApproachRule,
		},
	}
}

// Rule selects the conflict rule
func (b *Builder) Rule(rule ConflictRule) *Builder {
	b.m.rule = rule
	return b
}

// Intersection adds an intersection with its roads listed clockwise
func (b *Builder) Intersection(id IntersectionID, trafficSignal bool, roads ...RoadID) *Builder {
	if _, exists := b.m.intersections[id]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate intersection %s", id))
		return b
	}
	b.m.intersections[id] = &Intersection{
		ID:            id,
		TrafficSignal: trafficSignal,
		Roads:         slices.Clone(roads),
	}
	return b
}

// Turn adds a turn to its parent intersection
func (b *Builder) Turn(t Turn) *Builder {
	if _, ok := b.m.intersections[t.ID.Parent]; !ok {
		b.errs = append(b.errs, fmt.Errorf("turn %s: %w %d", t.ID, ErrUnknownIntersection, int(t.ID.Parent)))
		return b
	}
	if _, exists := b.m.turns[t.ID]; exists {
		b.errs = append(b.errs, fmt.Errorf("duplicate turn %s", t.ID))
		return b
	}
	b.m.turns[t.ID] = t
	b.m.byParent[t.ID.Parent] = append(b.m.byParent[t.ID.Parent], t.ID)
	return b
}

// Conflict records that two turns may not both hold priority
func (b *Builder) Conflict(x, y TurnID) *Builder {
	if x == y {
		b.errs = append(b.errs, fmt.Errorf("turn %s cannot conflict with itself", x))
		return b
	}
	b.m.conflicts[newTurnPair(x, y)] = struct{}{}
	return b
}

// Build validates and returns the map
func (b *Builder) Build() (*Map, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("invalid map %q: %w", b.m.name, b.errs[0])
	}
	switch b.m.rule {
	case ApproachRule, ExplicitRule:
	default:
		return nil, fmt.Errorf("invalid map %q: unknown conflict rule %q", b.m.name, b.m.rule)
	}
	for pair := range b.m.conflicts {
		for _, id := range []TurnID{pair.a, pair.b} {
			if _, ok := b.m.turns[id]; !ok {
				return nil, fmt.Errorf("invalid map %q: conflict references unknown turn %s", b.m.name, id)
			}
		}
	}
	for parent := range b.m.byParent {
		SortTurnIDs(b.m.byParent[parent])
	}
	return b.m, nil
}

// AddGeneratedIntersection adds an intersection with roadCount roads and a
// regular lane numbering. Road r of intersection i gets id i*10+r; its
// incoming, outgoing and two sidewalk lanes are i*100+r*10+{1,2,3,4}. Every
// incoming lane turns into every other road, each road gets a crosswalk pair
// between its sidewalks, and neighbouring sidewalks share a corner.
func (b *Builder) AddGeneratedIntersection(id IntersectionID, roadCount int, trafficSignal bool) *Builder {
	roads := make([]RoadID, roadCount)
	for r := range roads {
		roads[r] = RoadID(int(id)*10 + r)
	}
	b.Intersection(id, trafficSignal, roads...)

	lane := func(r, kind int) LaneID {
		return LaneID(int(id)*100 + r*10 + kind)
	}
	for r := 0; r < roadCount; r++ {
		for s := 0; s < roadCount; s++ {
			if r == s {
				continue
			}
			b.Turn(Turn{
				ID:      TurnID{Parent: id, Src: lane(r, 1), Dst: lane(s, 2)},
				Type:    vehicleTurnType(r, s, roadCount),
				SrcRoad: roads[r],
				DstRoad: roads[s],
			})
		}
	}
	for r := 0; r < roadCount; r++ {
		left, right := lane(r, 3), lane(r, 4)
		for _, tid := range []TurnID{
			{Parent: id, Src: left, Dst: right},
			{Parent: id, Src: right, Dst: left},
		} {
			b.Turn(Turn{ID: tid, Type: Crosswalk, SrcRoad: roads[r], DstRoad: roads[r]})
		}

		next := (r + 1) % roadCount
		if roadCount < 2 {
			continue
		}
		corner := lane(next, 3)
		for _, tid := range []TurnID{
			{Parent: id, Src: right, Dst: corner},
			{Parent: id, Src: corner, Dst: right},
		} {
			b.Turn(Turn{ID: tid, Type: SharedSidewalkCorner, SrcRoad: roads[r], DstRoad: roads[next]})
		}
	}
	return b
}

// vehicleTurnType classifies a movement from road index r to road index s with
// roads listed clockwise and right-hand traffic
func vehicleTurnType(r, s, n int) TurnType {
	d := (s - r + n) % n
	switch {
	case n%2 == 0 && d == n/2:
		return Straight
	case d <= n/2:
		return Left
	default:
		return Right
	}
}
