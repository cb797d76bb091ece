package mapmodel

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnknownIntersection is returned when an intersection is not on the map
var ErrUnknownIntersection = errors.New("unknown intersection")

// Intersection is a node of the map where roads meet
type Intersection struct {
	ID            IntersectionID `yaml:"id"`
	TrafficSignal bool           `yaml:"traffic_signal"`
	// Roads are listed clockwise; the order decides which approaches are opposite
	Roads []RoadID `yaml:"roads"`
}

type turnPair struct {
	a, b TurnID
}

func newTurnPair(a, b TurnID) turnPair {
	if b.Less(a) {
		a, b = b, a
	}
	return turnPair{a: a, b: b}
}

// Map is a static, in-memory map: intersections, their turns, and which
// pairs of turns conflict. It is safe for concurrent reads.
type Map struct {
	name          string
	intersections map[IntersectionID]*Intersection
	turns         map[TurnID]Turn
	byParent      map[IntersectionID][]TurnID
	conflicts     map[turnPair]struct{}
	rule          ConflictRule

	mutex sync.RWMutex
}

// Name returns the map name
func (m *Map) Name() string {
	return m.name
}

// Intersection returns the intersection with the given id
func (m *Map) Intersection(id IntersectionID) (*Intersection, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	i, ok := m.intersections[id]
	return i, ok
}

// IntersectionIDs returns every intersection id in ascending order
func (m *Map) IntersectionIDs() []IntersectionID {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	ids := make([]IntersectionID, 0, len(m.intersections))
	for id := range m.intersections {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// HasTrafficSignal reports whether the intersection is signalized
func (m *Map) HasTrafficSignal(id IntersectionID) bool {
	i, ok := m.Intersection(id)
	return ok && i.TrafficSignal
}

// Turn returns the turn with the given id
func (m *Map) Turn(id TurnID) (Turn, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	t, ok := m.turns[id]
	return t, ok
}

// TurnsInIntersection returns the turns of an intersection ordered by id
func (m *Map) TurnsInIntersection(id IntersectionID) []Turn {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	ids := m.byParent[id]
	turns := make([]Turn, 0, len(ids))
	for _, tid := range ids {
		turns = append(turns, m.turns[tid])
	}
	return turns
}

// TurnsConflict reports whether two turns may not both hold priority at once
func (m *Map) TurnsConflict(a, b TurnID) bool {
	if a == b {
		return false
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if _, ok := m.conflicts[newTurnPair(a, b)]; ok {
		return true
	}
	if m.rule != ApproachRule {
		return false
	}
	ta, okA := m.turns[a]
	tb, okB := m.turns[b]
	if !okA || !okB || a.Parent != b.Parent {
		return false
	}
	return approachConflict(ta, tb, m.intersections[a.Parent])
}

// ConflictRule selects how conflicts not listed explicitly are derived
type ConflictRule string

const (
	// ExplicitRule only uses the listed conflict pairs
	ExplicitRule ConflictRule = "explicit"
	// ApproachRule derives conflicts from road approaches and turn types
	ApproachRule ConflictRule = "approach"
)

// approachConflict is a coarse conflict rule over road approaches. Roads are
// clockwise, so with an even road count index i and i+n/2 are opposite.
func approachConflict(a, b Turn, in *Intersection) bool {
	if a.Type == SharedSidewalkCorner || b.Type == SharedSidewalkCorner {
		return false
	}
	if a.Type == Crosswalk && b.Type == Crosswalk {
		return false
	}
	if a.Type == Crosswalk {
		return b.SrcRoad == a.SrcRoad || b.DstRoad == a.SrcRoad
	}
	if b.Type == Crosswalk {
		return a.SrcRoad == b.SrcRoad || a.DstRoad == b.SrcRoad
	}
	if a.SrcRoad == b.SrcRoad {
		return false
	}
	if a.DstRoad == b.DstRoad {
		return true
	}
	if in != nil && opposite(in.Roads, a.SrcRoad, b.SrcRoad) {
		return (a.Type == Left) != (b.Type == Left)
	}
	return !(a.Type == Right && b.Type == Right)
}

func opposite(roads []RoadID, a, b RoadID) bool {
	n := len(roads)
	if n%2 != 0 {
		return false
	}
	ia, ib := slices.Index(roads, a), slices.Index(roads, b)
	if ia < 0 || ib < 0 {
		return false
	}
	return (ia+n/2)%n == ib
}

// SortedTurnIDs returns the keys of a turn-keyed map in ascending order
func SortedTurnIDs[V any](m map[TurnID]V) []TurnID {
	ids := make([]TurnID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	SortTurnIDs(ids)
	return ids
}

// SortTurnIDs sorts turn ids in place
func SortTurnIDs(ids []TurnID) {
	slices.SortFunc(ids, func(a, b TurnID) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
}

// mapDoc is the on-disk YAML layout of a map
type mapDoc struct {
	Name          string          `yaml:"name"`
	ConflictRule  ConflictRule    `yaml:"conflict_rule"`
	Intersections []*Intersection `yaml:"intersections"`
	Turns         []Turn          `yaml:"turns"`
	Conflicts     [][]TurnID      `yaml:"conflicts"`
}

// LoadFromFile reads a map from a YAML file
func LoadFromFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a map from YAML
func Parse(data []byte) (*Map, error) {
	var doc mapDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}

	b := NewBuilder(doc.Name)
	if doc.ConflictRule != "" {
		b.Rule(doc.ConflictRule)
	}
	for _, i := range doc.Intersections {
		b.Intersection(i.ID, i.TrafficSignal, i.Roads...)
	}
	for _, t := range doc.Turns {
		b.Turn(t)
	}
	for i, pair := range doc.Conflicts {
		if len(pair) != 2 {
			return nil, fmt.Errorf("failed to parse map: conflict %d lists %d turns, want 2", i, len(pair))
		}
		b.Conflict(pair[0], pair[1])
	}
	return b.Build()
}

// Marshal encodes the map as YAML
func (m *Map) Marshal() ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	doc := mapDoc{Name: m.name, ConflictRule: m.rule}
	for _, id := range sortedIntersectionIDs(m.intersections) {
		doc.Intersections = append(doc.Intersections, m.intersections[id])
	}
	for _, id := range SortedTurnIDs(m.turns) {
		doc.Turns = append(doc.Turns, m.turns[id])
	}
	for pair := range m.conflicts {
		doc.Conflicts = append(doc.Conflicts, []TurnID{pair.a, pair.b})
	}
	slices.SortFunc(doc.Conflicts, func(x, y []TurnID) int {
		if x[0] != y[0] {
			if x[0].Less(y[0]) {
				return -1
			}
			return 1
		}
		if x[1].Less(y[1]) {
			return -1
		}
		if y[1].Less(x[1]) {
			return 1
		}
		return 0
	})
	return yaml.Marshal(doc)
}

func sortedIntersectionIDs(m map[IntersectionID]*Intersection) []IntersectionID {
	ids := make([]IntersectionID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
