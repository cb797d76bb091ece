package mapmodel

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TurnPriority is the map-wide permission level of a turn. Stop is only
// meaningful for stop signs; traffic signal cycles use their own priority type.
type TurnPriority int

const (
	// Stop requires a full stop before proceeding
	Stop TurnPriority = iota
	// Yield allows the movement after yielding to priority turns
	Yield
	// Priority grants right-of-way
	Priority
	// Banned prohibits the movement
	Banned
)

var turnPriorityNames = map[TurnPriority]string{
	Stop:     "Stop",
	Yield:    "Yield",
	Priority: "Priority",
	Banned:   "Banned",
}

func (p TurnPriority) String() string {
	if name, ok := turnPriorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("TurnPriority(%d)", int(p))
}

// ParseTurnPriority parses the String form of a priority
func ParseTurnPriority(s string) (TurnPriority, error) {
	for p, name := range turnPriorityNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown turn priority %q", s)
}

// MarshalYAML encodes the priority by name
func (p TurnPriority) MarshalYAML() (interface{}, error) {
	return p.String(), nil
}

// UnmarshalYAML decodes the priority from its name
func (p *TurnPriority) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseTurnPriority(value.Value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// LaneType is the use a lane is dedicated to
type LaneType int

const (
	// Driving lanes carry general traffic
	Driving LaneType = iota
	// Parking lanes hold parked cars
	Parking
	// Sidewalk lanes carry pedestrians
	Sidewalk
	// Biking lanes carry bikes
	Biking
	// Bus lanes carry buses
	Bus
)

var laneTypeNames = map[LaneType]string{
	Driving:  "Driving",
	Parking:  "Parking",
	Sidewalk: "Sidewalk",
	Biking:   "Biking",
	Bus:      "Bus",
}

func (l LaneType) String() string {
	if name, ok := laneTypeNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LaneType(%d)", int(l))
}

// MarshalYAML encodes the lane type by name
func (l LaneType) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

// UnmarshalYAML decodes the lane type from its name
func (l *LaneType) UnmarshalYAML(value *yaml.Node) error {
	for t, name := range laneTypeNames {
		if name == value.Value {
			*l = t
			return nil
		}
	}
	return fmt.Errorf("unknown lane type %q", value.Value)
}

// ControlStopSign assigns map priorities, Stop included, to the turns of an
// unsignalized intersection
type ControlStopSign struct {
	ID    IntersectionID
	Turns map[TurnID]TurnPriority
}

type stopSignTurn struct {
	Src      LaneID       `yaml:"src"`
	Dst      LaneID       `yaml:"dst"`
	Priority TurnPriority `yaml:"priority"`
}

type stopSignDoc struct {
	ID    IntersectionID `yaml:"id"`
	Turns []stopSignTurn `yaml:"turns"`
}

// MarshalYAML encodes the stop sign as a turn list
func (s ControlStopSign) MarshalYAML() (interface{}, error) {
	doc := stopSignDoc{ID: s.ID}
	for _, id := range SortedTurnIDs(s.Turns) {
		doc.Turns = append(doc.Turns, stopSignTurn{Src: id.Src, Dst: id.Dst, Priority: s.Turns[id]})
	}
	return doc, nil
}

// UnmarshalYAML decodes a stop sign from its turn list
func (s *ControlStopSign) UnmarshalYAML(value *yaml.Node) error {
	var doc stopSignDoc
	if err := value.Decode(&doc); err != nil {
		return err
	}
	s.ID = doc.ID
	s.Turns = make(map[TurnID]TurnPriority, len(doc.Turns))
	for _, t := range doc.Turns {
		s.Turns[TurnID{Parent: doc.ID, Src: t.Src, Dst: t.Dst}] = t.Priority
	}
	return nil
}
