package mapmodel

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TurnType classifies a turn
type TurnType int

const (
	// Straight crosses the intersection without changing heading
	Straight TurnType = iota
	// Right turns toward the near side
	Right
	// Left turns across opposing traffic
	Left
	// Crosswalk moves pedestrians across one road
	Crosswalk
	// SharedSidewalkCorner connects two sidewalks around a corner
	SharedSidewalkCorner
)

var turnTypeNames = map[TurnType]string{
	Straight:             "Straight",
	Right:                "Right",
	Left:                 "Left",
	Crosswalk:            "Crosswalk",
	SharedSidewalkCorner: "SharedSidewalkCorner",
}

func (t TurnType) String() string {
	if name, ok := turnTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TurnType(%d)", int(t))
}

// ParseTurnType parses the String form of a turn type
func ParseTurnType(s string) (TurnType, error) {
	for t, name := range turnTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown turn type %q", s)
}

// MarshalYAML encodes the turn type by name
func (t TurnType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML decodes the turn type from its name
func (t *TurnType) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseTurnType(value.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Turn is a single permitted movement through an intersection together with
// the roads it connects
type Turn struct {
	ID      TurnID   `yaml:",inline"`
	Type    TurnType `yaml:"type"`
	SrcRoad RoadID   `yaml:"src_road"`
	DstRoad RoadID   `yaml:"dst_road"`
}

// BetweenSidewalks reports whether the turn is a pedestrian movement
func (t Turn) BetweenSidewalks() bool {
	return t.Type == Crosswalk || t.Type == SharedSidewalkCorner
}

// IsVehicle reports whether the turn is a vehicle movement
func (t Turn) IsVehicle() bool {
	return !t.BetweenSidewalks()
}
