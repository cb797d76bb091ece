// Package mapmodel provides the read-only map data the signal editor consumes:
// intersection, lane and turn identities, turn classification, and a static
// in-memory map used by fixtures, the CLI and the examples.
package mapmodel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IntersectionID identifies an intersection
type IntersectionID int

// LaneID identifies a lane
type LaneID int

// RoadID identifies a road meeting an intersection
type RoadID int

func (id IntersectionID) String() string {
	return fmt.Sprintf("IntersectionID(%d)", int(id))
}

func (id LaneID) String() string {
	return fmt.Sprintf("LaneID(%d)", int(id))
}

func (id RoadID) String() string {
	return fmt.Sprintf("RoadID(%d)", int(id))
}

// TurnID is the immutable identity of a turn: a movement from one lane into
// another through a parent intersection
type TurnID struct {
	Parent IntersectionID `yaml:"parent" json:"parent"`
	Src    LaneID         `yaml:"src" json:"src"`
	Dst    LaneID         `yaml:"dst" json:"dst"`
}

func (t TurnID) String() string {
	return fmt.Sprintf("TurnID(%d, %d, %d)", int(t.Src), int(t.Dst), int(t.Parent))
}

// Less orders turns by parent, then source lane, then destination lane
func (t TurnID) Less(other TurnID) bool {
	if t.Parent != other.Parent {
		return t.Parent < other.Parent
	}
	if t.Src != other.Src {
		return t.Src < other.Src
	}
	return t.Dst < other.Dst
}

// Reverse returns the turn going the opposite way between the same lanes
func (t TurnID) Reverse() TurnID {
	return TurnID{Parent: t.Parent, Src: t.Dst, Dst: t.Src}
}

// ErrInvalidTurnID is returned when a turn reference cannot be parsed
var ErrInvalidTurnID = errors.New("invalid turn id")

// ParseTurnID parses "src-dst" or "src->dst" into a turn of the given intersection
func ParseTurnID(parent IntersectionID, s string) (TurnID, error) {
	s = strings.TrimSpace(s)
	sep := "->"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return TurnID{}, fmt.Errorf("%w: %q", ErrInvalidTurnID, s)
	}
	src, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return TurnID{}, fmt.Errorf("%w: %q: %v", ErrInvalidTurnID, s, err)
	}
	dst, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return TurnID{}, fmt.Errorf("%w: %q: %v", ErrInvalidTurnID, s, err)
	}
	return TurnID{Parent: parent, Src: LaneID(src), Dst: LaneID(dst)}, nil
}
