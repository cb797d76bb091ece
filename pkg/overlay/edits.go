// Package overlay holds the shared map-edit overlay: the named edit set the
// signal editor writes to, and the machinery that re-applies it to observers.
package overlay

import (
	"fmt"
	"maps"

	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

// NoEditsName names an edit set that has not been saved under a real name
const NoEditsName = "no_edits"

// MapEdits is a named bundle of overrides on top of a base map
type MapEdits struct {
	MapName                string                                                   `yaml:"map_name" json:"map_name"`
	EditsName              string                                                   `yaml:"edits_name" json:"edits_name"`
	LaneOverrides          map[mapmodel.LaneID]mapmodel.LaneType                    `yaml:"lane_overrides,omitempty" json:"-"`
	StopSignOverrides      map[mapmodel.IntersectionID]mapmodel.ControlStopSign     `yaml:"stop_sign_overrides,omitempty" json:"-"`
	TrafficSignalOverrides map[mapmodel.IntersectionID]*signal.ControlTrafficSignal `yaml:"traffic_signal_overrides,omitempty" json:"traffic_signal_overrides,omitempty"`
}

// NewMapEdits creates an empty, unnamed edit set for a map
func NewMapEdits(mapName string) *MapEdits {
	return &MapEdits{
		MapName:                mapName,
		EditsName:              NoEditsName,
		LaneOverrides:          make(map[mapmodel.LaneID]mapmodel.LaneType),
		StopSignOverrides:      make(map[mapmodel.IntersectionID]mapmodel.ControlStopSign),
		TrafficSignalOverrides: make(map[mapmodel.IntersectionID]*signal.ControlTrafficSignal),
	}
}

// Describe summarizes the edit set
func (e *MapEdits) Describe() string {
	return fmt.Sprintf("map edits %q (%d lanes, %d stop signs, %d traffic signals)",
		e.EditsName, len(e.LaneOverrides), len(e.StopSignOverrides), len(e.TrafficSignalOverrides))
}

// Clone returns a deep copy
func (e *MapEdits) Clone() *MapEdits {
	clone := &MapEdits{
		MapName:                e.MapName,
		EditsName:              e.EditsName,
		LaneOverrides:          maps.Clone(e.LaneOverrides),
		StopSignOverrides:      make(map[mapmodel.IntersectionID]mapmodel.ControlStopSign, len(e.StopSignOverrides)),
		TrafficSignalOverrides: make(map[mapmodel.IntersectionID]*signal.ControlTrafficSignal, len(e.TrafficSignalOverrides)),
	}
	if clone.LaneOverrides == nil {
		clone.LaneOverrides = make(map[mapmodel.LaneID]mapmodel.LaneType)
	}
	for id, ss := range e.StopSignOverrides {
		clone.StopSignOverrides[id] = mapmodel.ControlStopSign{ID: ss.ID, Turns: maps.Clone(ss.Turns)}
	}
	for id, plan := range e.TrafficSignalOverrides {
		clone.TrafficSignalOverrides[id] = plan.Clone()
	}
	return clone
}

// IsEmpty reports whether the edit set overrides nothing
func (e *MapEdits) IsEmpty() bool {
	return len(e.LaneOverrides) == 0 && len(e.StopSignOverrides) == 0 && len(e.TrafficSignalOverrides) == 0
}

func (e *MapEdits) ensureMaps() {
	if e.LaneOverrides == nil {
		e.LaneOverrides = make(map[mapmodel.LaneID]mapmodel.LaneType)
	}
	if e.StopSignOverrides == nil {
		e.StopSignOverrides = make(map[mapmodel.IntersectionID]mapmodel.ControlStopSign)
	}
	if e.TrafficSignalOverrides == nil {
		e.TrafficSignalOverrides = make(map[mapmodel.IntersectionID]*signal.ControlTrafficSignal)
	}
}
