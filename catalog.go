package signaledit

import (
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

// Preset labels, in the order they are offered
const (
	LabelFourPhase = "four-phase"
	LabelTwoPhase  = "two-phase"
	LabelThreeWay  = "three-phase"
	LabelArbitrary = "arbitrary assignment"
)

// PresetProvider generates pre-built plans for an intersection. The first
// three return an error when the intersection's layout does not fit; greedy
// assignment must always succeed.
type PresetProvider interface {
	FourWayFourPhase(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, error)
	FourWayTwoPhase(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, error)
	ThreeWay(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, error)
	GreedyAssignment(id mapmodel.IntersectionID) (*signal.ControlTrafficSignal, error)
}

// PresetChoice is one labelled candidate plan
type PresetChoice struct {
	Label string
	Plan  *signal.ControlTrafficSignal
}

// Catalog asks the provider for every preset and keeps the ones it returned.
// A failing greedy assignment panics with an InvariantError.
func Catalog(provider PresetProvider, id mapmodel.IntersectionID) []PresetChoice {
	var choices []PresetChoice
	optional := []struct {
		label    string
		generate func(mapmodel.IntersectionID) (*signal.ControlTrafficSignal, error)
	}{
		{LabelFourPhase, provider.FourWayFourPhase},
		{LabelTwoPhase, provider.FourWayTwoPhase},
		{LabelThreeWay, provider.ThreeWay},
	}
	for _, o := range optional {
		if plan, err := o.generate(id); err == nil && plan != nil {
			choices = append(choices, PresetChoice{Label: o.label, Plan: plan})
		}
	}

	fallback, err := provider.GreedyAssignment(id)
	if err != nil || fallback == nil {
		panic(signal.NewMissingFallbackError(id))
	}
	return append(choices, PresetChoice{Label: LabelArbitrary, Plan: fallback})
}
