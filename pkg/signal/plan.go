package signal

import (
	"fmt"

	"github.com/anggasct/signaledit/pkg/mapmodel"
)

// ControlTrafficSignal is the signal plan of one intersection: cycles in
// execution order. A plan always keeps at least one cycle.
type ControlTrafficSignal struct {
	ID     mapmodel.IntersectionID
	Cycles []*Cycle
}

// NewControlTrafficSignal creates a plan from the given cycles
func NewControlTrafficSignal(id mapmodel.IntersectionID, cycles ...*Cycle) *ControlTrafficSignal {
	return &ControlTrafficSignal{ID: id, Cycles: cycles}
}

// Len returns the number of cycles
func (s *ControlTrafficSignal) Len() int {
	return len(s.Cycles)
}

// InsertCycle inserts a cycle at index, shifting later cycles back
func (s *ControlTrafficSignal) InsertCycle(index int, c *Cycle) {
	s.Cycles = append(s.Cycles, nil)
	copy(s.Cycles[index+1:], s.Cycles[index:])
	s.Cycles[index] = c
}

// RemoveCycle removes the cycle at index. Removing the only cycle panics.
func (s *ControlTrafficSignal) RemoveCycle(index int) *Cycle {
	if len(s.Cycles) <= 1 {
		panic(NewInvariantError(ErrCodeEmptyPlan, s.ID, "cannot remove the only cycle"))
	}
	removed := s.Cycles[index]
	s.Cycles = append(s.Cycles[:index], s.Cycles[index+1:]...)
	return removed
}

// SwapCycles exchanges two cycles
func (s *ControlTrafficSignal) SwapCycles(i, j int) {
	s.Cycles[i], s.Cycles[j] = s.Cycles[j], s.Cycles[i]
}

// Clone returns a deep copy
func (s *ControlTrafficSignal) Clone() *ControlTrafficSignal {
	if s == nil {
		return nil
	}
	cycles := make([]*Cycle, len(s.Cycles))
	for i, c := range s.Cycles {
		cycles[i] = c.Clone()
	}
	return &ControlTrafficSignal{ID: s.ID, Cycles: cycles}
}

// Equal reports whether two plans have equal cycles in the same order
func (s *ControlTrafficSignal) Equal(other *ControlTrafficSignal) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.ID != other.ID || len(s.Cycles) != len(other.Cycles) {
		return false
	}
	for i := range s.Cycles {
		if !s.Cycles[i].Equal(other.Cycles[i]) {
			return false
		}
	}
	return true
}

// TotalDuration is the length of one pass through every cycle
func (s *ControlTrafficSignal) TotalDuration() uint64 {
	var total uint64
	for _, c := range s.Cycles {
		total += c.Seconds()
	}
	return total
}

// Validate checks the structural invariants of the plan
func (s *ControlTrafficSignal) Validate() error {
	if len(s.Cycles) == 0 {
		return NewInvariantError(ErrCodeEmptyPlan, s.ID, "signal plan has no cycles")
	}
	for i, c := range s.Cycles {
		if c.Parent != s.ID {
			return NewInvariantError(ErrCodeForeignPlan, s.ID,
				fmt.Sprintf("cycle %d belongs to %s", i, c.Parent))
		}
		if c.Duration < 0 {
			return fmt.Errorf("cycle %d of %s has negative duration %s", i, s.ID, c.Duration)
		}
	}
	return nil
}

// Warnings lists suspicious but legal properties of the plan: empty cycles and
// turns that are banned in every cycle. Shared sidewalk corners are ignored.
func (s *ControlTrafficSignal) Warnings(turns []mapmodel.Turn) []string {
	var warnings []string
	for i, c := range s.Cycles {
		if c.IsEmpty() {
			warnings = append(warnings, fmt.Sprintf("cycle %d is empty", i+1))
		}
	}
	for _, t := range turns {
		if t.Type == mapmodel.SharedSidewalkCorner {
			continue
		}
		served := false
		for _, c := range s.Cycles {
			if c.GetPriority(t.ID) != Banned {
				served = true
				break
			}
		}
		if !served {
			warnings = append(warnings, fmt.Sprintf("%s is banned in every cycle", t.ID))
		}
	}
	return warnings
}
