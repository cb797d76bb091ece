package signal

import "github.com/anggasct/signaledit/pkg/mapmodel"

// ConflictOracle answers whether a turn could be granted Priority within a
// cycle without running alongside a conflicting Priority movement
type ConflictOracle interface {
	CouldBePriorityTurn(turn mapmodel.TurnID, cycle *Cycle) bool
}

// Conflicts is the pairwise conflict relation of a map
type Conflicts interface {
	TurnsConflict(a, b mapmodel.TurnID) bool
}

// ConflictOracleFunc adapts a function to ConflictOracle
type ConflictOracleFunc func(turn mapmodel.TurnID, cycle *Cycle) bool

// CouldBePriorityTurn calls f
func (f ConflictOracleFunc) CouldBePriorityTurn(turn mapmodel.TurnID, cycle *Cycle) bool {
	return f(turn, cycle)
}

type pairwiseOracle struct {
	conflicts Conflicts
}

// NewOracle builds an oracle that refuses Priority when any other Priority
// turn of the cycle conflicts with the candidate
func NewOracle(conflicts Conflicts) ConflictOracle {
	return &pairwiseOracle{conflicts: conflicts}
}

func (o *pairwiseOracle) CouldBePriorityTurn(turn mapmodel.TurnID, cycle *Cycle) bool {
	for id, p := range cycle.turns {
		if p != Priority || id == turn {
			continue
		}
		if o.conflicts.TurnsConflict(turn, id) {
			return false
		}
	}
	return true
}

// CheckConflicts returns the first pair of Priority turns in the cycle that
// conflict, if any
func CheckConflicts(conflicts Conflicts, cycle *Cycle) (mapmodel.TurnID, mapmodel.TurnID, bool) {
	ids := cycle.PriorityTurns()
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			if conflicts.TurnsConflict(ids[i], ids[j]) {
				return ids[i], ids[j], true
			}
		}
	}
	return mapmodel.TurnID{}, mapmodel.TurnID{}, false
}
