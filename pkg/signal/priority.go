// Package signal holds traffic signal plans: ordered cycles of per-turn
// priorities for one intersection.
package signal

import (
	"fmt"

	"github.com/anggasct/signaledit/pkg/mapmodel"
)

// TurnPriority is the permission a cycle grants a turn. It has no Stop
// variant: stop control is not expressible inside a signal.
type TurnPriority uint8

const (
	// Banned prohibits the turn during the cycle
	Banned TurnPriority = iota
	// Yield allows the turn after yielding to priority turns
	Yield
	// Priority gives the turn right-of-way
	Priority
)

func (p TurnPriority) String() string {
	switch p {
	case Banned:
		return "Banned"
	case Yield:
		return "Yield"
	case Priority:
		return "Priority"
	default:
		return fmt.Sprintf("TurnPriority(%d)", uint8(p))
	}
}

// MapPriority converts to the map-wide priority type
func (p TurnPriority) MapPriority() mapmodel.TurnPriority {
	switch p {
	case Yield:
		return mapmodel.Yield
	case Priority:
		return mapmodel.Priority
	default:
		return mapmodel.Banned
	}
}

// FromMapPriority converts a map-wide priority into a cycle priority. Stop
// yields an ErrCodeStopInSignal InvariantError.
func FromMapPriority(turn mapmodel.TurnID, p mapmodel.TurnPriority) (TurnPriority, error) {
	switch p {
	case mapmodel.Banned:
		return Banned, nil
	case mapmodel.Yield:
		return Yield, nil
	case mapmodel.Priority:
		return Priority, nil
	case mapmodel.Stop:
		return Banned, NewStopInSignalError(turn)
	default:
		return Banned, NewInvariantError(ErrCodeUnknownPriority, turn.Parent, fmt.Sprintf("turn %s has %s", turn, p))
	}
}

// MustFromMapPriority is FromMapPriority for priorities already inside the
// signal model. It panics on Stop.
func MustFromMapPriority(turn mapmodel.TurnID, p mapmodel.TurnPriority) TurnPriority {
	pri, err := FromMapPriority(turn, p)
	if err != nil {
		panic(err)
	}
	return pri
}

// ParsePriority parses the String form of a cycle priority. "Stop" is
// reported as an InvariantError rather than an unknown name.
func ParsePriority(turn mapmodel.TurnID, s string) (TurnPriority, error) {
	mp, err := mapmodel.ParseTurnPriority(s)
	if err != nil {
		return Banned, err
	}
	return FromMapPriority(turn, mp)
}
