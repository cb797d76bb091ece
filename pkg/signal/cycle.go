package signal

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"time"

	"github.com/anggasct/signaledit/pkg/mapmodel"
)

// DefaultCycleDuration is the duration given to newly created cycles
const DefaultCycleDuration = 30 * time.Second

// MaxSeconds is the longest cycle a time.Duration can hold, in whole seconds
const MaxSeconds = uint64(math.MaxInt64 / int64(time.Second))

// ErrDurationOutOfRange is returned for a cycle longer than MaxSeconds
var ErrDurationOutOfRange = errors.New("cycle duration out of range")

// Cycle is one time-boxed configuration of turn permissions. Turns not in the
// mapping are Banned.
type Cycle struct {
	Parent   mapmodel.IntersectionID
	Duration time.Duration

	turns map[mapmodel.TurnID]TurnPriority
}

// NewCycle creates an all-Banned cycle
func NewCycle(parent mapmodel.IntersectionID, duration time.Duration) *Cycle {
	return &Cycle{
		Parent:   parent,
		Duration: duration,
		turns:    make(map[mapmodel.TurnID]TurnPriority),
	}
}

// GetPriority returns the priority of a turn during this cycle
func (c *Cycle) GetPriority(turn mapmodel.TurnID) TurnPriority {
	if p, ok := c.turns[turn]; ok {
		return p
	}
	return Banned
}

// EditTurn sets the priority of a turn. Banned removes the turn from the mapping.
func (c *Cycle) EditTurn(turn mapmodel.TurnID, p TurnPriority) {
	if turn.Parent != c.Parent {
		panic(NewInvariantError(ErrCodeForeignPlan, c.Parent,
			fmt.Sprintf("turn %s does not belong to this cycle's intersection", turn)))
	}
	if c.turns == nil {
		c.turns = make(map[mapmodel.TurnID]TurnPriority)
	}
	switch p {
	case Banned:
		delete(c.turns, turn)
	case Yield, Priority:
		c.turns[turn] = p
	default:
		panic(NewInvariantError(ErrCodeUnknownPriority, c.Parent, fmt.Sprintf("turn %s: %s", turn, p)))
	}
}

// PriorityTurns returns the turns with right-of-way, ordered by id
func (c *Cycle) PriorityTurns() []mapmodel.TurnID {
	return c.turnsWith(Priority)
}

// YieldTurns returns the yielding turns, ordered by id
func (c *Cycle) YieldTurns() []mapmodel.TurnID {
	return c.turnsWith(Yield)
}

func (c *Cycle) turnsWith(p TurnPriority) []mapmodel.TurnID {
	var ids []mapmodel.TurnID
	for id, got := range c.turns {
		if got == p {
			ids = append(ids, id)
		}
	}
	mapmodel.SortTurnIDs(ids)
	return ids
}

// IsEmpty reports whether every turn is Banned
func (c *Cycle) IsEmpty() bool {
	return len(c.turns) == 0
}

// Seconds returns the duration in whole seconds
func (c *Cycle) Seconds() uint64 {
	if c.Duration <= 0 {
		return 0
	}
	return uint64(c.Duration / time.Second)
}

// SetSeconds sets the duration to a whole number of seconds. Values above
// MaxSeconds leave the cycle unchanged.
func (c *Cycle) SetSeconds(seconds uint64) error {
	if seconds > MaxSeconds {
		return fmt.Errorf("%d seconds: %w", seconds, ErrDurationOutOfRange)
	}
	c.Duration = time.Duration(seconds) * time.Second
	return nil
}

// Clone returns a deep copy
func (c *Cycle) Clone() *Cycle {
	return &Cycle{
		Parent:   c.Parent,
		Duration: c.Duration,
		turns:    maps.Clone(c.turns),
	}
}

// Equal reports whether two cycles grant the same priorities for the same duration
func (c *Cycle) Equal(other *Cycle) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.Parent != other.Parent || c.Duration != other.Duration || len(c.turns) != len(other.turns) {
		return false
	}
	for id, p := range c.turns {
		if other.turns[id] != p {
			return false
		}
	}
	return true
}
