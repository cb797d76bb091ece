// Package signaledit is an interactive editor for the signal plan of one road
// intersection. It tracks the active cycle, toggles per-turn priorities under
// the map's conflict rules, reorders, creates and deletes cycles, runs the
// duration and preset wizards, and commits the working plan to the shared
// map-edit overlay on every tick.
package signaledit

import (
	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/observers"
	"github.com/anggasct/signaledit/pkg/signal"
)

// Core types
type (
	// Action is a named discrete input
	Action = core.Action

	// Session identifies one editing session
	Session = core.Session

	// Event describes an applied action
	Event = core.Event

	// WizardKind names a nested input flow
	WizardKind = core.WizardKind

	// WizardOutcome describes how a wizard closed
	WizardOutcome = core.WizardOutcome

	// Observer observes an editing session
	Observer = core.Observer

	// ExtendedObserver provides additional optional observation methods
	ExtendedObserver = core.ExtendedObserver

	// BaseObserver provides no-op observer methods
	BaseObserver = core.BaseObserver
)

// Signal plan types
type (
	// TurnPriority is the permission a cycle grants a turn
	TurnPriority = signal.TurnPriority

	// Cycle is one phase of a signal plan
	Cycle = signal.Cycle

	// ControlTrafficSignal is the signal plan of one intersection
	ControlTrafficSignal = signal.ControlTrafficSignal

	// ConflictOracle answers whether a turn could be granted Priority
	ConflictOracle = signal.ConflictOracle

	// InvariantError reports a broken internal-consistency rule
	InvariantError = signal.InvariantError
)

// Map types
type (
	IntersectionID = mapmodel.IntersectionID
	LaneID         = mapmodel.LaneID
	TurnID         = mapmodel.TurnID
	Turn           = mapmodel.Turn
	TurnType       = mapmodel.TurnType
)

// Re-export observer types
type (
	// LoggingObserver logs editor notifications through slog
	LoggingObserver = observers.LoggingObserver

	// MetricsObserver exports editor metrics to Prometheus
	MetricsObserver = observers.MetricsObserver
)

// Re-export constants
const (
	ActionQuit           = core.ActionQuit
	ActionPreviousCycle  = core.ActionPreviousCycle
	ActionNextCycle      = core.ActionNextCycle
	ActionChangeDuration = core.ActionChangeDuration
	ActionChoosePreset   = core.ActionChoosePreset
	ActionMoveCycleUp    = core.ActionMoveCycleUp
	ActionMoveCycleDown  = core.ActionMoveCycleDown
	ActionDeleteCycle    = core.ActionDeleteCycle
	ActionAddCycle       = core.ActionAddCycle
	ActionAddScramble    = core.ActionAddScramble
	ActionToggle         = core.ActionToggle

	WizardNone     = core.WizardNone
	WizardDuration = core.WizardDuration
	WizardPreset   = core.WizardPreset

	Banned   = signal.Banned
	Yield    = signal.Yield
	Priority = signal.Priority

	// DefaultCycleDuration is the duration of newly created cycles
	DefaultCycleDuration = signal.DefaultCycleDuration
)

// Re-export constructors
var (
	// NewCycle creates an all-Banned cycle
	NewCycle = signal.NewCycle

	// NewControlTrafficSignal creates a plan from cycles
	NewControlTrafficSignal = signal.NewControlTrafficSignal

	// NewOracle builds a pairwise conflict oracle
	NewOracle = signal.NewOracle

	// NewLoggingObserver creates a slog observer
	NewLoggingObserver = observers.NewLoggingObserver

	// NewMetricsObserver creates a Prometheus observer
	NewMetricsObserver = observers.NewMetricsObserver

	// ParseAction resolves an action name or key binding
	ParseAction = core.ParseAction
)
