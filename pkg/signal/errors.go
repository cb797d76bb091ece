package signal

import (
	"fmt"

	"github.com/anggasct/signaledit/pkg/mapmodel"
)

// ErrorCode represents specific internal-consistency failures
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// A cycle was asked to hold the Stop priority
	ErrCodeStopInSignal
	// The always-available preset fallback produced nothing
	ErrCodeMissingFallback
	// A plan has no cycles
	ErrCodeEmptyPlan
	// A plan belongs to another intersection
	ErrCodeForeignPlan
	// A priority value outside the known variants
	ErrCodeUnknownPriority
)

var errorCodeNames = map[ErrorCode]string{
	ErrCodeNone:            "none",
	ErrCodeStopInSignal:    "stop_in_signal",
	ErrCodeMissingFallback: "missing_fallback",
	ErrCodeEmptyPlan:       "empty_plan",
	ErrCodeForeignPlan:     "foreign_plan",
	ErrCodeUnknownPriority: "unknown_priority",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// InvariantError reports a broken internal-consistency rule. It is raised
// with panic when found at runtime and returned as an error when found while
// decoding external data.
type InvariantError struct {
	Code         ErrorCode
	Intersection mapmodel.IntersectionID
	Message      string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated [%s] at %s: %s", e.Code, e.Intersection, e.Message)
}

// NewInvariantError creates a new invariant error
func NewInvariantError(code ErrorCode, id mapmodel.IntersectionID, message string) *InvariantError {
	return &InvariantError{
		Code:         code,
		Intersection: id,
		Message:      message,
	}
}

// NewStopInSignalError creates the error for a Stop priority inside a cycle
func NewStopInSignalError(turn mapmodel.TurnID) *InvariantError {
	return &InvariantError{
		Code:         ErrCodeStopInSignal,
		Intersection: turn.Parent,
		Message:      fmt.Sprintf("can't have TurnPriority::Stop in a traffic signal (turn %s)", turn),
	}
}

// NewMissingFallbackError creates the error for a preset fallback that failed
func NewMissingFallbackError(id mapmodel.IntersectionID) *InvariantError {
	return &InvariantError{
		Code:         ErrCodeMissingFallback,
		Intersection: id,
		Message:      "greedy assignment produced no plan",
	}
}

// IsInvariantError checks if an error is an InvariantError
func IsInvariantError(err error) bool {
	_, ok := err.(*InvariantError)
	return ok
}

// GetErrorCode returns the error code for invariant errors
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*InvariantError); ok {
		return e.Code
	}
	return ErrCodeNone
}
