package signaledit

import (
	"errors"
	"fmt"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/signal"
)

var (
	// ErrNoTrafficSignal is returned when opening an editor on an intersection without a signal
	ErrNoTrafficSignal = errors.New("intersection has no traffic signal")

	// ErrSimulationRunning is returned when opening an editor while the simulation has agents
	ErrSimulationRunning = errors.New("simulation is not empty")

	// ErrSessionEnded is reported by ticks after the session quit
	ErrSessionEnded = errors.New("editing session has ended")
)

// ErrorCode represents recoverable input problems inside a wizard
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// The duration wizard got text that is not a whole number of seconds
	ErrCodeInvalidWizardInput
	// The preset wizard got a label that is not on offer
	ErrCodeUnknownPreset
	// The chosen preset plan cannot replace this intersection's plan
	ErrCodeInvalidPreset
)

// InputError reports an answer a wizard could not accept. The wizard stays open.
type InputError struct {
	Code   ErrorCode
	Wizard core.WizardKind
	Input  string
	Cause  error
}

func (e *InputError) Error() string {
	switch e.Code {
	case ErrCodeUnknownPreset:
		return fmt.Sprintf("input error [%s]: no preset named %q", e.Wizard, e.Input)
	case ErrCodeInvalidPreset:
		return fmt.Sprintf("input error [%s]: preset %q is unusable: %v", e.Wizard, e.Input, e.Cause)
	default:
		if errors.Is(e.Cause, signal.ErrDurationOutOfRange) {
			return fmt.Sprintf("input error [%s]: %q is more than %d seconds", e.Wizard, e.Input, signal.MaxSeconds)
		}
		if e.Cause != nil {
			return fmt.Sprintf("input error [%s]: %q is not a whole number of seconds: %v", e.Wizard, e.Input, e.Cause)
		}
		return fmt.Sprintf("input error [%s]: %q", e.Wizard, e.Input)
	}
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// NewInvalidDurationError creates an error for unparseable duration text
func NewInvalidDurationError(input string, cause error) *InputError {
	return &InputError{
		Code:   ErrCodeInvalidWizardInput,
		Wizard: core.WizardDuration,
		Input:  input,
		Cause:  cause,
	}
}

// NewUnknownPresetError creates an error for a preset label that is not offered
func NewUnknownPresetError(label string) *InputError {
	return &InputError{
		Code:   ErrCodeUnknownPreset,
		Wizard: core.WizardPreset,
		Input:  label,
	}
}

// NewInvalidPresetError creates an error for a preset plan that fails validation
func NewInvalidPresetError(label string, cause error) *InputError {
	return &InputError{
		Code:   ErrCodeInvalidPreset,
		Wizard: core.WizardPreset,
		Input:  label,
		Cause:  cause,
	}
}

// IsInputError checks if an error is an InputError
func IsInputError(err error) bool {
	var e *InputError
	return errors.As(err, &e)
}

// GetErrorCode returns the error code for input errors
func GetErrorCode(err error) ErrorCode {
	var e *InputError
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeNone
}
