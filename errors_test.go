package signaledit

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/signal"
)

func TestErrors_ErrorCode(t *testing.T) {
	testCases := []ErrorCode{
		ErrCodeNone,
		ErrCodeInvalidWizardInput,
		ErrCodeUnknownPreset,
		ErrCodeInvalidPreset,
	}

	for i, code := range testCases {
		assert.Equal(t, i, int(code))
	}
}

func TestInputError_Creation(t *testing.T) {
	_, cause := strconv.ParseUint("ten", 10, 64)
	err := NewInvalidDurationError("ten", cause)

	assert.Equal(t, ErrCodeInvalidWizardInput, err.Code)
	assert.Equal(t, core.WizardDuration, err.Wizard)
	assert.Equal(t, "ten", err.Input)
	assert.Contains(t, err.Error(), `"ten" is not a whole number of seconds`)
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	preset := NewUnknownPresetError("five-phase")
	assert.Equal(t, core.WizardPreset, preset.Wizard)
	assert.Contains(t, preset.Error(), `no preset named "five-phase"`)
	assert.Nil(t, preset.Unwrap())

	huge := NewInvalidDurationError("10000000000", signal.ErrDurationOutOfRange)
	assert.Contains(t, huge.Error(), `"10000000000" is more than`)
	assert.ErrorIs(t, huge, signal.ErrDurationOutOfRange)

	foreign := signal.NewInvariantError(signal.ErrCodeForeignPlan, 1, "preset plan belongs to IntersectionID(2)")
	unusable := NewInvalidPresetError(LabelFourPhase, foreign)
	assert.Equal(t, ErrCodeInvalidPreset, unusable.Code)
	assert.Equal(t, core.WizardPreset, unusable.Wizard)
	assert.Contains(t, unusable.Error(), `preset "four-phase" is unusable`)
	assert.ErrorIs(t, unusable, foreign)
}

func TestErrors_Helpers(t *testing.T) {
	wrapped := fmt.Errorf("tick 3: %w", NewUnknownPresetError("x"))

	assert.True(t, IsInputError(wrapped))
	assert.Equal(t, ErrCodeUnknownPreset, GetErrorCode(wrapped))

	plain := errors.New("plain")
	assert.False(t, IsInputError(plain))
	assert.Equal(t, ErrCodeNone, GetErrorCode(plain))
	assert.False(t, IsInputError(ErrSessionEnded))
}
