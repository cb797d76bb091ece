package signaledit

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/signal"
)

const (
	durationQuestion = "How long should this cycle be?"
	presetQuestion   = "Use which preset for this intersection?"
)

// mode is the editor's top-level mode. Exactly one is active, so at most one
// wizard can be open.
type mode interface {
	kind() core.WizardKind
	prompt() *Prompt
}

type normalMode struct{}

func (normalMode) kind() core.WizardKind { return core.WizardNone }

func (normalMode) prompt() *Prompt { return nil }

// durationWizard edits the duration of the cycle that was active when it opened
type durationWizard struct {
	prefill string
}

func (w *durationWizard) kind() core.WizardKind { return core.WizardDuration }

func (w *durationWizard) prompt() *Prompt {
	return &Prompt{Question: durationQuestion, Prefill: w.prefill}
}

// parse accepts a whole, non-negative number of seconds up to signal.MaxSeconds
func (w *durationWizard) parse(value string) (uint64, error) {
	value = strings.TrimSpace(value)
	seconds, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, NewInvalidDurationError(value, err)
	}
	if seconds > signal.MaxSeconds {
		return 0, NewInvalidDurationError(value, signal.ErrDurationOutOfRange)
	}
	return seconds, nil
}

// presetWizard offers choices computed once when it opened
type presetWizard struct {
	choices []PresetChoice
}

func (w *presetWizard) kind() core.WizardKind { return core.WizardPreset }

func (w *presetWizard) prompt() *Prompt {
	return &Prompt{
		Question: presetQuestion,
		Choices: lo.Map(w.choices, func(c PresetChoice, _ int) string {
			return c.Label
		}),
	}
}

func (w *presetWizard) choose(label string) (PresetChoice, error) {
	label = strings.TrimSpace(label)
	choice, ok := lo.Find(w.choices, func(c PresetChoice) bool {
		return c.Label == label
	})
	if !ok {
		return PresetChoice{}, NewUnknownPresetError(label)
	}
	return choice, nil
}
