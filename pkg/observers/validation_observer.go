package observers

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/signal"
)

// ValidationObserver checks every committed plan against the map's conflict
// relation and records violations
type ValidationObserver struct {
	core.BaseObserver

	conflicts  signal.Conflicts
	violations []string
	mutex      sync.RWMutex
}

// NewValidationObserver creates a validation observer
func NewValidationObserver(conflicts signal.Conflicts) *ValidationObserver {
	return &ValidationObserver{
		conflicts:  conflicts,
		violations: make([]string, 0),
	}
}

func (o *ValidationObserver) addViolation(message string) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, message)
}

// OnCommit validates the committed plan
func (o *ValidationObserver) OnCommit(session *core.Session, plan *signal.ControlTrafficSignal, revision uuid.UUID) {
	if err := plan.Validate(); err != nil {
		o.addViolation(err.Error())
		return
	}
	for i, c := range plan.Cycles {
		if a, b, found := signal.CheckConflicts(o.conflicts, c); found {
			o.addViolation(fmt.Sprintf("cycle %d grants priority to conflicting turns %s and %s", i+1, a, b))
		}
	}
}

// OnError records editor errors
func (o *ValidationObserver) OnError(session *core.Session, err error) {
	o.addViolation(fmt.Sprintf("error occurred: %v", err))
}

// GetViolations returns all validation violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// HasViolations returns whether any violations occurred
func (o *ValidationObserver) HasViolations() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) > 0
}

// Reset clears recorded violations
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = make([]string, 0)
}
