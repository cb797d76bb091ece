// Package observers provides observers for monitoring signal editing sessions
package observers

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

// LoggingObserver logs editor notifications as structured records
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer. A nil logger uses slog.Default().
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) with(session *core.Session) *slog.Logger {
	return o.logger.With(
		"session", session.ID.String(),
		"intersection", int(session.Intersection))
}

// OnAction logs applied actions
func (o *LoggingObserver) OnAction(session *core.Session, event *core.Event) {
	args := []any{"action", string(event.Action), "tick", event.Tick}
	for k, v := range event.Metadata {
		args = append(args, k, v)
	}
	o.with(session).Info("Action applied", args...)
}

// OnCommit logs overlay commits at debug level, since they happen every tick
func (o *LoggingObserver) OnCommit(session *core.Session, plan *signal.ControlTrafficSignal, revision uuid.UUID) {
	o.with(session).Debug("Plan committed",
		"revision", revision.String(),
		"cycles", plan.Len(),
		"total_seconds", plan.TotalDuration())
}

// OnSessionStarted logs the start of a session
func (o *LoggingObserver) OnSessionStarted(session *core.Session) {
	o.with(session).Info("Editing session started")
}

// OnSessionEnded logs the end of a session
func (o *LoggingObserver) OnSessionEnded(session *core.Session) {
	o.with(session).Info("Editing session ended")
}

// OnCycleSelected logs active cycle changes
func (o *LoggingObserver) OnCycleSelected(session *core.Session, index int) {
	o.with(session).Debug("Cycle selected", "cycle", index)
}

// OnTurnToggled logs priority changes
func (o *LoggingObserver) OnTurnToggled(session *core.Session, turn mapmodel.TurnID, from, to signal.TurnPriority) {
	o.with(session).Debug("Turn toggled",
		"turn", turn.String(),
		"from", from.String(),
		"to", to.String())
}

// OnWizardOpened logs wizard openings
func (o *LoggingObserver) OnWizardOpened(session *core.Session, wizard core.WizardKind) {
	o.with(session).Debug("Wizard opened", "wizard", string(wizard))
}

// OnWizardClosed logs wizard closings
func (o *LoggingObserver) OnWizardClosed(session *core.Session, wizard core.WizardKind, outcome core.WizardOutcome) {
	o.with(session).Debug("Wizard closed", "wizard", string(wizard), "outcome", string(outcome))
}

// OnError logs recoverable errors
func (o *LoggingObserver) OnError(session *core.Session, err error) {
	o.with(session).Warn("Editor error", "error", err)
}
