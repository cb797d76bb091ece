package observers

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/anggasct/signaledit/pkg/core"
	"github.com/anggasct/signaledit/pkg/mapmodel"
	"github.com/anggasct/signaledit/pkg/signal"
)

const metricsNamespace = "signaledit"

// MetricsObserver exports editor activity as Prometheus metrics
type MetricsObserver struct {
	actions  *prometheus.CounterVec
	toggles  *prometheus.CounterVec
	wizards  *prometheus.CounterVec
	commits  prometheus.Counter
	errors   prometheus.Counter
	sessions prometheus.Gauge
	cycles   *prometheus.GaugeVec
}

// NewMetricsObserver creates a metrics observer and registers its collectors.
// A nil registerer uses prometheus.DefaultRegisterer. Collectors that are
// already registered are reused.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &MetricsObserver{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "actions_total",
			Help:      "Editor actions applied, by action.",
		}, []string{"action"}),
		toggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "turn_toggles_total",
			Help:      "Turn priority changes, by previous and new priority.",
		}, []string{"from", "to"}),
		wizards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "wizards_closed_total",
			Help:      "Closed wizards, by kind and outcome.",
		}, []string{"wizard", "outcome"}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "commits_total",
			Help:      "Working plans committed to the overlay.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Recoverable editor errors.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "active_sessions",
			Help:      "Editing sessions currently open.",
		}),
		cycles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "plan_cycles",
			Help:      "Cycles in the last committed plan, by intersection.",
		}, []string{"intersection"}),
	}

	var err error
	o.actions = register(reg, o.actions, &err)
	o.toggles = register(reg, o.toggles, &err)
	o.wizards = register(reg, o.wizards, &err)
	o.commits = register(reg, o.commits, &err)
	o.errors = register(reg, o.errors, &err)
	o.sessions = register(reg, o.sessions, &err)
	o.cycles = register(reg, o.cycles, &err)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C, firstErr *error) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		if *firstErr == nil {
			*firstErr = err
		}
	}
	return c
}

// OnAction counts applied actions
func (o *MetricsObserver) OnAction(session *core.Session, event *core.Event) {
	o.actions.WithLabelValues(string(event.Action)).Inc()
}

// OnCommit counts commits and records the plan size
func (o *MetricsObserver) OnCommit(session *core.Session, plan *signal.ControlTrafficSignal, revision uuid.UUID) {
	o.commits.Inc()
	o.cycles.WithLabelValues(strconv.Itoa(int(session.Intersection))).Set(float64(plan.Len()))
}

func (o *MetricsObserver) OnSessionStarted(session *core.Session) {
	o.sessions.Inc()
}

func (o *MetricsObserver) OnSessionEnded(session *core.Session) {
	o.sessions.Dec()
}

func (o *MetricsObserver) OnCycleSelected(session *core.Session, index int) {}

// OnTurnToggled counts priority changes
func (o *MetricsObserver) OnTurnToggled(session *core.Session, turn mapmodel.TurnID, from, to signal.TurnPriority) {
	o.toggles.WithLabelValues(from.String(), to.String()).Inc()
}

func (o *MetricsObserver) OnWizardOpened(session *core.Session, wizard core.WizardKind) {}

// OnWizardClosed counts wizard outcomes
func (o *MetricsObserver) OnWizardClosed(session *core.Session, wizard core.WizardKind, outcome core.WizardOutcome) {
	o.wizards.WithLabelValues(string(wizard), string(outcome)).Inc()
}

// OnError counts recoverable errors
func (o *MetricsObserver) OnError(session *core.Session, err error) {
	o.errors.Inc()
}
