package overlay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/anggasct/signaledit/pkg/signal"
)

// DefaultSubjectPrefix is the subject prefix plans are published under
const DefaultSubjectPrefix = "signaledit.plan"

// Publisher is the part of a NATS connection the publisher needs
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ConnectNATS dials a NATS server for publishing applied plans
func ConnectNATS(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return nc, nil
}

// PlanMessage is the JSON payload published for each applied plan
type PlanMessage struct {
	Revision     string                       `json:"revision"`
	Intersection int                          `json:"intersection"`
	EditsName    string                       `json:"edits_name"`
	Timestamp    time.Time                    `json:"timestamp"`
	Plan         *signal.ControlTrafficSignal `json:"plan"`
}

// NATSPublisher is an overlay observer that publishes every applied plan on
// <prefix>.<intersection> so a remote simulation can pick it up
type NATSPublisher struct {
	pub    Publisher
	prefix string
	logger *slog.Logger
}

// NewNATSPublisher creates a publisher. An empty prefix uses DefaultSubjectPrefix.
func NewNATSPublisher(pub Publisher, prefix string, logger *slog.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{pub: pub, prefix: prefix, logger: logger}
}

// Subject returns the subject used for an intersection
func (p *NATSPublisher) Subject(event AppliedEvent) string {
	return fmt.Sprintf("%s.%d", p.prefix, int(event.Intersection))
}

// OnApplied publishes the event's plan
func (p *NATSPublisher) OnApplied(event AppliedEvent) {
	data, err := json.Marshal(PlanMessage{
		Revision:     event.Revision.String(),
		Intersection: int(event.Intersection),
		EditsName:    event.EditsName,
		Timestamp:    event.Timestamp,
		Plan:         event.Plan,
	})
	if err != nil {
		p.logger.Error("Failed to encode plan", "intersection", int(event.Intersection), "error", err)
		return
	}
	subject := p.Subject(event)
	if err := p.pub.Publish(subject, data); err != nil {
		p.logger.Warn("Failed to publish plan", "subject", subject, "error", err)
		return
	}
	p.logger.Debug("Published plan", "subject", subject, "revision", event.Revision)
}
