package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/student-management-api/internal/dto"
)

// Student lifecycle actions, also used as subject suffixes.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// StudentEvent is the payload published after a successful mutation.
type StudentEvent struct {
	Action     string              `json:"action"`
	Student    dto.StudentResponse `json:"student"`
	OccurredAt time.Time           `json:"occurredAt"`
}

// Publisher sends student lifecycle events to NATS.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// Connect dials the NATS server at url and returns a publisher rooted at subject.
func Connect(url, subject string, logger zerolog.Logger) (*Publisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("nats url must not be empty")
	}

	conn, err := nats.Connect(url, nats.Name("student-management-api"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	publisher := NewPublisher(conn, subject, logger)
	publisher.logger.Info().Str("url", url).Str("subject", publisher.subject).Msg("nats publisher initialized")

	return publisher, nil
}

// NewPublisher wraps an established connection.
func NewPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) *Publisher {
	subject = strings.Trim(strings.TrimSpace(subject), ".")
	if subject == "" {
		subject = "students.events"
	}

	return &Publisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "student_events").Logger(),
	}
}

// Subject returns the subject an action is published on.
func (p *Publisher) Subject(action string) string {
	return p.subject + "." + action
}

// PublishStudentEvent publishes event on <subject>.<action>.
func (p *Publisher) PublishStudentEvent(ctx context.Context, event StudentEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal student event: %w", err)
	}

	subject := p.Subject(event.Action)
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.logger.Debug().Str("subject", subject).Int64("student_id", event.Student.ID).Msg("student event published")
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to drain nats connection")
		p.conn.Close()
	}
}
