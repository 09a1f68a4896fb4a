// Package natsevents publishes catalog domain events on NATS subjects.
package natsevents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
)

// DefaultSubjectPrefix namespaces every catalog event subject.
const DefaultSubjectPrefix = "adoption"

var _ ports.EventPublisher = (*Publisher)(nil)

// Conn is the subset of *nats.Conn the publisher needs.
type Conn interface {
	PublishMsg(msg *nats.Msg) error
}

// Publisher sends each domain event as one message on <prefix>.<event name>.
type Publisher struct {
	conn   Conn
	prefix string
	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithSubjectPrefix overrides DefaultSubjectPrefix.
func WithSubjectPrefix(prefix string) Option {
	return func(p *Publisher) {
		if prefix = strings.Trim(strings.TrimSpace(prefix), "."); prefix != "" {
			p.prefix = prefix
		}
	}
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPublisher wires a NATS connection into the event port.
func NewPublisher(conn Conn, opts ...Option) *Publisher {
	p := &Publisher{
		conn:   conn,
		prefix: DefaultSubjectPrefix,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Subject returns the subject an event is published on.
func (p *Publisher) Subject(event domain.Event) string {
	return p.prefix + "." + event.EventName()
}

// Publish sends every event, continuing past failures and joining their errors.
func (p *Publisher) Publish(ctx context.Context, events ...domain.Event) error {
	if p == nil || p.conn == nil {
		return errors.New("nats publisher not configured")
	}
	var errs []error
	for _, event := range events {
		if event == nil {
			continue
		}
		data, err := json.Marshal(event)
		if err != nil {
			errs = append(errs, fmt.Errorf("encode %s: %w", event.EventName(), err))
			continue
		}
		msg := nats.NewMsg(p.Subject(event))
		msg.Data = data
		msg.Header.Set("Nats-Msg-Id", uuid.NewString())
		msg.Header.Set("Content-Type", "application/json")
		msg.Header.Set("Event-Occurred-At", event.OccurredAt().UTC().Format(time.RFC3339Nano))
		if err := p.conn.PublishMsg(msg); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", msg.Subject, err))
			continue
		}
		p.logger.DebugContext(ctx, "domain event published", slog.String("subject", msg.Subject))
	}
	return errors.Join(errs...)
}

// Connect dials NATS with the reconnect policy used by the services.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	nc, err := nats.Connect(url,
		nats.Name("pet-adoption-catalog"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			logger.Warn("nats error", slog.String("error", err.Error()))
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return nc, nil
}
