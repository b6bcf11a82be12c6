// Package events publishes assessment outcomes to the message broker.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/okian/burnrisk/internal/domain/model"
)

// DefaultSubject is the subject scored assessments are published on.
const DefaultSubject = "burnrisk.assessments.scored"

// Sentinel errors.
var (
	ErrConnect = errors.New("event broker connect failed")
	ErrPublish = errors.New("event publish failed")
	ErrClosed  = errors.New("publisher closed")
)

// Publisher delivers assessment events.
type Publisher interface {
	Publish(ctx context.Context, e model.AssessmentScored) error
	Close() error
}

// Encode renders an event as its wire payload.
func Encode(e model.AssessmentScored) ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses a wire payload.
func Decode(data []byte) (model.AssessmentScored, error) {
	var e model.AssessmentScored
	err := json.Unmarshal(data, &e)
	return e, err
}

// NATSPublisher publishes events as JSON on a NATS subject.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// Option configures a NATSPublisher.
type Option func(*natsOptions)

type natsOptions struct {
	subject string
	name    string
}

// WithSubject overrides DefaultSubject.
func WithSubject(subject string) Option {
	return func(o *natsOptions) {
		if subject != "" {
			o.subject = subject
		}
	}
}

// WithClientName sets the connection name shown by the server.
func WithClientName(name string) Option {
	return func(o *natsOptions) {
		if name != "" {
			o.name = name
		}
	}
}

// NewNATSPublisher connects to url. The connection retries in the background
// when the server is not yet reachable.
func NewNATSPublisher(url string, opts ...Option) (*NATSPublisher, error) {
	o := natsOptions{subject: DefaultSubject, name: "burnrisk"}
	for _, opt := range opts {
		opt(&o)
	}

	nc, err := nats.Connect(url,
		nats.Name(o.name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	return &NATSPublisher{conn: nc, subject: o.subject}, nil
}

// Subject returns the subject events are published on.
func (p *NATSPublisher) Subject() string {
	return p.subject
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, e model.AssessmentScored) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.conn.IsClosed() {
		return ErrClosed
	}
	payload, err := Encode(e)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublish, p.subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn.IsClosed() {
		return nil
	}
	return p.conn.Drain()
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, model.AssessmentScored) error { return nil }

// Close implements Publisher.
func (NopPublisher) Close() error { return nil }
