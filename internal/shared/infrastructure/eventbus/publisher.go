// Package eventbus delivers relayed outbox events to a message broker.
package eventbus

import (
	"context"
	"log/slog"
)

// Publisher sends one event to the broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// LogPublisher only logs events. It stands in for a broker in local mode.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.InfoContext(ctx, "event relayed",
		"routing_key", routingKey,
		"size", len(payload),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
