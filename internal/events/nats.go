package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
}

func NewNATSPublisher(url string, subject string, logger *slog.Logger) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("project-launchpad"), nats.Timeout(2*time.Second))
	if err != nil {
		return nil, err
	}

	logger.Info("NATS publisher initialized", "url", url, "subject", subject)

	return &NATSPublisher{
		conn:    nc,
		subject: subject,
		logger:  logger,
	}, nil
}

func (p *NATSPublisher) PublishApplicationSubmitted(ctx context.Context, event ApplicationSubmitted) error {
	event.Type = TypeApplicationSubmitted
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := nats.NewMsg(p.subject)
	msg.Header.Set("Event-Type", TypeApplicationSubmitted)
	msg.Data = payload

	if err := p.conn.PublishMsg(msg); err != nil {
		return err
	}
	// With a deadline, wait for the server to acknowledge the buffered publish.
	if _, ok := ctx.Deadline(); ok {
		if err := p.conn.FlushWithContext(ctx); err != nil {
			return err
		}
	}

	p.logger.DebugContext(ctx, "event published to NATS", "subject", p.subject, "application_id", event.ApplicationID)
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
