// Package events publishes notifications about completed submissions to a
// message broker.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const TypeApplicationSubmitted = "application.submitted"

type ApplicationSubmitted struct {
	Type          string    `json:"type"`
	ApplicationID uuid.UUID `json:"application_id"`
	StudentID     uuid.UUID `json:"student_id"`
	ProjectID     uuid.UUID `json:"project_id"`
	Email         string    `json:"email"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

type Publisher interface {
	PublishApplicationSubmitted(ctx context.Context, event ApplicationSubmitted) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishApplicationSubmitted(context.Context, ApplicationSubmitted) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
