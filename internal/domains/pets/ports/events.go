package ports

import (
	"context"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

// EventPublisher fans domain events out to interested subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// NoopPublisher drops every event.
var NoopPublisher EventPublisher = noopPublisher{}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, ...domain.Event) error { return nil }
