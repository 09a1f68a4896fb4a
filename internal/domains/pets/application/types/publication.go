package types

import (
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

// PublishKind names the backend mutation a publication performs.
type PublishKind string

const (
	PublishCreate PublishKind = "create"
	PublishUpdate PublishKind = "update"
	PublishDelete PublishKind = "delete"
	PublishAdopt  PublishKind = "adopt"
)

// PublishCommand describes one local mutation that must reach the backend.
type PublishCommand struct {
	Kind      PublishKind
	Pet       domain.Pet
	AdopterID int64
	// RequestID groups retries of the same command.
	RequestID string
}

// PublishResult carries what the backend answered.
type PublishResult struct {
	Pet *domain.Pet
}
