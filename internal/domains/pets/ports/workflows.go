package ports

import (
	"context"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
)

// WorkflowOrchestrator pushes committed local mutations to the backend.
type WorkflowOrchestrator interface {
	Publish(ctx context.Context, cmd petstypes.PublishCommand) (*petstypes.PublishResult, error)
}
