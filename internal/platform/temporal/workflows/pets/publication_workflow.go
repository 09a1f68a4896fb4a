package pets

import (
	"go.temporal.io/sdk/workflow"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/platform/temporal/sequences"
)

const (
	// PetPublicationTaskQueue is the queue the catalog worker polls.
	PetPublicationTaskQueue = "PET_PUBLICATION"
	// PetPublicationWorkflowName is the registered workflow type.
	PetPublicationWorkflowName = "pets.workflows.Publication"
)

// PetPublicationWorkflowInput wraps the command with the caller's trace id.
type PetPublicationWorkflowInput struct {
	Command petstypes.PublishCommand
	TraceID string
}

// PetPublicationWorkflow durably pushes one catalog mutation to the backend.
func PetPublicationWorkflow(ctx workflow.Context, input PetPublicationWorkflowInput) (*petstypes.PublishResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("pet publication workflow started", "kind", input.Command.Kind, "petId", input.Command.Pet.ID, "traceId", input.TraceID)
	return sequences.RunPetPublicationSequence(ctx, input.Command)
}
