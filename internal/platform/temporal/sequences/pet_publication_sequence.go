package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	petactivities "github.com/Apurer/pet-adoption-catalog/internal/platform/temporal/activities/pets"
)

// PublishActivityOptions bounds one backend call and retries transient failures.
var PublishActivityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 30 * time.Second,
	RetryPolicy: &temporal.RetryPolicy{
		InitialInterval:        time.Second,
		BackoffCoefficient:     2.0,
		MaximumInterval:        10 * time.Second,
		MaximumAttempts:        4,
		NonRetryableErrorTypes: []string{"PetPublicationRejected"},
	},
}

// RunPetPublicationSequence pushes a committed catalog mutation to the backend.
func RunPetPublicationSequence(ctx workflow.Context, cmd petstypes.PublishCommand) (*petstypes.PublishResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("pet publication sequence started", "petId", cmd.Pet.ID, "kind", cmd.Kind)

	var result petstypes.PublishResult
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, PublishActivityOptions), petactivities.PublishPetActivityName, cmd).Get(ctx, &result)
	if err != nil {
		logger.Error("pet publication sequence failed", "petId", cmd.Pet.ID, "kind", cmd.Kind, "error", err)
		return nil, err
	}
	logger.Info("pet publication sequence completed", "petId", cmd.Pet.ID, "kind", cmd.Kind)
	return &result, nil
}
