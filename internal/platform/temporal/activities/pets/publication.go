package pets

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application"
	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	petsports "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
)

// PublishPetActivityName pushes one local catalog mutation to the backend.
const PublishPetActivityName = "pets.activities.PublishPet"

// Activities groups activities that operate on the pets bounded context.
type Activities struct {
	remote petsports.RemoteCatalog
}

// NewActivities wires the backend catalog into the Temporal activities bundle.
func NewActivities(remote petsports.RemoteCatalog) *Activities {
	return &Activities{remote: remote}
}

// PublishPet performs the backend call for cmd. Rejections (4xx) are not retried.
func (a *Activities) PublishPet(ctx context.Context, cmd petstypes.PublishCommand) (*petstypes.PublishResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.remote == nil {
		logger.Error("pet publish activity not initialized", "petId", cmd.Pet.ID)
		return nil, errors.New("pet publish activity not initialized")
	}

	var hb publishHeartbeat
	if activity.HasHeartbeatDetails(ctx) {
		_ = activity.GetHeartbeatDetails(ctx, &hb)
	}
	if hb.Completed {
		logger.Info("PublishPet already completed in prior attempt; skipping", "petId", cmd.Pet.ID, "kind", cmd.Kind)
		return hb.Result, nil
	}

	logger.Info("PublishPet activity started", "petId", cmd.Pet.ID, "kind", cmd.Kind, "requestId", cmd.RequestID)
	result, err := application.PublishToRemote(ctx, a.remote, cmd)
	if err != nil {
		logger.Error("PublishPet activity failed", "petId", cmd.Pet.ID, "kind", cmd.Kind, "error", err)
		if errors.Is(err, petsports.ErrRejected) || errors.Is(err, application.ErrUnknownPublication) {
			return nil, temporal.NewNonRetryableApplicationError(err.Error(), "PetPublicationRejected", err)
		}
		return nil, err
	}
	activity.RecordHeartbeat(ctx, publishHeartbeat{Completed: true, Result: result})
	logger.Info("PublishPet activity completed", "petId", cmd.Pet.ID, "kind", cmd.Kind)
	return result, nil
}

type publishHeartbeat struct {
	Completed bool
	Result    *petstypes.PublishResult
}
