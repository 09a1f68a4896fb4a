package workflows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
)

type recordingRemote struct {
	adopted [2]int64
	deleted int64
}

func (r *recordingRemote) List(context.Context) ([]domain.Pet, error) { return nil, nil }
func (r *recordingRemote) Create(_ context.Context, pet domain.Pet) (domain.Pet, error) {
	return pet, nil
}
func (r *recordingRemote) Update(context.Context, domain.Pet) error { return nil }
func (r *recordingRemote) Delete(_ context.Context, id int64) error {
	r.deleted = id
	return nil
}
func (r *recordingRemote) Adopt(_ context.Context, petID, adopterID int64) error {
	r.adopted = [2]int64{petID, adopterID}
	return nil
}

func TestInlinePetWorkflows_DispatchesByKind(t *testing.T) {
	remote := &recordingRemote{}
	orchestrator := NewInlinePetWorkflows(remote)
	ctx := context.Background()

	result, err := orchestrator.Publish(ctx, petstypes.PublishCommand{Kind: petstypes.PublishCreate, Pet: domain.Pet{ID: 1, Name: "Rex"}})
	require.NoError(t, err)
	require.Equal(t, "Rex", result.Pet.Name)

	_, err = orchestrator.Publish(ctx, petstypes.PublishCommand{Kind: petstypes.PublishDelete, Pet: domain.Pet{ID: 5}})
	require.NoError(t, err)
	require.Equal(t, int64(5), remote.deleted)

	_, err = orchestrator.Publish(ctx, petstypes.PublishCommand{Kind: petstypes.PublishAdopt, Pet: domain.Pet{ID: 2}, AdopterID: 9})
	require.NoError(t, err)
	require.Equal(t, [2]int64{2, 9}, remote.adopted)

	_, err = orchestrator.Publish(ctx, petstypes.PublishCommand{Kind: "archive"})
	require.Error(t, err)
}

func TestInlinePetWorkflows_WithoutBackend(t *testing.T) {
	_, err := NewInlinePetWorkflows(nil).Publish(context.Background(), petstypes.PublishCommand{Kind: petstypes.PublishUpdate})
	require.ErrorIs(t, err, ports.ErrRemote)
}

func TestBuildPublicationWorkflowID(t *testing.T) {
	id := buildPublicationWorkflowID(petstypes.PublishCommand{Kind: petstypes.PublishUpdate, Pet: domain.Pet{ID: 7}, RequestID: "abc"})
	require.Equal(t, "pet-update-7-abc", id)
}
