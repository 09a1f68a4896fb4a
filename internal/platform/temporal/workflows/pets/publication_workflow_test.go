package pets

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	petactivities "github.com/Apurer/pet-adoption-catalog/internal/platform/temporal/activities/pets"
)

type stubRemote struct {
	creates atomic.Int32
	err     error
}

func (s *stubRemote) List(context.Context) ([]domain.Pet, error) { return nil, nil }
func (s *stubRemote) Create(_ context.Context, pet domain.Pet) (domain.Pet, error) {
	s.creates.Add(1)
	if s.err != nil {
		return domain.Pet{}, s.err
	}
	pet.ID = 42
	return pet, nil
}
func (s *stubRemote) Update(context.Context, domain.Pet) error { return s.err }
func (s *stubRemote) Delete(context.Context, int64) error { return s.err }
func (s *stubRemote) Adopt(context.Context, int64, int64) error { return s.err }

func newEnv(t *testing.T, remote ports.RemoteCatalog) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := petactivities.NewActivities(remote)
	env.RegisterActivityWithOptions(acts.PublishPet, activity.RegisterOptions{Name: petactivities.PublishPetActivityName})
	return env
}

func TestPetPublicationWorkflow_CreatesOnBackend(t *testing.T) {
	remote := &stubRemote{}
	env := newEnv(t, remote)

	env.ExecuteWorkflow(PetPublicationWorkflow, PetPublicationWorkflowInput{
		Command: petstypes.PublishCommand{Kind: petstypes.PublishCreate, Pet: domain.Pet{ID: 3, Name: "Rex", Type: domain.SpeciesDog}},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	var result petstypes.PublishResult
	require.NoError(t, env.GetWorkflowResult(&result))
	require.NotNil(t, result.Pet)
	require.Equal(t, int64(42), result.Pet.ID)
	require.Equal(t, "Rex", result.Pet.Name)
}

func TestPetPublicationWorkflow_RejectionIsNotRetried(t *testing.T) {
	remote := &stubRemote{err: fmt.Errorf("%w: %w: nome obrigatório", ports.ErrRemote, ports.ErrRejected)}
	env := newEnv(t, remote)

	env.ExecuteWorkflow(PetPublicationWorkflow, PetPublicationWorkflowInput{
		Command: petstypes.PublishCommand{Kind: petstypes.PublishCreate, Pet: domain.Pet{Name: "Rex"}},
	})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Equal(t, int32(1), remote.creates.Load())
}
