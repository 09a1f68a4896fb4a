package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application"
	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	petworkflows "github.com/Apurer/pet-adoption-catalog/internal/platform/temporal/workflows/pets"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalPetWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlinePetWorkflows)(nil)
)

// TemporalPetWorkflows starts publication workflows on a Temporal cluster.
type TemporalPetWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalPetWorkflows wires a Temporal client into the orchestrator.
func NewTemporalPetWorkflows(c client.Client) *TemporalPetWorkflows {
	return &TemporalPetWorkflows{client: c, taskQueue: petworkflows.PetPublicationTaskQueue}
}

// Publish starts the publication workflow and waits for its result.
// A retried command with the same RequestID attaches to the running workflow.
func (o *TemporalPetWorkflows) Publish(ctx context.Context, cmd petstypes.PublishCommand) (*petstypes.PublishResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal pet workflows not configured")
	}
	if cmd.RequestID == "" {
		cmd.RequestID = uuid.NewString()
	}
	workflowID := buildPublicationWorkflowID(cmd)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		petworkflows.PetPublicationWorkflowName,
		petworkflows.PetPublicationWorkflowInput{Command: cmd, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result petstypes.PublishResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InlinePetWorkflows calls the backend directly without Temporal, for tests and dev fallbacks.
type InlinePetWorkflows struct {
	remote ports.RemoteCatalog
}

// NewInlinePetWorkflows wraps the backend catalog for synchronous publication.
func NewInlinePetWorkflows(remote ports.RemoteCatalog) *InlinePetWorkflows {
	return &InlinePetWorkflows{remote: remote}
}

// Publish performs the backend call in the caller's goroutine.
func (o *InlinePetWorkflows) Publish(ctx context.Context, cmd petstypes.PublishCommand) (*petstypes.PublishResult, error) {
	if o == nil {
		return nil, errors.New("inline pet workflows not configured")
	}
	return application.PublishToRemote(ctx, o.remote, cmd)
}

func buildPublicationWorkflowID(cmd petstypes.PublishCommand) string {
	return fmt.Sprintf("pet-%s-%d-%s", cmd.Kind, cmd.Pet.ID, cmd.RequestID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
