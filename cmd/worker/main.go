package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/pet-adoption-catalog/internal/app/api"
	platformobservability "github.com/Apurer/pet-adoption-catalog/internal/platform/observability"
	petactivities "github.com/Apurer/pet-adoption-catalog/internal/platform/temporal/activities/pets"
	petworkflows "github.com/Apurer/pet-adoption-catalog/internal/platform/temporal/workflows/pets"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}
	ctx := context.Background()
	const serviceName = "pet-catalog-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	backend, err := api.NewBackend(cfg)
	if err != nil {
		logger.Error("worker requires the pet backend", slog.String("error", err.Error()))
		os.Exit(1)
	}
	petActivities := petactivities.NewActivities(backend)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, petworkflows.PetPublicationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(petworkflows.PetPublicationWorkflow, workflow.RegisterOptions{Name: petworkflows.PetPublicationWorkflowName})
	w.RegisterActivityWithOptions(petActivities.PublishPet, activity.RegisterOptions{Name: petactivities.PublishPetActivityName})

	logger.Info("worker listening", slog.String("taskQueue", petworkflows.PetPublicationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
