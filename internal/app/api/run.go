package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	catalogserver "github.com/Apurer/pet-adoption-catalog/go"

	petsnats "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/messaging/natsevents"
	petsobs "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/observability"
	petsworkflows "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/workflows"
	petsapp "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application"
	petsports "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	platformobservability "github.com/Apurer/pet-adoption-catalog/internal/platform/observability"
)

const serviceName = "pet-catalog-api"

// Run boots the catalog HTTP API with observability, the snapshot store, the
// backend and workflows wired. It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	store, cleanupStore := OpenSnapshotStore(ctx, cfg, logger)
	defer cleanupStore()
	cache := petsapp.NewCache(ctx, store,
		petsapp.WithCacheLogger(logger),
		petsapp.WithSnapshotKey(cfg.SnapshotKey),
		petsapp.WithWriteBehind(cfg.WriteBehind),
	)
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cache.Close(flushCtx); err != nil {
			logger.Error("failed to flush pet snapshot", slog.String("error", err.Error()))
		}
	}()

	opts := []petsapp.CatalogOption{petsapp.WithCatalogLogger(logger)}

	backend, err := NewBackend(cfg)
	if err != nil {
		logger.Warn("pet backend unavailable, mutations stay local", slog.String("error", err.Error()))
	} else {
		tracker := petsapp.NewCompatibilityTracker(backend,
			petsapp.WithTrackerLogger(logger),
			petsapp.WithStaleAfter(cfg.CompatStaleAfter),
		)
		defer tracker.Close()
		var workflows petsports.WorkflowOrchestrator = petsworkflows.NewInlinePetWorkflows(backend)
		if temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
			logger.Warn("Temporal workflows unavailable, publishing inline", slog.String("error", err.Error()))
		} else {
			defer temporalClient.Close()
			workflows = petsworkflows.NewTemporalPetWorkflows(temporalClient)
			logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
		}
		opts = append(opts,
			petsapp.WithRemote(backend),
			petsapp.WithCompatibility(tracker),
			petsapp.WithOrchestrator(workflows),
		)
	}

	if cfg.NATSURL != "" {
		nc, err := petsnats.Connect(cfg.NATSURL, logger)
		if err != nil {
			logger.Warn("NATS unavailable, domain events are dropped", slog.String("error", err.Error()))
		} else {
			defer nc.Drain()
			opts = append(opts, petsapp.WithEventPublisher(petsnats.NewPublisher(nc, petsnats.WithLogger(logger))))
		}
	}

	petService := petsobs.New(
		petsapp.NewCatalog(cache, opts...),
		petsobs.WithLogger(logger),
		petsobs.WithTracer(instruments.Tracer("internal.pets.application")),
		petsobs.WithMeter(instruments.Meter("internal.pets.application")),
	)

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router = catalogserver.NewRouterWithGinEngine(router, catalogserver.ApiHandleFunctions{
		PetAPI: catalogserver.NewPetAPI(petService),
	})

	server := &http.Server{Addr: cfg.Addr(), Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("catalog API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("catalog API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("catalog API shutting down")
		return server.Shutdown(shutdownCtx)
	}
}
