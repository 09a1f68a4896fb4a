package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	backendclient "github.com/Apurer/pet-adoption-catalog/internal/clients/http/backend"
	petsbackend "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/external/backend"
	petsmemory "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/memory"
	petspostgres "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/persistence/postgres"
	petssqlite "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/persistence/sqlite"
	petsports "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	platformobservability "github.com/Apurer/pet-adoption-catalog/internal/platform/observability"
	platformpostgres "github.com/Apurer/pet-adoption-catalog/internal/platform/postgres"
)

// ErrBackendNotConfigured is returned when BACKEND_BASE_URL is unset.
var ErrBackendNotConfigured = errors.New("BACKEND_BASE_URL not set")

// OpenSnapshotStore picks the durable slot: postgres when configured, then the
// sqlite file, then process memory.
func OpenSnapshotStore(ctx context.Context, cfg Config, logger *slog.Logger) (petsports.SnapshotStore, func()) {
	if cfg.PostgresDSN != "" {
		db, cleanup, err := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
		if err == nil {
			logger.Info("pet snapshot store configured with postgres")
			return petspostgres.NewSnapshotStore(db), cleanup
		}
		logger.Warn("postgres unavailable, falling back to sqlite", slog.String("error", err.Error()))
	}
	if cfg.SQLitePath != "" {
		store, err := petssqlite.NewSnapshotStore(ctx, cfg.SQLitePath)
		if err == nil {
			logger.Info("pet snapshot store configured with sqlite", slog.String("path", store.Path()))
			return store, func() { _ = store.Close() }
		}
		logger.Warn("sqlite unavailable, falling back to memory", slog.String("path", cfg.SQLitePath), slog.String("error", err.Error()))
	}
	logger.Warn("pet snapshot store kept in memory, changes are lost on exit")
	return petsmemory.NewSnapshotStore(), func() {}
}

// NewBackend builds the REST adapter for the remote pet API.
func NewBackend(cfg Config) (*petsbackend.Catalog, error) {
	if cfg.BackendBaseURL == "" {
		return nil, ErrBackendNotConfigured
	}
	c, err := backendclient.NewClient(cfg.BackendBaseURL, backendclient.WithTimeout(cfg.BackendTimeout))
	if err != nil {
		return nil, fmt.Errorf("build backend client: %w", err)
	}
	return petsbackend.NewCatalog(c), nil
}

// ConnectTemporal dials Temporal with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
