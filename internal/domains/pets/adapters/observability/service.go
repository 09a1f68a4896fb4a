package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/session"
)

const tracerName = "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/observability/service"

var _ ports.Service = (*Service)(nil)

// Service decorates the catalog port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Search derives the visible pets with instrumentation.
func (s *Service) Search(ctx context.Context, input petstypes.SearchInput) (*petstypes.SearchResult, error) {
	ctx, span := s.startSpan(ctx, "Service.Search",
		attribute.String("search.query", input.Query),
		attribute.String("search.status", string(input.Filters.Status)),
		attribute.Int("search.compatibility_min", input.Filters.MinCompatibility),
		attribute.Int64("adopter.id", input.AdopterID),
	)
	defer span.End()

	result, err := s.inner.Search(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to search pets")
	}
	span.SetAttributes(
		attribute.Int("pet.result.count", len(result.Pets)),
		attribute.Int64("catalog.snapshot_version", int64(result.SnapshotVersion)),
	)
	s.metrics.recordSearch(ctx, len(result.Pets))
	return result, nil
}

// Get loads a single pet.
func (s *Service) Get(ctx context.Context, input petstypes.PetIdentifier) (*petstypes.PetView, error) {
	ctx, span := s.startSpan(ctx, "Service.Get", attribute.Int64("pet.id", input.ID))
	defer span.End()

	result, err := s.inner.Get(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load pet", slog.Int64("pet.id", input.ID))
	}
	return result, nil
}

// Create adds a pet with instrumentation.
func (s *Service) Create(ctx context.Context, current session.Session, input petstypes.CreatePetInput) (*petstypes.PetView, error) {
	ctx, span := s.startSpan(ctx, "Service.Create",
		attribute.String("session.role", string(current.Role)),
		attribute.String("pet.type", string(input.Draft.Type)),
	)
	defer span.End()

	s.logInfo(ctx, "creating pet", slog.String("name", input.Draft.Name), slog.String("role", string(current.Role)))
	result, err := s.inner.Create(ctx, current, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create pet", slog.String("name", input.Draft.Name))
	}
	s.metrics.recordCreated(ctx, result.Pet.DisplayStatus())
	span.SetAttributes(attribute.Int64("pet.id", result.Pet.ID))
	s.logInfo(ctx, "pet created", slog.Int64("pet.id", result.Pet.ID), slog.String("status", string(result.Pet.DisplayStatus())))
	return result, nil
}

// Update merges a partial update with instrumentation.
func (s *Service) Update(ctx context.Context, input petstypes.UpdatePetInput) (*petstypes.MutationResult, error) {
	ctx, span := s.startSpan(ctx, "Service.Update", attribute.Int64("pet.id", input.ID))
	defer span.End()

	s.logInfo(ctx, "updating pet", slog.Int64("pet.id", input.ID))
	result, err := s.inner.Update(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update pet", slog.Int64("pet.id", input.ID))
	}
	span.SetAttributes(attribute.Bool("pet.changed", result.Changed))
	if result.Changed && result.Pet != nil {
		s.metrics.recordUpdated(ctx, result.Pet.DisplayStatus())
		s.logInfo(ctx, "pet updated", slog.Int64("pet.id", input.ID), slog.String("status", string(result.Pet.DisplayStatus())))
	}
	return result, nil
}

// Delete removes a pet with instrumentation.
func (s *Service) Delete(ctx context.Context, input petstypes.PetIdentifier) (*petstypes.MutationResult, error) {
	ctx, span := s.startSpan(ctx, "Service.Delete", attribute.Int64("pet.id", input.ID))
	defer span.End()

	s.logInfo(ctx, "deleting pet", slog.Int64("pet.id", input.ID))
	result, err := s.inner.Delete(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete pet", slog.Int64("pet.id", input.ID))
	}
	span.SetAttributes(attribute.Bool("pet.changed", result.Changed))
	if result.Changed {
		s.metrics.recordDeleted(ctx)
		s.logInfo(ctx, "pet deleted", slog.Int64("pet.id", input.ID))
	}
	return result, nil
}

// Adopt starts an adoption with instrumentation.
func (s *Service) Adopt(ctx context.Context, input petstypes.AdoptPetInput) (*petstypes.PetView, error) {
	ctx, span := s.startSpan(ctx, "Service.Adopt",
		attribute.Int64("pet.id", input.PetID),
		attribute.Int64("adopter.id", input.AdopterID),
	)
	defer span.End()

	s.logInfo(ctx, "requesting adoption", slog.Int64("pet.id", input.PetID), slog.Int64("adopter.id", input.AdopterID))
	result, err := s.inner.Adopt(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to request adoption", slog.Int64("pet.id", input.PetID))
	}
	s.metrics.recordAdoption(ctx)
	return result, nil
}

// Refresh reconciles the cache with the backend with instrumentation.
func (s *Service) Refresh(ctx context.Context) (*petstypes.RefreshResult, error) {
	ctx, span := s.startSpan(ctx, "Service.Refresh")
	defer span.End()

	result, err := s.inner.Refresh(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to refresh catalog")
	}
	span.SetAttributes(attribute.Int("pet.result.count", result.Count))
	s.logInfo(ctx, "catalog refreshed", slog.Int("count", result.Count))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// Validation and not-found outcomes are expected; they log at warn.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	level := slog.LevelWarn
	if errors.Is(err, ports.ErrRemote) {
		level = slog.LevelError
		s.metrics.recordRemoteFailure(ctx)
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	petsCreated    metric.Int64Counter
	petsUpdated    metric.Int64Counter
	petsDeleted    metric.Int64Counter
	adoptions      metric.Int64Counter
	remoteFailures metric.Int64Counter
	searchResults  metric.Int64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	petsCreated, _ := m.Int64Counter("pets.service.created", metric.WithDescription("Number of pets created"))
	petsUpdated, _ := m.Int64Counter("pets.service.updated", metric.WithDescription("Number of pets updated"))
	petsDeleted, _ := m.Int64Counter("pets.service.deleted", metric.WithDescription("Number of pets deleted"))
	adoptions, _ := m.Int64Counter("pets.service.adoptions", metric.WithDescription("Number of adoption requests accepted"))
	remoteFailures, _ := m.Int64Counter("pets.service.remote_failures", metric.WithDescription("Operations rolled back or refused because the backend failed"))
	searchResults, _ := m.Int64Histogram("pets.service.search_results", metric.WithDescription("Number of pets returned by a search"))
	return serviceMetrics{
		petsCreated:    petsCreated,
		petsUpdated:    petsUpdated,
		petsDeleted:    petsDeleted,
		adoptions:      adoptions,
		remoteFailures: remoteFailures,
		searchResults:  searchResults,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.petsCreated, 1, attribute.String("pet.status", string(status)))
}

func (m serviceMetrics) recordUpdated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.petsUpdated, 1, attribute.String("pet.status", string(status)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.petsDeleted, 1)
}

func (m serviceMetrics) recordAdoption(ctx context.Context) {
	addCounter(ctx, m.adoptions, 1)
}

func (m serviceMetrics) recordRemoteFailure(ctx context.Context) {
	addCounter(ctx, m.remoteFailures, 1)
}

func (m serviceMetrics) recordSearch(ctx context.Context, count int) {
	if m.searchResults == nil {
		return
	}
	m.searchResults.Record(ctx, int64(count))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
