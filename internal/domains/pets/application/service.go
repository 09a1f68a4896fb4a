package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/search"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/session"
)

var _ ports.Service = (*Catalog)(nil)

// Catalog orchestrates the pet catalog use cases over the local cache.
//
// Mutations are optimistic: the cache changes first, then the change is
// published to the backend. A failed publication restores the previous
// record and surfaces the error. Refresh replaces the cache with the
// backend listing, which reconciles anything the rollback could not.
type Catalog struct {
	cache        *Cache
	orchestrator ports.WorkflowOrchestrator
	remote       ports.RemoteCatalog
	tracker      *CompatibilityTracker
	events       ports.EventPublisher
	logger       *slog.Logger
	now          func() time.Time
	memo         search.Memo
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithOrchestrator publishes mutations to the backend through orchestrator.
func WithOrchestrator(orchestrator ports.WorkflowOrchestrator) CatalogOption {
	return func(c *Catalog) {
		c.orchestrator = orchestrator
	}
}

// WithRemote enables Refresh against the backend listing.
func WithRemote(remote ports.RemoteCatalog) CatalogOption {
	return func(c *Catalog) {
		c.remote = remote
	}
}

// WithCompatibility attaches adopter scores to searches.
func WithCompatibility(tracker *CompatibilityTracker) CatalogOption {
	return func(c *Catalog) {
		c.tracker = tracker
	}
}

// WithEventPublisher sets where domain events go after each committed operation.
func WithEventPublisher(publisher ports.EventPublisher) CatalogOption {
	return func(c *Catalog) {
		if publisher != nil {
			c.events = publisher
		}
	}
}

// WithCatalogLogger injects a slog logger.
func WithCatalogLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCatalog wires the catalog over an initialized cache. Without an
// orchestrator every mutation stays local.
func NewCatalog(cache *Cache, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		cache:  cache,
		events: ports.NoopPublisher,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Search returns the visible pets for the query and filters, in catalog order.
func (c *Catalog) Search(ctx context.Context, input petstypes.SearchInput) (*petstypes.SearchResult, error) {
	snapshot := c.cache.Snapshot()
	compat, revision := c.tracker.Lookup(ctx, input.AdopterID)
	key := search.Key{
		SnapshotVersion: snapshot.Version,
		Query:           input.Query,
		Filters:         input.Filters,
		CompatRevision:  revision,
	}
	results := c.memo.Filter(key, snapshot.Pets, compat)
	views := make([]petstypes.PetView, 0, len(results))
	for _, r := range results {
		views = append(views, petstypes.PetView{Pet: r.Pet, Compatibility: r.Score})
	}
	return &petstypes.SearchResult{Pets: views, SnapshotVersion: snapshot.Version}, nil
}

// Get loads a single pet.
func (c *Catalog) Get(_ context.Context, input petstypes.PetIdentifier) (*petstypes.PetView, error) {
	pet, ok := c.cache.GetByID(input.ID)
	if !ok {
		return nil, notFound(input.ID)
	}
	return &petstypes.PetView{Pet: pet}, nil
}

// Create adds a pet owned by the current session and publishes it.
func (c *Catalog) Create(ctx context.Context, current session.Session, input petstypes.CreatePetInput) (*petstypes.PetView, error) {
	draft := input.Draft
	if !current.IsAnonymous() {
		if err := current.Validate(); err != nil {
			return nil, mapError(err)
		}
		ongID, tutorID := current.OwnerDefaults()
		if draft.OngID == nil {
			draft.OngID = ongID
		}
		if draft.TutorID == nil {
			draft.TutorID = tutorID
		}
	}
	if err := draft.Validate(); err != nil {
		return nil, mapError(err)
	}

	id := c.cache.Add(ctx, draft)
	pet, _ := c.cache.GetByID(id)

	result, err := c.publish(ctx, petstypes.PublishCreate, pet, 0)
	if err != nil {
		if !c.cache.CompareAndDelete(ctx, pet) {
			c.logger.WarnContext(ctx, "pet changed before creation rollback, keeping it until refresh", slog.Int64("pet_id", id))
		}
		c.logger.WarnContext(ctx, "pet creation rolled back", slog.Int64("pet_id", id), slog.String("error", err.Error()))
		return nil, remoteError("create pet", err)
	}
	if result != nil && result.Pet != nil && result.Pet.ID > 0 && result.Pet.ID != id {
		// The backend owns the identifier space, but a local record already
		// holding that id is never replaced.
		if c.cache.Rekey(ctx, pet, *result.Pet) {
			pet = result.Pet.Clone()
		} else {
			c.logger.WarnContext(ctx, "backend id collides with a local pet, keeping local id until refresh",
				slog.Int64("pet_id", id), slog.Int64("backend_id", result.Pet.ID))
		}
	}

	c.emit(ctx, domain.PetCreated{
		BaseEvent: c.base(),
		PetID:     pet.ID,
		Name:      pet.Name,
		Type:      pet.Type,
		Status:    pet.DisplayStatus(),
	})
	return &petstypes.PetView{Pet: pet}, nil
}

// Update merges the patch into an existing pet. A missing id is a no-op.
func (c *Catalog) Update(ctx context.Context, input petstypes.UpdatePetInput) (*petstypes.MutationResult, error) {
	if err := input.Patch.Validate(); err != nil {
		return nil, mapError(err)
	}
	previous, updated, ok := c.applyPatch(ctx, input.ID, input.Patch)
	if !ok {
		return &petstypes.MutationResult{ID: input.ID}, nil
	}

	if _, err := c.publish(ctx, petstypes.PublishUpdate, updated, 0); err != nil {
		if !c.cache.CompareAndSwap(ctx, updated, previous) {
			c.logger.WarnContext(ctx, "pet changed before update rollback, keeping newer state", slog.Int64("pet_id", input.ID))
		}
		c.logger.WarnContext(ctx, "pet update rolled back", slog.Int64("pet_id", input.ID), slog.String("error", err.Error()))
		return nil, remoteError("update pet", err)
	}

	events := []domain.Event{domain.PetUpdated{BaseEvent: c.base(), PetID: updated.ID, Name: updated.Name}}
	if previous.DisplayStatus() != updated.DisplayStatus() {
		events = append(events, domain.PetStatusChanged{
			BaseEvent:  c.base(),
			PetID:      updated.ID,
			FromStatus: previous.DisplayStatus(),
			ToStatus:   updated.DisplayStatus(),
		})
	}
	c.emit(ctx, events...)
	return &petstypes.MutationResult{ID: input.ID, Changed: true, Pet: &updated}, nil
}

// Delete removes a pet. A missing id is a no-op.
func (c *Catalog) Delete(ctx context.Context, input petstypes.PetIdentifier) (*petstypes.MutationResult, error) {
	previous, ok := c.removePet(ctx, input.ID)
	if !ok {
		return &petstypes.MutationResult{ID: input.ID}, nil
	}

	if _, err := c.publish(ctx, petstypes.PublishDelete, previous, 0); err != nil {
		if !c.cache.RestoreIfAbsent(ctx, previous) {
			c.logger.WarnContext(ctx, "pet id reused before deletion rollback, reconcile with refresh", slog.Int64("pet_id", input.ID))
		}
		c.logger.WarnContext(ctx, "pet deletion rolled back", slog.Int64("pet_id", input.ID), slog.String("error", err.Error()))
		return nil, remoteError("delete pet", err)
	}

	c.emit(ctx, domain.PetDeleted{BaseEvent: c.base(), PetID: previous.ID, Name: previous.Name})
	return &petstypes.MutationResult{ID: input.ID, Changed: true}, nil
}

// Adopt asks the backend to start an adoption and marks the pet as reserved.
func (c *Catalog) Adopt(ctx context.Context, input petstypes.AdoptPetInput) (*petstypes.PetView, error) {
	if input.AdopterID <= 0 {
		return nil, fmt.Errorf("%w: adopter id is required", ErrInvalidInput)
	}
	pet, ok := c.cache.GetByID(input.PetID)
	if !ok {
		return nil, notFound(input.PetID)
	}
	if pet.DisplayStatus() == domain.StatusAdopted {
		return nil, fmt.Errorf("%w: pet %d was already adopted", ErrInvalidInput, pet.ID)
	}

	if _, err := c.publish(ctx, petstypes.PublishAdopt, pet, input.AdopterID); err != nil {
		return nil, remoteError("adopt pet", err)
	}

	reserved := domain.StatusUnderReview
	c.cache.Update(ctx, pet.ID, domain.Patch{Status: &reserved})
	updated, _ := c.cache.GetByID(pet.ID)

	events := []domain.Event{domain.AdoptionRequested{BaseEvent: c.base(), PetID: pet.ID, AdopterID: input.AdopterID}}
	if pet.DisplayStatus() != reserved {
		events = append(events, domain.PetStatusChanged{
			BaseEvent:  c.base(),
			PetID:      pet.ID,
			FromStatus: pet.DisplayStatus(),
			ToStatus:   reserved,
		})
	}
	c.emit(ctx, events...)
	c.tracker.Invalidate(input.AdopterID)
	return &petstypes.PetView{Pet: updated}, nil
}

// Refresh replaces the cache with the backend listing.
func (c *Catalog) Refresh(ctx context.Context) (*petstypes.RefreshResult, error) {
	if c.remote == nil {
		return nil, remoteError("refresh catalog", fmt.Errorf("backend is not configured"))
	}
	pets, err := c.remote.List(ctx)
	if err != nil {
		return nil, remoteError("refresh catalog", err)
	}
	c.cache.ReplaceAll(ctx, pets)
	snapshot := c.cache.Snapshot()
	c.logger.InfoContext(ctx, "catalog reconciled with backend", slog.Int("count", len(snapshot.Pets)))
	return &petstypes.RefreshResult{Count: len(snapshot.Pets), SnapshotVersion: snapshot.Version}, nil
}

// applyPatch merges patch into the current record, retrying when a concurrent
// writer changed it between the read and the swap.
func (c *Catalog) applyPatch(ctx context.Context, id int64, patch domain.Patch) (previous, updated domain.Pet, ok bool) {
	for {
		previous, ok = c.cache.GetByID(id)
		if !ok {
			return domain.Pet{}, domain.Pet{}, false
		}
		updated = patch.Apply(previous.Clone())
		if c.cache.CompareAndSwap(ctx, previous, updated) {
			return previous, updated, true
		}
	}
}

func (c *Catalog) removePet(ctx context.Context, id int64) (domain.Pet, bool) {
	for {
		previous, ok := c.cache.GetByID(id)
		if !ok {
			return domain.Pet{}, false
		}
		if c.cache.CompareAndDelete(ctx, previous) {
			return previous, true
		}
	}
}

func (c *Catalog) publish(ctx context.Context, kind petstypes.PublishKind, pet domain.Pet, adopterID int64) (*petstypes.PublishResult, error) {
	if c.orchestrator == nil {
		return nil, nil
	}
	return c.orchestrator.Publish(ctx, petstypes.PublishCommand{
		Kind:      kind,
		Pet:       pet,
		AdopterID: adopterID,
		RequestID: uuid.NewString(),
	})
}

func (c *Catalog) emit(ctx context.Context, events ...domain.Event) {
	if err := c.events.Publish(ctx, events...); err != nil {
		c.logger.WarnContext(ctx, "failed to publish domain events", slog.Int("count", len(events)), slog.String("error", err.Error()))
	}
}

func (c *Catalog) base() domain.BaseEvent {
	return domain.BaseEvent{Timestamp: c.now().UTC()}
}
