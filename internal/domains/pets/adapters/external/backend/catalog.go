package backend

import (
	"context"
	"errors"
	"fmt"

	backendclient "github.com/Apurer/pet-adoption-catalog/internal/clients/http/backend"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
)

var (
	_ ports.RemoteCatalog       = (*Catalog)(nil)
	_ ports.CompatibilitySource = (*Catalog)(nil)
)

// Catalog adapts the backend HTTP client to the remote catalog ports.
type Catalog struct {
	client *backendclient.Client
}

// NewCatalog wires the HTTP client into the adapter.
func NewCatalog(client *backendclient.Client) *Catalog {
	return &Catalog{client: client}
}

// List fetches every pet the backend knows.
func (c *Catalog) List(ctx context.Context) ([]domain.Pet, error) {
	records, err := c.client.ListPets(ctx)
	if err != nil {
		return nil, wrap(err)
	}
	pets := make([]domain.Pet, 0, len(records))
	for _, r := range records {
		pets = append(pets, FromRecord(r))
	}
	return pets, nil
}

// Create stores the pet on the backend and returns its stored form.
func (c *Catalog) Create(ctx context.Context, pet domain.Pet) (domain.Pet, error) {
	record := ToRecord(pet)
	record.ID = 0
	created, err := c.client.CreatePet(ctx, record)
	if err != nil {
		return domain.Pet{}, wrap(err)
	}
	return FromRecord(created), nil
}

// Update replaces the backend record.
func (c *Catalog) Update(ctx context.Context, pet domain.Pet) error {
	return wrap(c.client.UpdatePet(ctx, pet.ID, ToRecord(pet)))
}

// Delete removes the backend record.
func (c *Catalog) Delete(ctx context.Context, id int64) error {
	return wrap(c.client.DeletePet(ctx, id))
}

// Adopt starts the adoption of petID by adopterID.
func (c *Catalog) Adopt(ctx context.Context, petID, adopterID int64) error {
	return wrap(c.client.AdoptPet(ctx, petID, adopterID))
}

// Compatibility returns the adopter's scores keyed by pet id.
func (c *Catalog) Compatibility(ctx context.Context, adopterID int64) (map[int64]int, error) {
	records, err := c.client.AdopterCompatibility(ctx, adopterID)
	if err != nil {
		return nil, wrap(err)
	}
	scores := make(map[int64]int, len(records))
	for _, r := range records {
		scores[r.PetID] = r.Compatibilidade
	}
	return scores, nil
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *backendclient.APIError
	if errors.As(err, &apiErr) && apiErr.Rejected() {
		return fmt.Errorf("%w: %w: %w", ports.ErrRemote, ports.ErrRejected, err)
	}
	return fmt.Errorf("%w: %w", ports.ErrRemote, err)
}
