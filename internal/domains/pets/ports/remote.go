package ports

import (
	"context"
	"errors"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

var (
	// ErrRemote wraps every failure reaching the pets backend.
	ErrRemote = errors.New("pets backend unavailable")
	// ErrRejected marks backend answers that retrying cannot fix (4xx).
	ErrRejected = errors.New("pets backend rejected the request")
)

// RemoteCatalog is the outbound port to the backend pet API.
type RemoteCatalog interface {
	List(ctx context.Context) ([]domain.Pet, error)
	Create(ctx context.Context, pet domain.Pet) (domain.Pet, error)
	Update(ctx context.Context, pet domain.Pet) error
	Delete(ctx context.Context, id int64) error
	Adopt(ctx context.Context, petID, adopterID int64) error
}

// CompatibilitySource returns backend-computed scores (0-100) keyed by pet id.
type CompatibilitySource interface {
	Compatibility(ctx context.Context, adopterID int64) (map[int64]int, error)
}
