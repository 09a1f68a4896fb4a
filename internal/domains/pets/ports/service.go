package ports

import (
	"context"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/session"
)

// Service defines the catalog use cases exposed to adapters (inbound/driving port).
type Service interface {
	Search(ctx context.Context, input petstypes.SearchInput) (*petstypes.SearchResult, error)
	Get(ctx context.Context, input petstypes.PetIdentifier) (*petstypes.PetView, error)
	Create(ctx context.Context, current session.Session, input petstypes.CreatePetInput) (*petstypes.PetView, error)
	Update(ctx context.Context, input petstypes.UpdatePetInput) (*petstypes.MutationResult, error)
	Delete(ctx context.Context, input petstypes.PetIdentifier) (*petstypes.MutationResult, error)
	Adopt(ctx context.Context, input petstypes.AdoptPetInput) (*petstypes.PetView, error)
	Refresh(ctx context.Context) (*petstypes.RefreshResult, error)
}
