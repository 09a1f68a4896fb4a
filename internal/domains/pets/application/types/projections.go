package types

import (
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

// PetView is a pet as shown to users, with its compatibility score when one is known.
type PetView struct {
	Pet           domain.Pet
	Compatibility *int
}

// SearchResult lists the visible pets in catalog order.
type SearchResult struct {
	Pets            []PetView
	SnapshotVersion uint64
}

// MutationResult reports whether an update or delete touched an existing record.
// Missing ids are not errors: Changed is simply false.
type MutationResult struct {
	ID      int64
	Changed bool
	Pet     *domain.Pet
}

// RefreshResult summarizes a reconciliation with the backend listing.
type RefreshResult struct {
	Count           int
	SnapshotVersion uint64
}
