package types

import (
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/search"
)

// SearchInput captures the listing page state: free text, filters and the adopter whose scores apply.
type SearchInput struct {
	Query     string
	Filters   search.FilterSet
	AdopterID int64
}

// PetIdentifier references a pet by its catalog ID.
type PetIdentifier struct {
	ID int64
}

// CreatePetInput carries the draft of a new pet.
type CreatePetInput struct {
	Draft domain.Draft
}

// UpdatePetInput carries a partial update for an existing pet.
type UpdatePetInput struct {
	ID    int64
	Patch domain.Patch
}

// AdoptPetInput starts the backend adoption workflow for a pet.
type AdoptPetInput struct {
	PetID     int64
	AdopterID int64
}
