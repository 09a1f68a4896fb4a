package application

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

//go:embed seed/pets.yaml
var seedDataset []byte

// SeedPets decodes the bundled catalog.
func SeedPets() ([]domain.Pet, error) {
	var pets []domain.Pet
	if err := yaml.Unmarshal(seedDataset, &pets); err != nil {
		return nil, fmt.Errorf("decode seed dataset: %w", err)
	}
	seen := make(map[int64]struct{}, len(pets))
	for _, pet := range pets {
		if pet.ID <= 0 {
			return nil, fmt.Errorf("seed pet %q has no id", pet.Name)
		}
		if _, dup := seen[pet.ID]; dup {
			return nil, fmt.Errorf("seed pet id %d is duplicated", pet.ID)
		}
		seen[pet.ID] = struct{}{}
	}
	return pets, nil
}
