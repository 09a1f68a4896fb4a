// Package search derives the visible, ordered subset of the catalog from a
// snapshot, a free-text query, a FilterSet and a compatibility map.
//
// Everything here is a pure function of its inputs: nothing is sorted,
// nothing is mutated and nothing returns an error. A missing or malformed
// optional field simply fails the predicate that looks at it.
package search

import (
	"strings"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

// CompatibilityMap holds externally computed scores (0-100) keyed by pet id.
type CompatibilityMap map[int64]int

// Score returns the score for id and whether one was computed.
func (m CompatibilityMap) Score(id int64) (int, bool) {
	if m == nil {
		return 0, false
	}
	score, ok := m[id]
	return score, ok
}

// Result is a pet that passed every active filter plus its displayable score.
type Result struct {
	Pet   domain.Pet
	Score *int
}

// Filter applies the predicate chain to pets in their given order.
func Filter(pets []domain.Pet, query string, filters FilterSet, compat CompatibilityMap) []Result {
	q := strings.ToLower(query)
	if strings.TrimSpace(query) == "" {
		q = ""
	}
	location := strings.ToLower(filters.Location)
	if strings.TrimSpace(filters.Location) == "" {
		location = ""
	}
	results := make([]Result, 0, len(pets))
	for _, pet := range pets {
		if !matchesText(pet, q) ||
			!matchesSpecies(pet, filters.Species) ||
			!matchesSize(pet, filters.Size) ||
			!matchesSex(pet, filters.Sex) ||
			!matchesStatus(pet, filters.Status) ||
			!matchesTriState(pet.Vaccinated, filters.Vaccinated) ||
			!matchesTriState(pet.Castrated, filters.Castrated) ||
			!matchesLocation(pet, location) ||
			!matchesCompatibility(pet, filters.MinCompatibility, compat) {
			continue
		}
		result := Result{Pet: pet.Clone()}
		if score, ok := compat.Score(pet.ID); ok {
			result.Score = &score
		}
		results = append(results, result)
	}
	return results
}

func matchesText(pet domain.Pet, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(pet.Name), q) || strings.Contains(strings.ToLower(pet.Description), q) {
		return true
	}
	return anyTag(pet, func(tag string) bool { return strings.Contains(tag, q) })
}

// Legacy records only carry the species as a tag.
func matchesSpecies(pet domain.Pet, choice SpeciesChoice) bool {
	if choice == "" || choice == SpeciesAll {
		return true
	}
	if species := choice.Species(); species != "" && pet.Type == species {
		return true
	}
	name := strings.ToLower(string(choice))
	return anyTag(pet, func(tag string) bool { return strings.Contains(tag, name) })
}

// Case-insensitive but accent-sensitive: "medio" never matches "Médio".
func matchesSize(pet domain.Pet, choice SizeChoice) bool {
	if choice == "" || choice == SizeAll {
		return true
	}
	name := strings.ToLower(string(choice))
	if anyTag(pet, func(tag string) bool { return tag == name || strings.Contains(tag, name) }) {
		return true
	}
	return strings.Contains(strings.ToLower(pet.Size), name)
}

func matchesSex(pet domain.Pet, choice SexChoice) bool {
	if choice == "" || choice == SexAll {
		return true
	}
	for _, tag := range pet.Tags {
		if tag == string(choice) {
			return true
		}
	}
	return false
}

// No default substitution here: an absent status never matches a specific filter.
func matchesStatus(pet domain.Pet, choice StatusChoice) bool {
	if choice == "" || choice == StatusAll {
		return true
	}
	return string(pet.Status) == string(choice)
}

func matchesTriState(value bool, choice TriState) bool {
	switch choice {
	case TriYes:
		return value
	case TriNo:
		return !value
	}
	return true
}

func matchesLocation(pet domain.Pet, location string) bool {
	if location == "" {
		return true
	}
	return strings.Contains(strings.ToLower(pet.Location), location)
}

// Pets absent from the map score 0 once a minimum is requested.
func matchesCompatibility(pet domain.Pet, min int, compat CompatibilityMap) bool {
	if min <= 0 {
		return true
	}
	score, _ := compat.Score(pet.ID)
	return score >= min
}

func anyTag(pet domain.Pet, match func(lowered string) bool) bool {
	for _, tag := range pet.Tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		if match(strings.ToLower(tag)) {
			return true
		}
	}
	return false
}
