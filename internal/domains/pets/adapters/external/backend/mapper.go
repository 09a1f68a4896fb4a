package backend

import (
	"strings"

	backendclient "github.com/Apurer/pet-adoption-catalog/internal/clients/http/backend"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

// FromRecord converts a backend record into the local pet shape.
// Missing lists become empty; missing images become the placeholder.
func FromRecord(r backendclient.PetRecord) domain.Pet {
	pet := domain.Pet{
		ID:           r.ID,
		Type:         speciesFromEspecie(r.Especie),
		Name:         strings.TrimSpace(r.Nome),
		Description:  r.Descricao,
		Images:       nonEmpty(r.Imagens),
		Tags:         nonNil(r.Tags),
		Age:          string(r.Idade),
		Size:         r.Porte,
		Weight:       string(r.Peso),
		Location:     r.Localizacao,
		Coordinates:  domain.Coordinates{Latitude: r.Latitude, Longitude: r.Longitude},
		Address:      r.Endereco,
		Vaccinated:   r.Vacinado,
		Castrated:    r.Castrado,
		Temperament:  nonNil(r.Temperamento),
		HealthStatus: r.EstadoSaude,
		OngID:        r.OngID,
		TutorID:      r.TutorID,
	}
	if status := domain.Status(strings.ToUpper(strings.TrimSpace(r.Status))); status.Valid() {
		pet.Status = status
	}
	if len(pet.Images) == 0 {
		pet.Images = []string{domain.PlaceholderImage}
	}
	return pet.Clone()
}

// ToRecord converts a local pet into the backend request body.
func ToRecord(p domain.Pet) backendclient.PetRecord {
	p = p.Clone()
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img != domain.PlaceholderImage {
			images = append(images, img)
		}
	}
	return backendclient.PetRecord{
		ID:           p.ID,
		Nome:         p.Name,
		Especie:      especieFromSpecies(p.Type),
		Porte:        p.Size,
		Descricao:    p.Description,
		Imagens:      images,
		Tags:         p.DisplayTags(),
		Idade:        backendclient.FlexString(p.Age),
		Peso:         backendclient.FlexString(p.Weight),
		Localizacao:  p.Location,
		Latitude:     p.Coordinates.Latitude,
		Longitude:    p.Coordinates.Longitude,
		Endereco:     p.Address,
		Vacinado:     p.Vaccinated,
		Castrado:     p.Castrated,
		Temperamento: p.Temperament,
		EstadoSaude:  p.HealthStatus,
		Status:       string(p.Status),
		OngID:        p.OngID,
		TutorID:      p.TutorID,
	}
}

func speciesFromEspecie(especie string) domain.Species {
	switch strings.ToUpper(strings.TrimSpace(especie)) {
	case "CACHORRO", "CAO", "CÃO", "DOG":
		return domain.SpeciesDog
	case "GATO", "CAT":
		return domain.SpeciesCat
	}
	return ""
}

func especieFromSpecies(s domain.Species) string {
	switch s {
	case domain.SpeciesDog:
		return "CACHORRO"
	case domain.SpeciesCat:
		return "GATO"
	}
	return ""
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
