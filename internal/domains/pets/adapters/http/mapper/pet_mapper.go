package mapper

import (
	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

// Coordinates is the HTTP representation of a map position.
type Coordinates struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Pet is the HTTP representation of a catalog entry as the listing and detail pages show it.
type Pet struct {
	ID              int64        `json:"id"`
	Type            string       `json:"type"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Images          []string     `json:"images"`
	Tags            []string     `json:"tags"`
	Age             string       `json:"age,omitempty"`
	Size            string       `json:"size,omitempty"`
	Weight          string       `json:"weight,omitempty"`
	Location        string       `json:"location,omitempty"`
	Coordinates     *Coordinates `json:"coordinates,omitempty"`
	Address         string       `json:"address,omitempty"`
	Vaccinated      bool         `json:"vaccinated"`
	Castrated       bool         `json:"castrated"`
	Temperament     []string     `json:"temperament"`
	HealthStatus    string       `json:"healthStatus,omitempty"`
	Status          string       `json:"status"`
	OngID           *int64       `json:"ongId,omitempty"`
	TutorID         *int64       `json:"tutorId,omitempty"`
	Compatibilidade *int         `json:"compatibilidade,omitempty"`
}

// MutationPet captures inbound payloads for create and update flows while preserving field presence.
type MutationPet struct {
	Type         *string      `json:"type,omitempty"`
	Name         *string      `json:"name,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Images       *[]string    `json:"images,omitempty"`
	Tags         *[]string    `json:"tags,omitempty"`
	Age          *string      `json:"age,omitempty"`
	Size         *string      `json:"size,omitempty"`
	Weight       *string      `json:"weight,omitempty"`
	Location     *string      `json:"location,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	Address      *string      `json:"address,omitempty"`
	Vaccinated   *bool        `json:"vaccinated,omitempty"`
	Castrated    *bool        `json:"castrated,omitempty"`
	Temperament  *[]string    `json:"temperament,omitempty"`
	HealthStatus *string      `json:"healthStatus,omitempty"`
	Status       *string      `json:"status,omitempty"`
	OngID        *int64       `json:"ongId,omitempty"`
	TutorID      *int64       `json:"tutorId,omitempty"`
}

// AdoptRequest is the body of an adoption request.
type AdoptRequest struct {
	AdotanteID int64 `json:"adotanteId"`
}

// MutationResponse reports the outcome of an update or delete.
type MutationResponse struct {
	ID      int64 `json:"id"`
	Changed bool  `json:"changed"`
	Pet     *Pet  `json:"pet,omitempty"`
}

// RefreshResponse reports a reconciliation with the backend.
type RefreshResponse struct {
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
}

// FromDomainPet maps a domain record into the transport Pet with display defaults applied.
func FromDomainPet(p domain.Pet) Pet {
	var coords *Coordinates
	if p.Coordinates.Valid() {
		coords = &Coordinates{
			Latitude:  clonePointer(p.Coordinates.Latitude),
			Longitude: clonePointer(p.Coordinates.Longitude),
		}
	}
	return Pet{
		ID:           p.ID,
		Type:         string(p.Type),
		Name:         p.Name,
		Description:  p.Description,
		Images:       p.DisplayImages(),
		Tags:         p.DisplayTags(),
		Age:          p.Age,
		Size:         p.Size,
		Weight:       p.Weight,
		Location:     p.Location,
		Coordinates:  coords,
		Address:      p.Address,
		Vaccinated:   p.Vaccinated,
		Castrated:    p.Castrated,
		Temperament:  append([]string{}, p.Temperament...),
		HealthStatus: p.HealthStatus,
		Status:       string(p.DisplayStatus()),
		OngID:        cloneID(p.OngID),
		TutorID:      cloneID(p.TutorID),
	}
}

// FromView maps a view into a transport pet carrying its compatibility score when known.
func FromView(view petstypes.PetView) Pet {
	pet := FromDomainPet(view.Pet)
	if view.Compatibility != nil {
		score := *view.Compatibility
		pet.Compatibilidade = &score
	}
	return pet
}

// FromViewList maps a slice of views, preserving order.
func FromViewList(list []petstypes.PetView) []Pet {
	result := make([]Pet, 0, len(list))
	for _, view := range list {
		result = append(result, FromView(view))
	}
	return result
}

// FromMutationResult maps an update or delete outcome.
func FromMutationResult(result *petstypes.MutationResult) MutationResponse {
	resp := MutationResponse{ID: result.ID, Changed: result.Changed}
	if result.Pet != nil {
		pet := FromDomainPet(*result.Pet)
		resp.Pet = &pet
	}
	return resp
}

// ToDraft converts a create payload into a draft. Absent fields stay at their zero value.
func ToDraft(model MutationPet) domain.Draft {
	pet := ToPatch(model).Apply(domain.Pet{})
	return domain.Draft{
		Type:         pet.Type,
		Name:         pet.Name,
		Description:  pet.Description,
		Images:       pet.Images,
		Tags:         pet.Tags,
		Age:          pet.Age,
		Size:         pet.Size,
		Weight:       pet.Weight,
		Location:     pet.Location,
		Coordinates:  pet.Coordinates,
		Address:      pet.Address,
		Vaccinated:   pet.Vaccinated,
		Castrated:    pet.Castrated,
		Temperament:  pet.Temperament,
		HealthStatus: pet.HealthStatus,
		Status:       pet.Status,
		OngID:        pet.OngID,
		TutorID:      pet.TutorID,
	}
}

// ToPatch converts an update payload into a domain patch while preserving field presence.
func ToPatch(model MutationPet) domain.Patch {
	patch := domain.Patch{
		Name:         cloneString(model.Name),
		Description:  cloneString(model.Description),
		Images:       cloneSlice(model.Images),
		Tags:         cloneSlice(model.Tags),
		Age:          cloneString(model.Age),
		Size:         cloneString(model.Size),
		Weight:       cloneString(model.Weight),
		Location:     cloneString(model.Location),
		Address:      cloneString(model.Address),
		Vaccinated:   cloneBool(model.Vaccinated),
		Castrated:    cloneBool(model.Castrated),
		Temperament:  cloneSlice(model.Temperament),
		HealthStatus: cloneString(model.HealthStatus),
		OngID:        cloneID(model.OngID),
		TutorID:      cloneID(model.TutorID),
	}
	if model.Type != nil {
		species := domain.Species(*model.Type)
		patch.Type = &species
	}
	if model.Status != nil {
		status := domain.Status(*model.Status)
		patch.Status = &status
	}
	if model.Coordinates != nil {
		patch.Coordinates = &domain.Coordinates{
			Latitude:  clonePointer(model.Coordinates.Latitude),
			Longitude: clonePointer(model.Coordinates.Longitude),
		}
	}
	return patch
}

func clonePointer(value *float64) *float64 {
	if value == nil {
		return nil
	}
	copy := *value
	return &copy
}

func cloneID(value *int64) *int64 {
	if value == nil {
		return nil
	}
	copy := *value
	return &copy
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	copy := *value
	return &copy
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	copy := *value
	return &copy
}

func cloneSlice(values *[]string) *[]string {
	if values == nil {
		return nil
	}
	copy := append([]string{}, (*values)...)
	return &copy
}
