package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Draft is a pet record that has not been assigned an identifier yet.
type Draft struct {
	Type         Species     `json:"type" validate:"required,oneof=cat dog"`
	Name         string      `json:"name" validate:"required"`
	Description  string      `json:"description"`
	Images       []string    `json:"images"`
	Tags         []string    `json:"tags"`
	Age          string      `json:"age"`
	Size         string      `json:"size"`
	Weight       string      `json:"weight"`
	Location     string      `json:"location"`
	Coordinates  Coordinates `json:"coordinates"`
	Address      string      `json:"address"`
	Vaccinated   bool        `json:"vaccinated"`
	Castrated    bool        `json:"castrated"`
	Temperament  []string    `json:"temperament"`
	HealthStatus string      `json:"healthStatus"`
	Status       Status      `json:"status" validate:"omitempty,oneof=DISPONIVEL RESERVADO ADOTADO"`
	OngID        *int64      `json:"ongId"`
	TutorID      *int64      `json:"tutorId"`
}

// Validate checks the fields required before a draft can enter the catalog.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if err := validate.Struct(d); err != nil {
		return translateValidation(err)
	}
	return nil
}

// WithID materializes the draft as a pet carrying the given identifier.
func (d Draft) WithID(id int64) Pet {
	return Pet{
		ID:           id,
		Type:         d.Type,
		Name:         d.Name,
		Description:  d.Description,
		Images:       cloneStrings(d.Images),
		Tags:         cloneStrings(d.Tags),
		Age:          d.Age,
		Size:         d.Size,
		Weight:       d.Weight,
		Location:     d.Location,
		Coordinates:  Coordinates{Latitude: cloneFloat(d.Coordinates.Latitude), Longitude: cloneFloat(d.Coordinates.Longitude)},
		Address:      d.Address,
		Vaccinated:   d.Vaccinated,
		Castrated:    d.Castrated,
		Temperament:  cloneStrings(d.Temperament),
		HealthStatus: d.HealthStatus,
		Status:       d.Status,
		OngID:        cloneInt64(d.OngID),
		TutorID:      cloneInt64(d.TutorID),
	}
}

// Patch carries a partial update; nil fields are left untouched.
type Patch struct {
	Type         *Species     `json:"type,omitempty"`
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
	Status       *Status      `json:"status,omitempty"`
	OngID        *int64       `json:"ongId,omitempty"`
	TutorID      *int64       `json:"tutorId,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// Validate rejects values that would break pet invariants.
func (p Patch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrEmptyName
	}
	if p.Type != nil && !p.Type.Valid() {
		return ErrInvalidSpecies
	}
	if p.Status != nil && *p.Status != "" && !p.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

// Apply merges the supplied fields over target. The identifier never changes.
func (p Patch) Apply(target Pet) Pet {
	out := target.Clone()
	if p.Type != nil {
		out.Type = *p.Type
	}
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Images != nil {
		out.Images = cloneStrings(*p.Images)
	}
	if p.Tags != nil {
		out.Tags = cloneStrings(*p.Tags)
	}
	if p.Age != nil {
		out.Age = *p.Age
	}
	if p.Size != nil {
		out.Size = *p.Size
	}
	if p.Weight != nil {
		out.Weight = *p.Weight
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Coordinates != nil {
		out.Coordinates = Coordinates{
			Latitude:  cloneFloat(p.Coordinates.Latitude),
			Longitude: cloneFloat(p.Coordinates.Longitude),
		}
	}
	if p.Address != nil {
		out.Address = *p.Address
	}
	if p.Vaccinated != nil {
		out.Vaccinated = *p.Vaccinated
	}
	if p.Castrated != nil {
		out.Castrated = *p.Castrated
	}
	if p.Temperament != nil {
		out.Temperament = cloneStrings(*p.Temperament)
	}
	if p.HealthStatus != nil {
		out.HealthStatus = *p.HealthStatus
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.OngID != nil {
		out.OngID = cloneInt64(p.OngID)
	}
	if p.TutorID != nil {
		out.TutorID = cloneInt64(p.TutorID)
	}
	out.ID = target.ID
	return out
}

func translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, fe := range verrs {
		switch fe.Field() {
		case "Name":
			return ErrEmptyName
		case "Type":
			return ErrInvalidSpecies
		case "Status":
			return ErrInvalidStatus
		}
	}
	return fmt.Errorf("invalid pet: %w", err)
}
