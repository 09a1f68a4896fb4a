package domain

import (
	"errors"
	"math"
	"reflect"
	"strings"
)

// Species is the declared animal type of a pet.
type Species string

const (
	SpeciesCat Species = "cat"
	SpeciesDog Species = "dog"
)

// Valid reports whether the species is one of the known values.
func (s Species) Valid() bool {
	return s == SpeciesCat || s == SpeciesDog
}

// Status represents the adoption lifecycle state of a pet.
type Status string

const (
	StatusAvailable   Status = "DISPONIVEL"
	StatusUnderReview Status = "RESERVADO"
	StatusAdopted     Status = "ADOTADO"
)

// Valid reports whether the status is one of the known lifecycle values.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusUnderReview, StatusAdopted:
		return true
	}
	return false
}

// PlaceholderImage is shown when a pet has no image references.
const PlaceholderImage = "/images/pet-placeholder.png"

var (
	ErrEmptyName      = errors.New("pet name is required")
	ErrInvalidSpecies = errors.New("pet type must be cat or dog")
	ErrInvalidStatus  = errors.New("pet status must be DISPONIVEL, RESERVADO or ADOTADO")
)

// Coordinates is a latitude/longitude pair where either side may be absent.
type Coordinates struct {
	Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
}

// Valid requires both values present, non-zero, non-NaN and inside their ranges.
func (c Coordinates) Valid() bool {
	if c.Latitude == nil || c.Longitude == nil {
		return false
	}
	lat, lng := *c.Latitude, *c.Longitude
	if math.IsNaN(lat) || math.IsNaN(lng) || lat == 0 || lng == 0 {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Pet is the adoptable animal record owned by the catalog cache.
type Pet struct {
	ID           int64       `json:"id" yaml:"id"`
	Type         Species     `json:"type" yaml:"type"`
	Name         string      `json:"name" yaml:"name"`
	Description  string      `json:"description" yaml:"description"`
	Images       []string    `json:"images" yaml:"images"`
	Tags         []string    `json:"tags" yaml:"tags"`
	Age          string      `json:"age" yaml:"age"`
	Size         string      `json:"size" yaml:"size"`
	Weight       string      `json:"weight" yaml:"weight"`
	Location     string      `json:"location" yaml:"location"`
	Coordinates  Coordinates `json:"coordinates" yaml:"coordinates"`
	Address      string      `json:"address" yaml:"address"`
	Vaccinated   bool        `json:"vaccinated" yaml:"vaccinated"`
	Castrated    bool        `json:"castrated" yaml:"castrated"`
	Temperament  []string    `json:"temperament" yaml:"temperament"`
	HealthStatus string      `json:"healthStatus" yaml:"healthStatus"`
	Status       Status      `json:"status,omitempty" yaml:"status,omitempty"`
	OngID        *int64      `json:"ongId,omitempty" yaml:"ongId,omitempty"`
	TutorID      *int64      `json:"tutorId,omitempty" yaml:"tutorId,omitempty"`
}

// DisplayStatus treats an absent status as available.
func (p Pet) DisplayStatus() Status {
	if p.Status == "" {
		return StatusAvailable
	}
	return p.Status
}

// DisplayImages falls back to the placeholder when no image is stored.
func (p Pet) DisplayImages() []string {
	if len(p.Images) == 0 {
		return []string{PlaceholderImage}
	}
	return append([]string{}, p.Images...)
}

// DisplayTags drops empty and whitespace-only tags.
func (p Pet) DisplayTags() []string {
	tags := make([]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// Clone returns a deep copy so callers never share slices or pointers with the cache.
func (p Pet) Clone() Pet {
	clone := p
	clone.Images = cloneStrings(p.Images)
	clone.Tags = cloneStrings(p.Tags)
	clone.Temperament = cloneStrings(p.Temperament)
	clone.Coordinates = Coordinates{
		Latitude:  cloneFloat(p.Coordinates.Latitude),
		Longitude: cloneFloat(p.Coordinates.Longitude),
	}
	clone.OngID = cloneInt64(p.OngID)
	clone.TutorID = cloneInt64(p.TutorID)
	return clone
}

// Equal reports whether both records hold the same values. Coordinates compare
// bit for bit so a NaN latitude equals itself.
func (p Pet) Equal(other Pet) bool {
	if !sameFloat(p.Coordinates.Latitude, other.Coordinates.Latitude) ||
		!sameFloat(p.Coordinates.Longitude, other.Coordinates.Longitude) {
		return false
	}
	p.Coordinates, other.Coordinates = Coordinates{}, Coordinates{}
	return reflect.DeepEqual(p, other)
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return math.Float64bits(*a) == math.Float64bits(*b)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	return append([]string{}, values...)
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	copy := *v
	return &copy
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	copy := *v
	return &copy
}
