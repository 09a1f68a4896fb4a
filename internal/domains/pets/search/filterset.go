package search

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
)

// All is the sentinel meaning "no constraint" for every choice filter.
const All = "Todos"

// SpeciesChoice selects dogs or cats.
type SpeciesChoice string

const (
	SpeciesAll SpeciesChoice = All
	SpeciesDog SpeciesChoice = "Cachorro"
	SpeciesCat SpeciesChoice = "Gato"
)

// Species maps the choice onto the declared pet type.
func (c SpeciesChoice) Species() domain.Species {
	switch c {
	case SpeciesDog:
		return domain.SpeciesDog
	case SpeciesCat:
		return domain.SpeciesCat
	}
	return ""
}

// SizeChoice selects a size class by its localized name.
type SizeChoice string

const (
	SizeAll    SizeChoice = All
	SizeSmall  SizeChoice = "Pequeno"
	SizeMedium SizeChoice = "Médio"
	SizeLarge  SizeChoice = "Grande"
)

// SexChoice selects a sex; pets carry it as a tag.
type SexChoice string

const (
	SexAll    SexChoice = All
	SexMale   SexChoice = "Macho"
	SexFemale SexChoice = "Fêmea"
)

// StatusChoice selects a lifecycle status or every status.
type StatusChoice string

const StatusAll StatusChoice = All

// TriState is the yes/no/any filter used for vaccinated and castrated.
type TriState string

const (
	TriAll TriState = All
	TriYes TriState = "Sim"
	TriNo  TriState = "Não"
)

// FilterSet describes the current search intent.
type FilterSet struct {
	Species          SpeciesChoice `json:"especie"`
	Size             SizeChoice    `json:"porte"`
	Sex              SexChoice     `json:"sexo"`
	Status           StatusChoice  `json:"status"`
	Vaccinated       TriState      `json:"vacinado"`
	Castrated        TriState      `json:"castrado"`
	Location         string        `json:"localizacao"`
	MinCompatibility int           `json:"compatibilidadeMin"`
}

// DefaultFilterSet returns no constraints except status, which starts at DISPONIVEL.
func DefaultFilterSet() FilterSet {
	return FilterSet{
		Species:    SpeciesAll,
		Size:       SizeAll,
		Sex:        SexAll,
		Status:     StatusChoice(domain.StatusAvailable),
		Vaccinated: TriAll,
		Castrated:  TriAll,
	}
}

var ErrInvalidFilter = errors.New("invalid filter")

// ParseFilterSet reads a filter set from query parameters, starting from the defaults.
// Known values are matched case-insensitively; unknown ones are rejected.
func ParseFilterSet(values url.Values) (FilterSet, error) {
	fs := DefaultFilterSet()
	var err error
	if raw, ok := lookup(values, "especie"); ok {
		var v string
		v, err = pick(raw, "especie", string(SpeciesAll), string(SpeciesDog), string(SpeciesCat))
		fs.Species = SpeciesChoice(v)
	}
	if raw, ok := lookup(values, "porte"); ok && err == nil {
		var v string
		v, err = pick(raw, "porte", string(SizeAll), string(SizeSmall), string(SizeMedium), string(SizeLarge))
		fs.Size = SizeChoice(v)
	}
	if raw, ok := lookup(values, "sexo"); ok && err == nil {
		var v string
		v, err = pick(raw, "sexo", string(SexAll), string(SexMale), string(SexFemale))
		fs.Sex = SexChoice(v)
	}
	if raw, ok := lookup(values, "status"); ok && err == nil {
		var v string
		v, err = pick(raw, "status", All, string(domain.StatusAvailable), string(domain.StatusUnderReview), string(domain.StatusAdopted))
		fs.Status = StatusChoice(v)
	}
	if raw, ok := lookup(values, "vacinado"); ok && err == nil {
		var v string
		v, err = pick(raw, "vacinado", string(TriAll), string(TriYes), string(TriNo))
		fs.Vaccinated = TriState(v)
	}
	if raw, ok := lookup(values, "castrado"); ok && err == nil {
		var v string
		v, err = pick(raw, "castrado", string(TriAll), string(TriYes), string(TriNo))
		fs.Castrated = TriState(v)
	}
	if err != nil {
		return FilterSet{}, err
	}
	fs.Location = strings.TrimSpace(values.Get("localizacao"))
	if raw, ok := lookup(values, "compatibilidadeMin"); ok {
		min, convErr := strconv.Atoi(raw)
		if convErr != nil || min < 0 || min > 100 {
			return FilterSet{}, fmt.Errorf("%w: compatibilidadeMin must be an integer between 0 and 100", ErrInvalidFilter)
		}
		fs.MinCompatibility = min
	}
	return fs, nil
}

func lookup(values url.Values, key string) (string, bool) {
	raw := strings.TrimSpace(values.Get(key))
	return raw, raw != ""
}

func pick(raw, field string, allowed ...string) (string, error) {
	for _, candidate := range allowed {
		if strings.EqualFold(raw, candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s must be one of %s", ErrInvalidFilter, field, strings.Join(allowed, ", "))
}
