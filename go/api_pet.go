package catalogserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	pethttpmapper "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/http/mapper"
	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	petsports "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/search"
	apierrors "github.com/Apurer/pet-adoption-catalog/internal/shared/errors"
)

// PetAPI wires HTTP transport with the pet catalog service.
type PetAPI struct {
	service petsports.Service
}

// NewPetAPI creates a PetAPI backed by the provided service.
func NewPetAPI(service petsports.Service) PetAPI {
	return PetAPI{service: service}
}

// Get /v1/pets
// Lists the visible pets for the query, filters and adopter
func (api *PetAPI) SearchPets(c *gin.Context) {
	values := c.Request.URL.Query()
	filters, err := search.ParseFilterSet(values)
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	input := petstypes.SearchInput{Query: values.Get("q"), Filters: filters}
	if raw := strings.TrimSpace(values.Get("adotanteId")); raw != "" {
		adopterID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || adopterID < 0 {
			respondProblem(c, apierrors.ErrBadRequest.WithDetail("adotanteId must be a positive integer"))
			return
		}
		input.AdopterID = adopterID
	}
	result, err := api.service.Search(c.Request.Context(), input)
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.Header("X-Catalog-Version", strconv.FormatUint(result.SnapshotVersion, 10))
	c.JSON(http.StatusOK, pethttpmapper.FromViewList(result.Pets))
}

// Get /v1/pets/:petId
// Find pet by ID
func (api *PetAPI) GetPetById(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	view, err := api.service.Get(c.Request.Context(), petstypes.PetIdentifier{ID: id})
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromView(*view))
}

// Post /v1/pets
// Add a new pet owned by the current session
func (api *PetAPI) AddPet(c *gin.Context) {
	var payload pethttpmapper.MutationPet
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	input := petstypes.CreatePetInput{Draft: pethttpmapper.ToDraft(payload)}
	view, err := api.service.Create(c.Request.Context(), CurrentSession(c), input)
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pethttpmapper.FromView(*view))
}

// Patch /v1/pets/:petId
// Merge the supplied fields into an existing pet
func (api *PetAPI) UpdatePet(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	var payload pethttpmapper.MutationPet
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	result, err := api.service.Update(c.Request.Context(), petstypes.UpdatePetInput{ID: id, Patch: pethttpmapper.ToPatch(payload)})
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromMutationResult(result))
}

// Delete /v1/pets/:petId
// Deletes a pet
func (api *PetAPI) DeletePet(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	result, err := api.service.Delete(c.Request.Context(), petstypes.PetIdentifier{ID: id})
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromMutationResult(result))
}

// Post /v1/pets/:petId/adopt
// Starts the adoption of a pet for an adopter
func (api *PetAPI) AdoptPet(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	var payload pethttpmapper.AdoptRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	view, err := api.service.Adopt(c.Request.Context(), petstypes.AdoptPetInput{PetID: id, AdopterID: payload.AdotanteID})
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.FromView(*view))
}

// Post /v1/pets/refresh
// Replaces the cached catalog with the backend listing
func (api *PetAPI) RefreshPets(c *gin.Context) {
	result, err := api.service.Refresh(c.Request.Context())
	if err != nil {
		respondPetServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pethttpmapper.RefreshResponse{Count: result.Count, Version: result.SnapshotVersion})
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(name+" must be a positive integer"))
		return 0, false
	}
	return id, true
}
