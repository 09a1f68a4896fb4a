package catalogserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	petsapp "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application"
	petsports "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/search"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/session"
	apierrors "github.com/Apurer/pet-adoption-catalog/internal/shared/errors"
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	apierrors.Respond(c, problem)
}

// petProblem turns catalog errors into the alert the client shows.
func petProblem(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, petsports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	case errors.Is(err, petsapp.ErrInvalidInput),
		errors.Is(err, search.ErrInvalidFilter),
		errors.Is(err, session.ErrInvalidSession):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, petsports.ErrRemote):
		return apierrors.ErrBadGateway.WithDetail(err.Error()).WithSeverity(apierrors.SeverityError), true
	}
	return apierrors.ProblemDetail{}, false
}

var petResponder = apierrors.NewResponder("", petProblem)

func respondPetServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	petResponder.RespondError(c, err)
}
