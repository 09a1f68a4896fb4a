package application

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/session"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid pet input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrInvalidSpecies) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, session.ErrInvalidSession) ||
		errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// remoteError tags failures from the backend path so adapters can map them uniformly.
func remoteError(op string, err error) error {
	if errors.Is(err, ports.ErrRemote) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ports.ErrRemote, err)
}

func notFound(id int64) error {
	return fmt.Errorf("%w: id %d", ports.ErrNotFound, id)
}
