package application

import (
	"context"
	"errors"
	"fmt"

	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
)

// ErrUnknownPublication is returned for a command kind the backend has no call for.
var ErrUnknownPublication = errors.New("unknown publication kind")

// PublishToRemote performs the backend call matching cmd.Kind.
func PublishToRemote(ctx context.Context, remote ports.RemoteCatalog, cmd petstypes.PublishCommand) (*petstypes.PublishResult, error) {
	if remote == nil {
		return nil, fmt.Errorf("%w: backend is not configured", ports.ErrRemote)
	}
	switch cmd.Kind {
	case petstypes.PublishCreate:
		created, err := remote.Create(ctx, cmd.Pet)
		if err != nil {
			return nil, err
		}
		return &petstypes.PublishResult{Pet: &created}, nil
	case petstypes.PublishUpdate:
		return &petstypes.PublishResult{}, remote.Update(ctx, cmd.Pet)
	case petstypes.PublishDelete:
		return &petstypes.PublishResult{}, remote.Delete(ctx, cmd.Pet.ID)
	case petstypes.PublishAdopt:
		return &petstypes.PublishResult{}, remote.Adopt(ctx, cmd.Pet.ID, cmd.AdopterID)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPublication, cmd.Kind)
}
