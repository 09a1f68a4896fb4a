//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"

	catalogserver "github.com/Apurer/pet-adoption-catalog/go"
	petsmemory "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/memory"
	petsobs "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/observability"
	petsapp "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application"
	petdomain "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	pacttest "github.com/Apurer/pet-adoption-catalog/test/pact"
)

func TestCatalogProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StatePetsBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetPets()
			return nil, nil
		},
		pacttest.StatePetExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetPets()
			if setup {
				app.seedPet(pacttest.ExistingPetID)
			}
			return nil, nil
		},
		pacttest.StatePetMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetPets()
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetPets()
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	cache  *petsapp.Cache
	server *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	cache := petsapp.NewCache(context.Background(), petsmemory.NewSnapshotStore())
	petService := petsobs.New(petsapp.NewCatalog(cache))

	router := gin.New()
	router.Use(gin.Recovery())
	router = catalogserver.NewRouterWithGinEngine(router, catalogserver.ApiHandleFunctions{
		PetAPI: catalogserver.NewPetAPI(petService),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &contractProviderApp{cache: cache, server: server}
}

func (a *contractProviderApp) resetPets() {
	a.cache.ReplaceAll(context.Background(), nil)
}

func (a *contractProviderApp) seedPet(id int64) {
	a.cache.Restore(context.Background(), petdomain.Pet{
		ID:     id,
		Type:   petdomain.SpeciesCat,
		Name:   "Fluffy Pact Cat",
		Images: []string{"https://example.pact/pets/fluffy.png"},
		Status: petdomain.StatusAvailable,
	})
}
