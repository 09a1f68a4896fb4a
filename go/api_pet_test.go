package catalogserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	pethttpmapper "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/http/mapper"
	petsmemory "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/adapters/memory"
	petsapp "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application"
	petstypes "github.com/Apurer/pet-adoption-catalog/internal/domains/pets/application/types"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/domain"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	apierrors "github.com/Apurer/pet-adoption-catalog/internal/shared/errors"
)

type scriptedOrchestrator struct {
	err      error
	commands []petstypes.PublishCommand
}

func (o *scriptedOrchestrator) Publish(_ context.Context, cmd petstypes.PublishCommand) (*petstypes.PublishResult, error) {
	o.commands = append(o.commands, cmd)
	if o.err != nil {
		return nil, o.err
	}
	return &petstypes.PublishResult{}, nil
}

type staticScores map[int64]int

func (s staticScores) Compatibility(context.Context, int64) (map[int64]int, error) {
	return s, nil
}

type testServer struct {
	router       *gin.Engine
	orchestrator *scriptedOrchestrator
	cache        *petsapp.Cache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	cache := petsapp.NewCache(ctx, petsmemory.NewSnapshotStore())
	orchestrator := &scriptedOrchestrator{}
	tracker := petsapp.NewCompatibilityTracker(staticScores{1: 90, 2: 35})
	t.Cleanup(tracker.Close)
	service := petsapp.NewCatalog(cache,
		petsapp.WithOrchestrator(orchestrator),
		petsapp.WithCompatibility(tracker),
	)
	router := NewRouter(ApiHandleFunctions{PetAPI: NewPetAPI(service)})
	return &testServer{router: router, orchestrator: orchestrator, cache: cache}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apierrors.ProblemDetail {
	t.Helper()
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return problem
}

func TestSearchPets_DefaultsToAvailable(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/pets", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	var pets []pethttpmapper.Pet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pets))
	require.NotEmpty(t, pets)
	for i, pet := range pets {
		require.Equal(t, string(domain.StatusAvailable), pet.Status)
		require.Nil(t, pet.Compatibilidade)
		if i > 0 {
			require.Greater(t, pet.ID, pets[i-1].ID)
		}
	}
}

func TestSearchPets_AppliesCompatibilityMinimum(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/pets?status=todos&adotanteId=7&compatibilidadeMin=50", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var pets []pethttpmapper.Pet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pets))
	require.Len(t, pets, 1)
	require.Equal(t, int64(1), pets[0].ID)
	require.Equal(t, 90, *pets[0].Compatibilidade)
}

func TestSearchPets_RejectsUnknownFilter(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/pets?porte=gigante", nil, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, apierrors.TypeValidation, problem.Type)
	require.Equal(t, "warning", problem.Extensions[apierrors.SeverityExtension])
}

func TestGetPet_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/pets/999", nil, nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, apierrors.TypeNotFound, decodeProblem(t, rec).Type)
}

func TestGetPet_InvalidID(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/v1/pets/abc", nil, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddPet_AttachesTutorFromSession(t *testing.T) {
	srv := newTestServer(t)
	before := srv.cache.Len()

	rec := srv.do(t, http.MethodPost, "/v1/pets", map[string]any{"name": "Bidu", "type": "dog"}, map[string]string{
		HeaderUserID:   "42",
		HeaderUserRole: "tutor",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var pet pethttpmapper.Pet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pet))
	require.NotNil(t, pet.TutorID)
	require.Equal(t, int64(42), *pet.TutorID)
	require.Equal(t, []string{domain.PlaceholderImage}, pet.Images)
	require.Equal(t, before+1, srv.cache.Len())
	require.Len(t, srv.orchestrator.commands, 1)
	require.Equal(t, petstypes.PublishCreate, srv.orchestrator.commands[0].Kind)
}

func TestAddPet_ValidationFailsBeforePublishing(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/pets", map[string]any{"name": "  ", "type": "dog"}, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, srv.orchestrator.commands)
}

func TestAddPet_InvalidSessionHeaders(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/pets", map[string]any{"name": "Bidu", "type": "dog"}, map[string]string{
		HeaderUserID:   "42",
		HeaderUserRole: "ONG",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, srv.orchestrator.commands)
}

func TestAddPet_BackendFailureIsBadGateway(t *testing.T) {
	srv := newTestServer(t)
	srv.orchestrator.err = fmt.Errorf("publish: %w", ports.ErrRemote)
	before := srv.cache.Len()

	rec := srv.do(t, http.MethodPost, "/v1/pets", map[string]any{"name": "Bidu", "type": "dog"}, nil)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	problem := decodeProblem(t, rec)
	require.Equal(t, "error", problem.Extensions[apierrors.SeverityExtension])
	require.Equal(t, before, srv.cache.Len())
}

func TestUpdatePet_MergesFieldsAndReportsMissing(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPatch, "/v1/pets/1", map[string]any{"status": "RESERVADO"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp pethttpmapper.MutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Changed)
	require.Equal(t, string(domain.StatusUnderReview), resp.Pet.Status)

	pet, ok := srv.cache.GetByID(1)
	require.True(t, ok)
	require.NotEmpty(t, pet.Name)

	rec = srv.do(t, http.MethodPatch, "/v1/pets/999", map[string]any{"name": "Ghost"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Changed)
}

func TestDeletePet(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodDelete, "/v1/pets/2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok := srv.cache.GetByID(2)
	require.False(t, ok)

	rec = srv.do(t, http.MethodDelete, "/v1/pets/2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp pethttpmapper.MutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Changed)
}

func TestAdoptPet(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/pets/1/adopt", map[string]any{"adotanteId": 7}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pet pethttpmapper.Pet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pet))
	require.Equal(t, string(domain.StatusUnderReview), pet.Status)

	rec = srv.do(t, http.MethodPost, "/v1/pets/999/adopt", map[string]any{"adotanteId": 7}, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/v1/pets/1/adopt", map[string]any{}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshPets_WithoutBackend(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/v1/pets/refresh", nil, nil)

	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/healthz", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPetProblem_UnknownErrorFallsThrough(t *testing.T) {
	_, ok := petProblem(errors.New("boom"))
	require.False(t, ok)
}
