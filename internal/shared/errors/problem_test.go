package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestWithExtension_DoesNotShareMaps(t *testing.T) {
	base := ErrValidation.WithExtension("fields", map[string]string{"name": "required"})
	tagged := base.WithSeverity(SeverityInfo)

	require.NotContains(t, base.Extensions, SeverityExtension)
	require.Equal(t, SeverityInfo, tagged.SeverityOf())
	require.Nil(t, ErrValidation.Extensions)
}

func TestSeverityOf_DefaultsByStatus(t *testing.T) {
	require.Equal(t, SeverityWarning, ErrNotFound.SeverityOf())
	require.Equal(t, SeverityError, ErrBadGateway.SeverityOf())
	require.Equal(t, SeveritySuccess, ErrConflict.WithSeverity(SeveritySuccess).SeverityOf())
}

func TestRespond_WritesProblemJSONWithSeverity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/pets/9", nil)

	NewResponder("https://catalog.example").Respond(c, NewNotFoundProblem("pet", 9))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "https://catalog.example"+TypeNotFound, body.Type)
	require.Equal(t, "/v1/pets/9", body.Instance)
	require.Equal(t, "warning", body.Extensions[SeverityExtension])
}

func TestRespondError_MapperThenFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)
	missing := errors.New("missing pet")
	responder := NewResponder("", func(err error) (ProblemDetail, bool) {
		if errors.Is(err, missing) {
			return ErrNotFound.WithDetail(err.Error()), true
		}
		return ProblemDetail{}, false
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/pets/3", nil)
	c.Set(RequestIDKey, "req-1")
	responder.RespondError(c, fmt.Errorf("lookup: %w", missing))
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "req-1", body.Extensions["requestId"])

	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/v1/pets", nil)
	responder.RespondError(c, errors.New("disk on fire"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "disk on fire")
}
