package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// RequestIDKey is the gin context key holding the request correlation id.
// When present it is echoed as the "requestId" extension.
const RequestIDKey = "X-Request-Id"

// ErrorMapper turns an application error into the alert shown to the client.
// It reports false for errors it does not recognize.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes problem details, consulting its mappers for plain errors.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
	logger  *slog.Logger
}

// NewResponder creates a responder. Relative problem types are prefixed with baseURI.
func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{baseURI: baseURI, mappers: mappers}
}

// WithLogger returns a copy that logs unmapped errors before answering 500.
func (r *Responder) WithLogger(logger *slog.Logger) *Responder {
	clone := *r
	clone.logger = logger
	return &clone
}

var defaultResponder = NewResponder("")

// Respond sends problem with the problem+json content type. Instance defaults
// to the request path and severity to the status-derived level.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if _, ok := problem.Extensions[SeverityExtension]; !ok {
		problem = problem.WithSeverity(problem.SeverityOf())
	}
	if id := c.GetString(RequestIDKey); id != "" {
		problem = problem.WithExtension("requestId", id)
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError answers with the first mapper match, an embedded ProblemDetail,
// or a generic 500 whose detail does not leak the error text.
func (r *Responder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	if r.logger != nil {
		r.logger.ErrorContext(c.Request.Context(), "unmapped error", slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
	}
	r.Respond(c, ErrInternal.WithDetail("unexpected error while handling the request"))
}

// Respond sends problem through the default responder.
func Respond(c *gin.Context, problem ProblemDetail) {
	defaultResponder.Respond(c, problem)
}
