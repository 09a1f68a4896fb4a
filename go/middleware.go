package catalogserver

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/session"
	apierrors "github.com/Apurer/pet-adoption-catalog/internal/shared/errors"
)

const (
	HeaderRequestID      = "X-Request-Id"
	HeaderUserID         = "X-User-Id"
	HeaderUserRole       = "X-User-Role"
	HeaderOrganizationID = "X-Organization-Id"

	sessionKey = "catalog.session"
)

// RequestID echoes the caller's request id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(apierrors.RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// SessionFromHeaders builds the current session from the identity headers.
// No user id means an anonymous caller.
func SessionFromHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		current, err := sessionFromHeaders(c)
		if err != nil {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail(err.Error()))
			c.Abort()
			return
		}
		c.Set(sessionKey, current)
		c.Next()
	}
}

// CurrentSession returns the session stored by SessionFromHeaders.
func CurrentSession(c *gin.Context) session.Session {
	if value, ok := c.Get(sessionKey); ok {
		if current, ok := value.(session.Session); ok {
			return current
		}
	}
	return session.Anonymous
}

func sessionFromHeaders(c *gin.Context) (session.Session, error) {
	rawID := strings.TrimSpace(c.GetHeader(HeaderUserID))
	if rawID == "" {
		return session.Anonymous, nil
	}
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return session.Anonymous, session.ErrInvalidSession
	}
	current := session.Session{
		UserID: userID,
		Role:   session.Role(strings.ToUpper(strings.TrimSpace(c.GetHeader(HeaderUserRole)))),
	}
	if rawOrg := strings.TrimSpace(c.GetHeader(HeaderOrganizationID)); rawOrg != "" {
		orgID, err := strconv.ParseInt(rawOrg, 10, 64)
		if err != nil {
			return session.Anonymous, session.ErrInvalidSession
		}
		current.OrganizationID = &orgID
	}
	if err := current.Validate(); err != nil {
		return session.Anonymous, err
	}
	return current, nil
}
