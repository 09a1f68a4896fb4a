// Package session models the signed-in user as a typed value that callers pass explicitly.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

// Role is the coarse user category used to pick owner defaults.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleOng     Role = "ONG"
	RoleTutor   Role = "TUTOR"
	RoleAdopter Role = "ADOTANTE"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	validate          = validator.New()
)

// Session is the current user: id, role and, for ONG members, the organization.
type Session struct {
	UserID         int64  `json:"id" validate:"gt=0"`
	Role           Role   `json:"role" validate:"required,oneof=ADMIN ONG TUTOR ADOTANTE"`
	OrganizationID *int64 `json:"ongId,omitempty"`
}

// Anonymous is the zero session; it attaches no owner fields.
var Anonymous = Session{}

// IsAnonymous reports whether no user is signed in.
func (s Session) IsAnonymous() bool {
	return s.UserID == 0
}

// Validate checks the session fields.
func (s Session) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if s.Role == RoleOng && s.OrganizationID == nil {
		return fmt.Errorf("%w: ONG sessions require an organization id", ErrInvalidSession)
	}
	return nil
}

// Decode parses the stored "current user" blob. An empty blob is the anonymous session.
func Decode(payload []byte) (Session, error) {
	if len(strings.TrimSpace(string(payload))) == 0 {
		return Anonymous, nil
	}
	var s Session
	if err := json.Unmarshal(payload, &s); err != nil {
		return Anonymous, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	s.Role = Role(strings.ToUpper(strings.TrimSpace(string(s.Role))))
	if err := s.Validate(); err != nil {
		return Anonymous, err
	}
	return s, nil
}

// Encode serializes the session in the stored blob format.
func (s Session) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// OwnerDefaults returns the owner fields attached to pets created in this session.
func (s Session) OwnerDefaults() (ongID, tutorID *int64) {
	switch s.Role {
	case RoleOng:
		if s.OrganizationID != nil {
			id := *s.OrganizationID
			ongID = &id
		}
	case RoleTutor:
		id := s.UserID
		tutorID = &id
	}
	return ongID, tutorID
}
