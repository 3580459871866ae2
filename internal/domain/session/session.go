package session

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidRole = errors.New("invalid user role")
	ErrMissingID   = errors.New("missing session id")
)

type Role string

const (
	RoleImporter         Role = "IMPORTER"
	RoleExporter         Role = "EXPORTER"
	RoleAdmin            Role = "ADMIN"
	RoleShipmentProvider Role = "SHIPMENT_PROVIDER"
)

var Roles = []Role{RoleImporter, RoleExporter, RoleAdmin, RoleShipmentProvider}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if v == r {
			return true
		}
	}
	return false
}

func ParseRole(raw string) (Role, error) {
	r := Role(raw)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
	return r, nil
}

// Session is the ambient identity of a caller. It is not authenticated.
type Session struct {
	ID          string `json:"-"`
	CurrentUser string `json:"currentUser"`
	UserRole    Role   `json:"userRole"`
}

// New returns the default session: no user, importer role.
func New(id string) Session {
	return Session{ID: id, UserRole: RoleImporter}
}

type Repository interface {
	// Get returns the default session when none is stored.
	Get(ctx context.Context, id string) (Session, error)
	SetField(ctx context.Context, id, field, value string) error
}

const (
	FieldCurrentUser = "current_user"
	FieldUserRole    = "user_role"
)
