// Package identity carries the authenticated caller through request contexts.
package identity

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// Role names recognised by role gates.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Identity is the minimal view of the caller attached by the auth middleware.
type Identity struct {
	ID    uuid.UUID
	Email string
	Name  string
	Roles []string
}

// HasRole reports whether the caller holds role.
func (i *Identity) HasRole(role string) bool {
	return slices.Contains(i.Roles, role)
}

// HasAnyRole reports whether the caller holds at least one of roles.
// An empty list always matches.
func (i *Identity) HasAnyRole(roles ...string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if i.HasRole(r) {
			return true
		}
	}
	return false
}

// IsAdmin is shorthand for HasRole(RoleAdmin).
func (i *Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

type contextKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the caller, if the request was authenticated.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}
