package authz

import (
	"time"

	"github.com/google/uuid"

	"github.com/painelhub/accesskit/pkg/catalog"
)

// Session is the runtime identity the decision engine consumes. It is
// produced by an identity provider at login and treated as already
// validated: the engine performs no signature or expiry checks of its own.
//
// Permissions carries the flat list of effective permission keys, usually
// precomputed at login from the user's role and overrides.
type Session struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Email    string        `json:"email"`
	Scope    catalog.Scope `json:"scope"`
	TenantID *uuid.UUID    `json:"tenant_id,omitempty"`

	// IsAdminMaster marks a backoffice super-admin: every backoffice
	// permission is granted regardless of the explicit list.
	IsAdminMaster bool `json:"is_admin_master,omitempty"`

	// IsClientAdmin marks a portal tenant admin: every portal permission
	// is granted regardless of the explicit list. It never reaches across
	// tenants.
	IsClientAdmin bool `json:"is_client_admin,omitempty"`

	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsAuthenticated reports whether the session represents a signed-in
// identity. A nil session is the anonymous state.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.ID != uuid.Nil
}

// HasExplicit reports whether the key is present in the session's explicit
// permission list, ignoring any super-admin bypass.
func (s *Session) HasExplicit(key string) bool {
	if s == nil {
		return false
	}
	for _, p := range s.Permissions {
		if p == key {
			return true
		}
	}
	return false
}
