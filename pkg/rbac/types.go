package rbac

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/painelhub/accesskit/pkg/catalog"
)

// Role is a named, scope-bound set of permission keys. Portal roles belong
// to exactly one tenant; backoffice roles have no tenant. Scope and tenant
// are immutable after creation.
type Role struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Scope       catalog.Scope `json:"scope"`
	TenantID    *uuid.UUID    `json:"tenant_id,omitempty"`
	Permissions []string      `json:"permissions"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Grants reports whether the role's permission set contains the key.
func (r *Role) Grants(key string) bool {
	return r != nil && slices.Contains(r.Permissions, key)
}

// User is a managed identity, distinct from the runtime Session an identity
// provider materializes at login. RoleID is nil for users with no role; such
// users have zero role-derived permissions. Overrides maps permission keys
// to explicit grant/deny decisions; a key absent from the map inherits from
// the role.
type User struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Scope     catalog.Scope   `json:"scope"`
	TenantID  *uuid.UUID      `json:"tenant_id,omitempty"`
	RoleID    *uuid.UUID      `json:"role_id,omitempty"`
	Overrides map[string]bool `json:"overrides,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ChangeOp identifies the kind of store mutation reported to change hooks.
type ChangeOp string

const (
	OpCreate ChangeOp = "create"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// ChangeEntity identifies which entity a change touched.
type ChangeEntity string

const (
	EntityRole ChangeEntity = "role"
	EntityUser ChangeEntity = "user"
)

// ChangeEvent describes a successful store mutation. It is delivered to the
// WithAfterChange hook, the extension point for audit trails.
type ChangeEvent struct {
	Op     ChangeOp     `json:"op"`
	Entity ChangeEntity `json:"entity"`
	ID     uuid.UUID    `json:"id"`
	At     time.Time    `json:"at"`
}
