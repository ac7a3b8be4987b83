package rbac

import (
	"context"

	"github.com/google/uuid"

	"github.com/painelhub/accesskit/pkg/catalog"
)

// RoleFilter narrows ListRoles. Scope is required; TenantID nil means
// "no tenant filter" (backoffice listings, where tenant is always null).
type RoleFilter struct {
	Scope    catalog.Scope
	TenantID *uuid.UUID
}

// UserFilter narrows ListUsers. Scope is required; TenantID and Email are
// optional exact-match filters. Email matching is case-insensitive.
type UserFilter struct {
	Scope    catalog.Scope
	TenantID *uuid.UUID
	Email    string
}

// CreateRoleInput carries the fields for role creation. Scope and tenant
// must pair correctly and every permission key must belong to the scope.
type CreateRoleInput struct {
	Name        string
	Description string
	Scope       catalog.Scope
	TenantID    *uuid.UUID
	Permissions []string
}

// UpdateRoleInput updates mutable role fields; nil fields are left
// unchanged. Scope and tenant are immutable; the permission set is replaced
// through ReplaceRolePermissions.
type UpdateRoleInput struct {
	Name        *string
	Description *string
}

// CreateUserInput carries the fields for user creation. RoleID, if set,
// must reference a role of the same scope+tenant.
type CreateUserInput struct {
	Name     string
	Email    string
	Scope    catalog.Scope
	TenantID *uuid.UUID
	RoleID   *uuid.UUID
}

// UpdateUserInput updates mutable user fields; nil fields are left unchanged.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// Store is the CRUD surface over roles and users. Implementations must
// serialize read-modify-write operations per entity and serialize the
// role-delete referential check against concurrent user creation and role
// assignment, so the "unreferenced" observation cannot go stale between
// check and delete.
type Store interface {
	ListRoles(ctx context.Context, filter RoleFilter) ([]Role, error)
	GetRole(ctx context.Context, id uuid.UUID) (*Role, error)
	CreateRole(ctx context.Context, input CreateRoleInput) (*Role, error)
	UpdateRole(ctx context.Context, id uuid.UUID, input UpdateRoleInput) (*Role, error)

	// ReplaceRolePermissions swaps the role's entire permission set after
	// re-validating scope membership of every key.
	ReplaceRolePermissions(ctx context.Context, id uuid.UUID, permissions []string) (*Role, error)

	// DeleteRole removes the role, failing with ErrRoleInUse while at
	// least one user references it.
	DeleteRole(ctx context.Context, id uuid.UUID) error

	ListUsers(ctx context.Context, filter UserFilter) ([]User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*User, error)

	// DeleteUser removes the user unconditionally; nothing references users.
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// SetOverride inserts or replaces a single override entry.
	SetOverride(ctx context.Context, userID uuid.UUID, key string, allowed bool) (*User, error)

	// RemoveOverride deletes the entry if present; a no-op when absent.
	RemoveOverride(ctx context.Context, userID uuid.UUID, key string) (*User, error)

	// AssignRole points the user at a role of the same scope+tenant, or
	// clears the assignment when roleID is nil.
	AssignRole(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID) (*User, error)
}
