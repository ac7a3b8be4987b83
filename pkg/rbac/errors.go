package rbac

import "errors"

// Domain errors for role and user store operations. Invalid writes are
// always rejected with one of these, never silently truncated.
var (
	// ErrNotFound is returned when no role or user exists for the given id.
	ErrNotFound = errors.New("rbac.not_found")

	// ErrInvalidScope is returned on a scope/tenant mismatch at creation:
	// a portal entity without a tenant, or a backoffice entity with one.
	ErrInvalidScope = errors.New("rbac.invalid_scope")

	// ErrInvalidPermission is returned when a permission key is outside
	// the catalog or outside the entity's scope.
	ErrInvalidPermission = errors.New("rbac.invalid_permission")

	// ErrScopeMismatch is returned when a role is assigned to a user of a
	// different scope or tenant.
	ErrScopeMismatch = errors.New("rbac.scope_mismatch")

	// ErrRoleInUse is returned when deleting a role that users still reference.
	ErrRoleInUse = errors.New("rbac.role_in_use")

	// ErrEmailTaken is returned when another user in the same scope+tenant
	// already has the email.
	ErrEmailTaken = errors.New("rbac.email_taken")

	// ErrInvalidInput is returned for structurally invalid input, such as
	// an empty name or email.
	ErrInvalidInput = errors.New("rbac.invalid_input")
)
