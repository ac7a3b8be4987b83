package rbac

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/painelhub/accesskit/pkg/catalog"
)

// validateScopeTenant enforces the scope/tenant pairing invariant: portal
// entities always carry a tenant, backoffice entities never do.
func validateScopeTenant(scope catalog.Scope, tenantID *uuid.UUID) error {
	switch scope {
	case catalog.ScopeBackoffice:
		if tenantID != nil {
			return fmt.Errorf("%w: backoffice entities carry no tenant", ErrInvalidScope)
		}
	case catalog.ScopePortal:
		if tenantID == nil {
			return fmt.Errorf("%w: portal entities require a tenant", ErrInvalidScope)
		}
	default:
		return fmt.Errorf("%w: unknown scope %q", ErrInvalidScope, scope)
	}
	return nil
}

// validateKey checks a single permission key against the catalog and the
// entity's scope.
func validateKey(cat *catalog.Catalog, scope catalog.Scope, key string) error {
	if !cat.InScope(key, scope) {
		return fmt.Errorf("%w: %q is not a %s permission", ErrInvalidPermission, key, scope)
	}
	return nil
}

// validateKeys checks every key of a permission set.
func validateKeys(cat *catalog.Catalog, scope catalog.Scope, keys []string) error {
	for _, key := range keys {
		if err := validateKey(cat, scope, key); err != nil {
			return err
		}
	}
	return nil
}

// sameTenant compares two nullable tenant references.
func sameTenant(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// normalizeEmail lowercases and trims an email for storage and comparison.
// Uniqueness within scope+tenant is checked on the normalized form.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateRoleInput checks structural validity of role creation input.
func validateRoleInput(cat *catalog.Catalog, input CreateRoleInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	if err := validateScopeTenant(input.Scope, input.TenantID); err != nil {
		return err
	}
	return validateKeys(cat, input.Scope, input.Permissions)
}

// validateUserInput checks structural validity of user creation input.
func validateUserInput(input CreateUserInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: user name is required", ErrInvalidInput)
	}
	if normalizeEmail(input.Email) == "" {
		return fmt.Errorf("%w: user email is required", ErrInvalidInput)
	}
	return validateScopeTenant(input.Scope, input.TenantID)
}

// validateAssignment checks that a role may be assigned to a user: same
// scope, same tenant.
func validateAssignment(user *User, role *Role) error {
	if role.Scope != user.Scope || !sameTenant(role.TenantID, user.TenantID) {
		return fmt.Errorf("%w: role %s does not belong to the user's scope and tenant", ErrScopeMismatch, role.ID)
	}
	return nil
}
