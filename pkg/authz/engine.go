package authz

import (
	"github.com/google/uuid"

	"github.com/painelhub/accesskit/pkg/catalog"
)

// Engine answers authorization queries against a permission catalog.
// It is stateless and safe for concurrent use; callers hold and pass the
// engine explicitly rather than relying on ambient globals.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates an engine bound to the given catalog. A nil catalog is
// replaced with an empty one, which denies every key-scope question.
func NewEngine(cat *catalog.Catalog) *Engine {
	if cat == nil {
		cat = catalog.New()
	}
	return &Engine{catalog: cat}
}

// HasPermission reports whether the session holds the permission key.
//
// A nil session is always denied. A scope super-admin (see BasisFor) is
// granted any catalog key of its elevated scope unconditionally; everything
// else falls through to the session's explicit permission list.
func (e *Engine) HasPermission(s *Session, key string) bool {
	if s == nil {
		return false
	}

	if keyScope, ok := e.catalog.ScopeOf(key); ok {
		if BasisFor(s, keyScope) == BasisScopeSuperAdmin {
			return true
		}
	}

	return s.HasExplicit(key)
}

// HasAny reports whether the session holds at least one of the keys.
// An empty key list yields false; "no requirement" short-circuits are the
// route-level check's concern, not this one's.
func (e *Engine) HasAny(s *Session, keys ...string) bool {
	for _, key := range keys {
		if e.HasPermission(s, key) {
			return true
		}
	}
	return false
}

// HasAll reports whether the session holds every key.
// Vacuously true for an empty list, but still false for a nil session.
func (e *Engine) HasAll(s *Session, keys ...string) bool {
	if s == nil {
		return false
	}
	for _, key := range keys {
		if !e.HasPermission(s, key) {
			return false
		}
	}
	return true
}

// CanAccessScope reports whether the session belongs to the given scope.
// Scopes never cross-authorize: no flag or permission makes a portal
// session pass a backoffice check or vice versa.
func (e *Engine) CanAccessScope(s *Session, scope catalog.Scope) bool {
	return s != nil && s.Scope == scope
}

// AssertTenant reports whether the session may act on the given tenant.
//
// For backoffice sessions only the admin-master has cross-tenant rights.
// For portal sessions the tenant must match exactly; a client admin of a
// different tenant is denied like anyone else.
func (e *Engine) AssertTenant(s *Session, tenantID uuid.UUID) bool {
	if s == nil {
		return false
	}

	switch s.Scope {
	case catalog.ScopeBackoffice:
		return s.IsAdminMaster
	case catalog.ScopePortal:
		return s.TenantID != nil && *s.TenantID == tenantID
	default:
		return false
	}
}

// CanAccessRoute is the route-level decision:
//
//  1. Deny unless the session belongs to the route's scope.
//  2. Allow if the route requires no permissions.
//  3. Otherwise allow iff the session holds at least one required key.
//
// The caller (a route guard) is responsible for redirecting or denying and
// for any user-visible messaging.
func (e *Engine) CanAccessRoute(s *Session, routeScope catalog.Scope, routePermissions []string) bool {
	if !e.CanAccessScope(s, routeScope) {
		return false
	}
	if len(routePermissions) == 0 {
		return true
	}
	return e.HasAny(s, routePermissions...)
}
