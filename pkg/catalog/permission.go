package catalog

import "strings"

// Scope partitions the entire system. A permission, role, user or route
// belongs to exactly one scope; scopes never cross-grant.
type Scope string

const (
	// ScopeBackoffice covers the internal operations panel.
	ScopeBackoffice Scope = "BACKOFFICE"

	// ScopePortal covers the customer-facing portal. Entities in this
	// scope always belong to exactly one tenant.
	ScopePortal Scope = "PORTAL"
)

// Valid reports whether s is one of the known scopes.
func (s Scope) Valid() bool {
	return s == ScopeBackoffice || s == ScopePortal
}

// keyDelimiter separates the scope, module and action parts of a key.
const keyDelimiter = "."

// Permission is an immutable catalog record. Key is globally unique and
// follows the "<SCOPE>.<MODULE>.<ACTION>" convention.
type Permission struct {
	Key         string `json:"key"`
	Scope       Scope  `json:"scope"`
	Module      string `json:"module"`
	Action      string `json:"action"`
	Description string `json:"description,omitempty"`
}

// Key assembles a permission key from its parts.
func Key(scope Scope, module, action string) string {
	return string(scope) + keyDelimiter + module + keyDelimiter + action
}

// ScopeOfKey derives the scope from a key's leading segment.
// Returns false for keys that do not carry a known scope prefix.
func ScopeOfKey(key string) (Scope, bool) {
	prefix, _, found := strings.Cut(key, keyDelimiter)
	if !found {
		return "", false
	}
	scope := Scope(prefix)
	if !scope.Valid() {
		return "", false
	}
	return scope, true
}
