package authz

import "github.com/painelhub/accesskit/pkg/catalog"

// Basis tags the grounds on which a session is authorized within a scope.
// Representing the super-admin bypass as an explicit variant keeps the rule
// auditable and exhaustively testable.
type Basis int

const (
	// BasisNone means no grounds at all: nil session.
	BasisNone Basis = iota

	// BasisStandardGrant means decisions fall through to the session's
	// explicit permission list.
	BasisStandardGrant

	// BasisScopeSuperAdmin means every permission of the scope is granted
	// unconditionally (admin-master in BACKOFFICE, client-admin in PORTAL).
	BasisScopeSuperAdmin
)

// String implements fmt.Stringer.
func (b Basis) String() string {
	switch b {
	case BasisStandardGrant:
		return "standard-grant"
	case BasisScopeSuperAdmin:
		return "scope-super-admin"
	default:
		return "none"
	}
}

// BasisFor returns the authorization basis of the session for permissions
// of the given scope. The bypass flags are scope-bound: IsAdminMaster only
// elevates backoffice decisions and IsClientAdmin only portal decisions.
func BasisFor(s *Session, scope catalog.Scope) Basis {
	if s == nil {
		return BasisNone
	}
	if s.IsAdminMaster && scope == catalog.ScopeBackoffice {
		return BasisScopeSuperAdmin
	}
	if s.IsClientAdmin && scope == catalog.ScopePortal {
		return BasisScopeSuperAdmin
	}
	return BasisStandardGrant
}
