package rbac

import "github.com/painelhub/accesskit/pkg/catalog"

// Source tags where an effective decision came from, for display in
// permission-matrix previews.
type Source string

const (
	// SourceRole means the role's permission set granted the key.
	SourceRole Source = "role"

	// SourceOverrideGrant means a per-user override granted the key,
	// regardless of the role.
	SourceOverrideGrant Source = "override-grant"

	// SourceOverrideDeny means a per-user override denied the key,
	// regardless of the role.
	SourceOverrideDeny Source = "override-deny"

	// SourceNone means nothing granted the key; the default deny.
	SourceNone Source = "none"
)

// EffectivePermission is the final grant/deny for one catalog key after
// applying override precedence over role inheritance.
type EffectivePermission struct {
	Key     string `json:"key"`
	Allowed bool   `json:"allowed"`
	Source  Source `json:"source"`
}

// Effective resolves the user's final decision for every catalog key of the
// user's scope, in catalog order. Precedence is absolute: an override, grant
// or deny, always shadows the role-derived value; absent an override the key
// is allowed iff the role grants it.
//
// A nil role (user without a role) yields zero role-derived grants. A role
// from a different scope than the user is ignored the same way, failing
// closed rather than leaking cross-scope grants.
func Effective(cat *catalog.Catalog, user *User, role *Role) []EffectivePermission {
	if cat == nil || user == nil {
		return nil
	}

	if role != nil && role.Scope != user.Scope {
		role = nil
	}

	keys := cat.KeysForScope(user.Scope)
	out := make([]EffectivePermission, 0, len(keys))

	for _, key := range keys {
		ep := EffectivePermission{Key: key, Source: SourceNone}

		if allowed, ok := user.Overrides[key]; ok {
			ep.Allowed = allowed
			if allowed {
				ep.Source = SourceOverrideGrant
			} else {
				ep.Source = SourceOverrideDeny
			}
		} else if role.Grants(key) {
			ep.Allowed = true
			ep.Source = SourceRole
		}

		out = append(out, ep)
	}

	return out
}

// GrantedKeys returns only the allowed keys of Effective, in catalog order.
// This is the flat list an identity provider places on a Session at login.
func GrantedKeys(cat *catalog.Catalog, user *User, role *Role) []string {
	effective := Effective(cat, user, role)
	keys := make([]string, 0, len(effective))
	for _, ep := range effective {
		if ep.Allowed {
			keys = append(keys, ep.Key)
		}
	}
	return keys
}
