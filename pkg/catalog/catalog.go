package catalog

// Catalog is an immutable permission registry. The zero value is empty but
// usable; all lookups on it fail closed.
type Catalog struct {
	// byKey indexes permissions for O(1) lookups. Treated as read-only
	// after construction, so the catalog is safe for concurrent use.
	byKey   map[string]Permission
	ordered []Permission
}

// New builds a catalog from the given permissions. Later duplicates of the
// same key silently replace earlier ones. Entries whose key does not match
// their declared scope are dropped rather than trusted.
func New(permissions ...Permission) *Catalog {
	c := &Catalog{
		byKey:   make(map[string]Permission, len(permissions)),
		ordered: make([]Permission, 0, len(permissions)),
	}

	for _, p := range permissions {
		keyScope, ok := ScopeOfKey(p.Key)
		if !ok || keyScope != p.Scope {
			continue
		}

		if _, exists := c.byKey[p.Key]; !exists {
			c.ordered = append(c.ordered, p)
		} else {
			for i := range c.ordered {
				if c.ordered[i].Key == p.Key {
					c.ordered[i] = p
					break
				}
			}
		}
		c.byKey[p.Key] = p
	}

	return c
}

// All returns every permission in declaration order.
// The returned slice is a copy and safe to modify.
func (c *Catalog) All() []Permission {
	out := make([]Permission, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// ByScope returns every permission belonging to the given scope,
// in declaration order.
func (c *Catalog) ByScope(scope Scope) []Permission {
	out := make([]Permission, 0, len(c.ordered))
	for _, p := range c.ordered {
		if p.Scope == scope {
			out = append(out, p)
		}
	}
	return out
}

// KeysForScope returns the keys of every permission in the given scope,
// in declaration order.
func (c *Catalog) KeysForScope(scope Scope) []string {
	keys := make([]string, 0, len(c.ordered))
	for _, p := range c.ordered {
		if p.Scope == scope {
			keys = append(keys, p.Key)
		}
	}
	return keys
}

// Get returns the permission for the given key.
func (c *Catalog) Get(key string) (Permission, bool) {
	p, ok := c.byKey[key]
	return p, ok
}

// Contains reports whether the key exists in the catalog.
func (c *Catalog) Contains(key string) bool {
	_, ok := c.byKey[key]
	return ok
}

// InScope reports whether the key exists in the catalog and belongs to the
// given scope. Unknown keys fail closed.
func (c *Catalog) InScope(key string, scope Scope) bool {
	p, ok := c.byKey[key]
	return ok && p.Scope == scope
}

// ScopeOf returns the scope of a known key. Unknown keys fail closed.
func (c *Catalog) ScopeOf(key string) (Scope, bool) {
	p, ok := c.byKey[key]
	if !ok {
		return "", false
	}
	return p.Scope, true
}

// Len returns the number of permissions in the catalog.
func (c *Catalog) Len() int {
	return len(c.ordered)
}
