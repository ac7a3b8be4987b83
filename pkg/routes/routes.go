// Package routes holds the static route-access table: which scope a route
// belongs to and which permissions it requires.
//
// Lookup is exact-path only; trailing slashes and dynamic segments are the
// router's concern, not this table's. An entry with no permissions means
// scope membership alone suffices.
package routes

import "github.com/painelhub/accesskit/pkg/catalog"

// Entry describes the access requirements of one route path.
type Entry struct {
	Path  string        `json:"path"`
	Scope catalog.Scope `json:"scope"`

	// Permissions the session must hold at least one of. Empty means the
	// scope check alone decides.
	Permissions []string `json:"permissions,omitempty"`
}

// Table is an immutable path-indexed collection of entries, safe for
// concurrent use after construction.
type Table struct {
	byPath  map[string]Entry
	ordered []Entry
}

// New builds a table from the given entries. Later duplicates of the same
// path replace earlier ones.
func New(entries ...Entry) *Table {
	t := &Table{
		byPath:  make(map[string]Entry, len(entries)),
		ordered: make([]Entry, 0, len(entries)),
	}
	for _, e := range entries {
		if _, exists := t.byPath[e.Path]; !exists {
			t.ordered = append(t.ordered, e)
		} else {
			for i := range t.ordered {
				if t.ordered[i].Path == e.Path {
					t.ordered[i] = e
					break
				}
			}
		}
		t.byPath[e.Path] = e
	}
	return t
}

// ByPath returns the entry for an exact path match.
func (t *Table) ByPath(path string) (Entry, bool) {
	e, ok := t.byPath[path]
	return e, ok
}

// Entries returns all entries in declaration order.
// The returned slice is a copy and safe to modify.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Default returns the built-in route-access table for the standard
// backoffice and portal areas.
func Default() *Table {
	return New(
		Entry{Path: "/dashboard", Scope: catalog.ScopeBackoffice},
		Entry{Path: "/clientes", Scope: catalog.ScopeBackoffice, Permissions: []string{"BACKOFFICE.CLIENTES.VIEW"}},
		Entry{Path: "/faturamento", Scope: catalog.ScopeBackoffice, Permissions: []string{"BACKOFFICE.FATURAMENTO.VIEW"}},
		Entry{Path: "/relatorios", Scope: catalog.ScopeBackoffice, Permissions: []string{"BACKOFFICE.RELATORIOS.VIEW"}},
		Entry{Path: "/usuarios", Scope: catalog.ScopeBackoffice, Permissions: []string{"BACKOFFICE.USUARIOS.VIEW"}},
		Entry{Path: "/perfis", Scope: catalog.ScopeBackoffice, Permissions: []string{"BACKOFFICE.PERFIS.VIEW"}},
		Entry{Path: "/configuracoes", Scope: catalog.ScopeBackoffice, Permissions: []string{"BACKOFFICE.CONFIGURACOES.VIEW"}},
		Entry{Path: "/portal", Scope: catalog.ScopePortal},
		Entry{Path: "/portal/pedidos", Scope: catalog.ScopePortal, Permissions: []string{"PORTAL.PEDIDOS.VIEW"}},
		Entry{Path: "/portal/faturas", Scope: catalog.ScopePortal, Permissions: []string{"PORTAL.FATURAS.VIEW"}},
		Entry{Path: "/portal/usuarios", Scope: catalog.ScopePortal, Permissions: []string{"PORTAL.USUARIOS.VIEW"}},
		Entry{Path: "/portal/relatorios", Scope: catalog.ScopePortal, Permissions: []string{"PORTAL.RELATORIOS.VIEW"}},
	)
}
