package catalog

// moduleSpec is a compact declaration used to expand the built-in catalog.
type moduleSpec struct {
	scope   Scope
	module  string
	label   string
	actions []actionSpec
}

type actionSpec struct {
	action      string
	description string
}

var (
	view   = actionSpec{"VIEW", "view records"}
	create = actionSpec{"CREATE", "create records"}
	update = actionSpec{"UPDATE", "edit records"}
	remove = actionSpec{"DELETE", "delete records"}
	export = actionSpec{"EXPORT", "export records"}
)

// builtinModules declares the default permission matrix. Backoffice modules
// cover the internal operations panel; portal modules cover the per-tenant
// customer area.
var builtinModules = []moduleSpec{
	{ScopeBackoffice, "CLIENTES", "clients", []actionSpec{view, create, update, remove, export}},
	{ScopeBackoffice, "FATURAMENTO", "billing", []actionSpec{view, create, update, remove, export}},
	{ScopeBackoffice, "RELATORIOS", "reports", []actionSpec{view, export}},
	{ScopeBackoffice, "USUARIOS", "operators", []actionSpec{view, create, update, remove}},
	{ScopeBackoffice, "PERFIS", "roles", []actionSpec{view, create, update, remove}},
	{ScopeBackoffice, "CONFIGURACOES", "settings", []actionSpec{view, update}},
	{ScopePortal, "PEDIDOS", "orders", []actionSpec{view, create, update, remove}},
	{ScopePortal, "FATURAS", "invoices", []actionSpec{view, export}},
	{ScopePortal, "USUARIOS", "portal users", []actionSpec{view, create, update, remove}},
	{ScopePortal, "RELATORIOS", "portal reports", []actionSpec{view, export}},
}

// Default returns the built-in permission catalog.
// Each call builds a fresh catalog, so callers can rely on isolation.
func Default() *Catalog {
	perms := make([]Permission, 0, 64)
	for _, m := range builtinModules {
		for _, a := range m.actions {
			perms = append(perms, Permission{
				Key:         Key(m.scope, m.module, a.action),
				Scope:       m.scope,
				Module:      m.module,
				Action:      a.action,
				Description: m.label + ": " + a.description,
			})
		}
	}
	return New(perms...)
}
