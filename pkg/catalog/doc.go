// Package catalog is the single source of truth for permission keys.
//
// Every permission in the system is a flat string key following the
// "<SCOPE>.<MODULE>.<ACTION>" convention (e.g. "BACKOFFICE.CLIENTES.VIEW").
// The catalog is immutable after construction: permissions are never created
// or destroyed at runtime, and every write boundary elsewhere (role
// permission sets, user overrides) validates keys against it.
//
// Lookups fail closed: unknown keys yield false / zero values, never errors.
// Catalog membership is advisory for display purposes but a hard validation
// gate for writes.
//
// Basic usage:
//
//	cat := catalog.Default()
//
//	perm, ok := cat.Get("BACKOFFICE.CLIENTES.VIEW")
//	cat.InScope("BACKOFFICE.CLIENTES.VIEW", catalog.ScopeBackoffice) // true
//	cat.InScope("BACKOFFICE.CLIENTES.VIEW", catalog.ScopePortal)     // false
//
// Custom catalogs are built with New:
//
//	cat := catalog.New(
//	    catalog.Permission{Key: "PORTAL.PEDIDOS.VIEW", Scope: catalog.ScopePortal, Module: "PEDIDOS", Action: "VIEW"},
//	)
package catalog
