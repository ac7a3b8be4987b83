// Package authz is the access decision engine: pure, synchronous boolean
// queries over an authenticated Session.
//
// Every query is a side-effect-free function of its inputs and safe for
// concurrent use. Decision queries never return errors; whenever a decision
// cannot be made confidently (nil session, unknown key) the engine fails
// closed and denies.
//
// Two rules shape every decision:
//
//   - Scope isolation: a session authorizes only within its own scope.
//     A PORTAL session never satisfies a BACKOFFICE check, not even for a
//     super-admin, and vice versa.
//   - Super-admin bypass: an admin-master session holds every
//     backoffice-scope permission unconditionally; a client-admin session
//     holds every portal-scope permission unconditionally. The bypass is
//     modeled as an explicit authorization basis (see BasisFor) so it stays
//     auditable rather than an ad hoc boolean short-circuit.
//
// Basic usage:
//
//	engine := authz.NewEngine(catalog.Default())
//
//	if engine.CanAccessRoute(session, entry.Scope, entry.Permissions) {
//	    // serve the route
//	}
//
//	if engine.HasPermission(session, "BACKOFFICE.FATURAMENTO.VIEW") {
//	    // show the billing menu
//	}
package authz
