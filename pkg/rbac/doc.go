// Package rbac manages roles, users and per-user permission overrides under
// the two-level isolation model: organizational scope (backoffice vs portal)
// and, within the portal scope, per-tenant isolation.
//
// A Role grants a base permission set. A User optionally references one role
// and may carry per-permission overrides; an override (grant or deny) always
// shadows the role-derived value. Effective computes the final decision per
// catalog key together with a source tag for display purposes.
//
// Stores enforce the consistency invariants on every write:
//
//   - portal entities always carry a tenant, backoffice entities never do
//   - permission keys must exist in the catalog and match the entity's scope
//   - emails are unique within scope+tenant
//   - a role cannot be deleted while a user references it
//   - a user can only be assigned a role of its own scope+tenant
//
// Two implementations of the Store contract ship with the package:
// MemoryStore, which serializes all writes behind a single lock shared by
// the role and user tables (so the delete-role-if-unreferenced check cannot
// race a concurrent role assignment), and PostgresStore, which relies on
// transactions and schema constraints for the same guarantees.
package rbac
