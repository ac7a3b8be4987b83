// Package identity materializes authz.Session values at login and resolves
// them per request. It is the reference implementation of the identity
// provider contract the access decision engine relies on; production setups
// may swap in a federated provider as long as it yields the same Session
// shape.
//
// LocalProvider authenticates registered credentials with bcrypt, computes
// the user's effective permission list from its role and overrides at
// sign-in time, and persists the resulting session behind the SessionStore
// interface. Two stores ship with the package: an in-memory store with
// periodic expiry cleanup and a Redis-backed store that delegates expiry to
// key TTLs.
//
// The decision engine treats every returned Session as already validated;
// expiry is enforced here, at resolution time, not during decisions.
package identity
