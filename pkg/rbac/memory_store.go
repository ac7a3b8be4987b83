package rbac

import (
	"bytes"
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/painelhub/accesskit/pkg/catalog"
)

// MemoryStore implements Store with in-memory maps. A single RWMutex covers
// both the role and user tables, so cross-entity invariants (role delete vs
// concurrent role assignment) hold without finer-grained coordination.
// Reads return defensive copies.
type MemoryStore struct {
	mu    sync.RWMutex
	cat   *catalog.Catalog
	roles map[uuid.UUID]*Role
	users map[uuid.UUID]*User
	opts  storeOptions
}

// NewMemoryStore creates an empty in-memory store validating writes against
// the given catalog.
func NewMemoryStore(cat *catalog.Catalog, opts ...StoreOption) *MemoryStore {
	if cat == nil {
		cat = catalog.New()
	}
	return &MemoryStore{
		cat:   cat,
		roles: make(map[uuid.UUID]*Role),
		users: make(map[uuid.UUID]*User),
		opts:  newStoreOptions(opts),
	}
}

// ListRoles returns roles matching the filter, ordered by creation time.
func (m *MemoryStore) ListRoles(ctx context.Context, filter RoleFilter) ([]Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Role, 0, len(m.roles))
	for _, role := range m.roles {
		if role.Scope != filter.Scope {
			continue
		}
		if filter.TenantID != nil && !sameTenant(role.TenantID, filter.TenantID) {
			continue
		}
		out = append(out, *copyRole(role))
	}
	sortByCreation(out, func(r Role) (int64, uuid.UUID) { return r.CreatedAt.UnixNano(), r.ID })
	return out, nil
}

// GetRole returns the role by id.
func (m *MemoryStore) GetRole(ctx context.Context, id uuid.UUID) (*Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	role, ok := m.roles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRole(role), nil
}

// CreateRole validates scope/tenant pairing and catalog membership of every
// permission key, then stores the role with a fresh id and timestamps.
func (m *MemoryStore) CreateRole(ctx context.Context, input CreateRoleInput) (*Role, error) {
	if err := validateRoleInput(m.cat, input); err != nil {
		return nil, err
	}

	m.mu.Lock()
	now := m.opts.now()
	role := &Role{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Scope:       input.Scope,
		TenantID:    copyID(input.TenantID),
		Permissions: copyKeys(input.Permissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.roles[role.ID] = role
	out := copyRole(role)
	m.mu.Unlock()

	m.opts.notifyChange(ChangeEvent{Op: OpCreate, Entity: EntityRole, ID: out.ID, At: out.CreatedAt})
	return out, nil
}

// UpdateRole changes name and description. Scope and tenant are immutable.
func (m *MemoryStore) UpdateRole(ctx context.Context, id uuid.UUID, input UpdateRoleInput) (*Role, error) {
	m.mu.Lock()
	role, ok := m.roles[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	if input.Name != nil {
		role.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		role.Description = *input.Description
	}
	role.UpdatedAt = m.opts.now()
	out := copyRole(role)
	m.mu.Unlock()

	m.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityRole, ID: id, At: out.UpdatedAt})
	return out, nil
}

// ReplaceRolePermissions swaps the permission set after re-validating every key.
func (m *MemoryStore) ReplaceRolePermissions(ctx context.Context, id uuid.UUID, permissions []string) (*Role, error) {
	m.mu.Lock()
	role, ok := m.roles[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	if err := validateKeys(m.cat, role.Scope, permissions); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	role.Permissions = copyKeys(permissions)
	role.UpdatedAt = m.opts.now()
	out := copyRole(role)
	m.mu.Unlock()

	m.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityRole, ID: id, At: out.UpdatedAt})
	return out, nil
}

// DeleteRole removes the role unless a user still references it. The
// reference check and the delete run under the same write lock that guards
// user creation and role assignment.
func (m *MemoryStore) DeleteRole(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	if _, ok := m.roles[id]; !ok {
		m.mu.Unlock()
		return ErrNotFound
	}

	for _, user := range m.users {
		if user.RoleID != nil && *user.RoleID == id {
			m.mu.Unlock()
			return ErrRoleInUse
		}
	}

	delete(m.roles, id)
	now := m.opts.now()
	m.mu.Unlock()

	m.opts.notifyChange(ChangeEvent{Op: OpDelete, Entity: EntityRole, ID: id, At: now})
	return nil
}

// ListUsers returns users matching the filter, ordered by creation time.
func (m *MemoryStore) ListUsers(ctx context.Context, filter UserFilter) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email := normalizeEmail(filter.Email)
	out := make([]User, 0, len(m.users))
	for _, user := range m.users {
		if user.Scope != filter.Scope {
			continue
		}
		if filter.TenantID != nil && !sameTenant(user.TenantID, filter.TenantID) {
			continue
		}
		if email != "" && user.Email != email {
			continue
		}
		out = append(out, *copyUser(user))
	}
	sortByCreation(out, func(u User) (int64, uuid.UUID) { return u.CreatedAt.UnixNano(), u.ID })
	return out, nil
}

// GetUser returns the user by id.
func (m *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(user), nil
}

// CreateUser validates scope/tenant pairing, email uniqueness within
// scope+tenant and, when a role is given, the assignment invariant.
func (m *MemoryStore) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	if err := validateUserInput(input); err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)

	m.mu.Lock()
	for _, existing := range m.users {
		if existing.Scope == input.Scope && sameTenant(existing.TenantID, input.TenantID) && existing.Email == email {
			m.mu.Unlock()
			return nil, ErrEmailTaken
		}
	}

	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Scope:     input.Scope,
		TenantID:  copyID(input.TenantID),
		Overrides: make(map[string]bool),
	}

	if input.RoleID != nil {
		role, ok := m.roles[*input.RoleID]
		if !ok {
			m.mu.Unlock()
			return nil, ErrNotFound
		}
		if err := validateAssignment(user, role); err != nil {
			m.mu.Unlock()
			return nil, err
		}
		user.RoleID = copyID(input.RoleID)
	}

	now := m.opts.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.users[user.ID] = user
	out := copyUser(user)
	m.mu.Unlock()

	m.opts.notifyChange(ChangeEvent{Op: OpCreate, Entity: EntityUser, ID: out.ID, At: now})
	return out, nil
}

// UpdateUser changes name and email. Scope and tenant are immutable.
func (m *MemoryStore) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*User, error) {
	m.mu.Lock()
	user, ok := m.users[id]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			m.mu.Unlock()
			return nil, ErrInvalidInput
		}
		for _, existing := range m.users {
			if existing.ID != id && existing.Scope == user.Scope && sameTenant(existing.TenantID, user.TenantID) && existing.Email == email {
				m.mu.Unlock()
				return nil, ErrEmailTaken
			}
		}
		user.Email = email
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	user.UpdatedAt = m.opts.now()
	out := copyUser(user)
	m.mu.Unlock()

	m.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityUser, ID: id, At: out.UpdatedAt})
	return out, nil
}

// DeleteUser removes the user unconditionally.
func (m *MemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	if _, ok := m.users[id]; !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.users, id)
	now := m.opts.now()
	m.mu.Unlock()

	m.opts.notifyChange(ChangeEvent{Op: OpDelete, Entity: EntityUser, ID: id, At: now})
	return nil
}

// SetOverride inserts or replaces a single override entry after validating
// the key against the user's scope.
func (m *MemoryStore) SetOverride(ctx context.Context, userID uuid.UUID, key string, allowed bool) (*User, error) {
	m.mu.Lock()
	user, ok := m.users[userID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	if err := validateKey(m.cat, user.Scope, key); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	if user.Overrides == nil {
		user.Overrides = make(map[string]bool)
	}
	user.Overrides[key] = allowed
	user.UpdatedAt = m.opts.now()
	out := copyUser(user)
	m.mu.Unlock()

	m.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityUser, ID: userID, At: out.UpdatedAt})
	return out, nil
}

// RemoveOverride deletes the entry if present. Removing an absent key is a
// no-op, so the operation is idempotent.
func (m *MemoryStore) RemoveOverride(ctx context.Context, userID uuid.UUID, key string) (*User, error) {
	m.mu.Lock()
	user, ok := m.users[userID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	if _, present := user.Overrides[key]; present {
		delete(user.Overrides, key)
		user.UpdatedAt = m.opts.now()
	}
	out := copyUser(user)
	m.mu.Unlock()

	m.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityUser, ID: userID, At: out.UpdatedAt})
	return out, nil
}

// AssignRole points the user at a role of the same scope+tenant, or clears
// the assignment when roleID is nil.
func (m *MemoryStore) AssignRole(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID) (*User, error) {
	m.mu.Lock()
	user, ok := m.users[userID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}

	if roleID == nil {
		user.RoleID = nil
	} else {
		role, ok := m.roles[*roleID]
		if !ok {
			m.mu.Unlock()
			return nil, ErrNotFound
		}
		if err := validateAssignment(user, role); err != nil {
			m.mu.Unlock()
			return nil, err
		}
		user.RoleID = copyID(roleID)
	}

	user.UpdatedAt = m.opts.now()
	out := copyUser(user)
	m.mu.Unlock()

	m.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityUser, ID: userID, At: out.UpdatedAt})
	return out, nil
}

func copyRole(role *Role) *Role {
	out := *role
	out.TenantID = copyID(role.TenantID)
	out.Permissions = copyKeys(role.Permissions)
	return &out
}

func copyUser(user *User) *User {
	out := *user
	out.TenantID = copyID(user.TenantID)
	out.RoleID = copyID(user.RoleID)
	out.Overrides = make(map[string]bool, len(user.Overrides))
	maps.Copy(out.Overrides, user.Overrides)
	return &out
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyKeys(keys []string) []string {
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// sortByCreation orders list results by creation time, breaking ties by id
// so listings are deterministic.
func sortByCreation[T any](items []T, key func(T) (int64, uuid.UUID)) {
	slices.SortFunc(items, func(a, b T) int {
		at, aid := key(a)
		bt, bid := key(b)
		if c := cmp.Compare(at, bt); c != 0 {
			return c
		}
		return bytes.Compare(aid[:], bid[:])
	})
}

// Compile-time interface assertion
var _ Store = (*MemoryStore)(nil)
