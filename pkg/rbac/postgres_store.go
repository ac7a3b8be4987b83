package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/painelhub/accesskit/pkg/catalog"
)

const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"

	roleColumns = "id, name, description, scope, tenant_id, permissions, created_at, updated_at"
	userColumns = "id, name, email, scope, tenant_id, role_id, overrides, created_at, updated_at"
)

// PostgresStore implements Store on top of a pgx connection pool. The
// referential and uniqueness invariants are enforced by the schema (foreign
// key, unique index, scope/tenant check constraints) and by transactions
// around read-modify-write operations.
type PostgresStore struct {
	pool *pgxpool.Pool
	cat  *catalog.Catalog
	opts storeOptions
}

// NewPostgresStore creates a store over an established pool. The schema must
// be migrated first (see MigratePostgres).
func NewPostgresStore(pool *pgxpool.Pool, cat *catalog.Catalog, opts ...StoreOption) *PostgresStore {
	if cat == nil {
		cat = catalog.New()
	}
	return &PostgresStore{
		pool: pool,
		cat:  cat,
		opts: newStoreOptions(opts),
	}
}

// ListRoles returns roles matching the filter, ordered by creation time.
func (s *PostgresStore) ListRoles(ctx context.Context, filter RoleFilter) ([]Role, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+roleColumns+`
		FROM accesskit_roles
		WHERE scope = $1 AND ($2::uuid IS NULL OR tenant_id = $2)
		ORDER BY created_at, id`,
		filter.Scope, filter.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *role)
	}
	return out, rows.Err()
}

// GetRole returns the role by id.
func (s *PostgresStore) GetRole(ctx context.Context, id uuid.UUID) (*Role, error) {
	return scanRole(s.pool.QueryRow(ctx, `
		SELECT `+roleColumns+` FROM accesskit_roles WHERE id = $1`, id))
}

// CreateRole validates the input and inserts the role.
func (s *PostgresStore) CreateRole(ctx context.Context, input CreateRoleInput) (*Role, error) {
	if err := validateRoleInput(s.cat, input); err != nil {
		return nil, err
	}

	role, err := scanRole(s.pool.QueryRow(ctx, `
		INSERT INTO accesskit_roles (id, name, description, scope, tenant_id, permissions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+roleColumns,
		uuid.New(), strings.TrimSpace(input.Name), input.Description,
		input.Scope, input.TenantID, copyKeys(input.Permissions)))
	if err != nil {
		return nil, err
	}

	s.opts.notifyChange(ChangeEvent{Op: OpCreate, Entity: EntityRole, ID: role.ID, At: role.CreatedAt})
	return role, nil
}

// UpdateRole changes name and description. Scope and tenant are immutable.
func (s *PostgresStore) UpdateRole(ctx context.Context, id uuid.UUID, input UpdateRoleInput) (*Role, error) {
	var name *string
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		name = &trimmed
	}

	role, err := scanRole(s.pool.QueryRow(ctx, `
		UPDATE accesskit_roles
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+roleColumns,
		id, name, input.Description))
	if err != nil {
		return nil, err
	}

	s.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityRole, ID: id, At: role.UpdatedAt})
	return role, nil
}

// ReplaceRolePermissions swaps the permission set after re-validating every
// key against the role's scope, holding a row lock so concurrent replaces
// serialize.
func (s *PostgresStore) ReplaceRolePermissions(ctx context.Context, id uuid.UUID, permissions []string) (*Role, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var scope catalog.Scope
	if err := tx.QueryRow(ctx, `
		SELECT scope FROM accesskit_roles WHERE id = $1 FOR UPDATE`, id).Scan(&scope); err != nil {
		return nil, mapPgError(err)
	}

	if err := validateKeys(s.cat, scope, permissions); err != nil {
		return nil, err
	}

	role, err := scanRole(tx.QueryRow(ctx, `
		UPDATE accesskit_roles
		SET permissions = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+roleColumns,
		id, copyKeys(permissions)))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityRole, ID: id, At: role.UpdatedAt})
	return role, nil
}

// DeleteRole removes the role. The ON DELETE RESTRICT foreign key turns a
// delete of a referenced role into ErrRoleInUse atomically, with no window
// between the reference check and the delete.
func (s *PostgresStore) DeleteRole(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accesskit_roles WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCodeForeignKeyViolation {
			return ErrRoleInUse
		}
		return fmt.Errorf("failed to delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.opts.notifyChange(ChangeEvent{Op: OpDelete, Entity: EntityRole, ID: id, At: s.opts.now()})
	return nil
}

// ListUsers returns users matching the filter, ordered by creation time.
func (s *PostgresStore) ListUsers(ctx context.Context, filter UserFilter) ([]User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM accesskit_users
		WHERE scope = $1
		  AND ($2::uuid IS NULL OR tenant_id = $2)
		  AND ($3 = '' OR email = $3)
		ORDER BY created_at, id`,
		filter.Scope, filter.TenantID, normalizeEmail(filter.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *user)
	}
	return out, rows.Err()
}

// GetUser returns the user by id.
func (s *PostgresStore) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(s.pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM accesskit_users WHERE id = $1`, id))
}

// CreateUser validates the input and inserts the user. Email uniqueness is
// enforced by the schema; an initial role assignment is validated inside the
// same transaction that inserts the row.
func (s *PostgresStore) CreateUser(ctx context.Context, input CreateUserInput) (*User, error) {
	if err := validateUserInput(input); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	candidate := &User{
		Scope:    input.Scope,
		TenantID: input.TenantID,
	}
	if input.RoleID != nil {
		role, err := scanRole(tx.QueryRow(ctx, `
			SELECT `+roleColumns+` FROM accesskit_roles WHERE id = $1`, *input.RoleID))
		if err != nil {
			return nil, err
		}
		if err := validateAssignment(candidate, role); err != nil {
			return nil, err
		}
	}

	user, err := scanUser(tx.QueryRow(ctx, `
		INSERT INTO accesskit_users (id, name, email, scope, tenant_id, role_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		uuid.New(), strings.TrimSpace(input.Name), normalizeEmail(input.Email),
		input.Scope, input.TenantID, input.RoleID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.opts.notifyChange(ChangeEvent{Op: OpCreate, Entity: EntityUser, ID: user.ID, At: user.CreatedAt})
	return user, nil
}

// UpdateUser changes name and email. Scope and tenant are immutable.
func (s *PostgresStore) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*User, error) {
	var name, email *string
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		name = &trimmed
	}
	if input.Email != nil {
		normalized := normalizeEmail(*input.Email)
		if normalized == "" {
			return nil, ErrInvalidInput
		}
		email = &normalized
	}

	user, err := scanUser(s.pool.QueryRow(ctx, `
		UPDATE accesskit_users
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, name, email))
	if err != nil {
		return nil, err
	}

	s.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityUser, ID: id, At: user.UpdatedAt})
	return user, nil
}

// DeleteUser removes the user unconditionally.
func (s *PostgresStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM accesskit_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.opts.notifyChange(ChangeEvent{Op: OpDelete, Entity: EntityUser, ID: id, At: s.opts.now()})
	return nil
}

// SetOverride inserts or replaces a single override entry after validating
// the key against the user's scope.
func (s *PostgresStore) SetOverride(ctx context.Context, userID uuid.UUID, key string, allowed bool) (*User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var scope catalog.Scope
	if err := tx.QueryRow(ctx, `
		SELECT scope FROM accesskit_users WHERE id = $1 FOR UPDATE`, userID).Scan(&scope); err != nil {
		return nil, mapPgError(err)
	}

	if err := validateKey(s.cat, scope, key); err != nil {
		return nil, err
	}

	user, err := scanUser(tx.QueryRow(ctx, `
		UPDATE accesskit_users
		SET overrides = overrides || jsonb_build_object($2::text, $3::boolean),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		userID, key, allowed))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityUser, ID: userID, At: user.UpdatedAt})
	return user, nil
}

// RemoveOverride deletes the entry if present; removing an absent key leaves
// the row untouched, so the operation is idempotent.
func (s *PostgresStore) RemoveOverride(ctx context.Context, userID uuid.UUID, key string) (*User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx, `
		UPDATE accesskit_users
		SET overrides = overrides - $2::text,
		    updated_at = CASE WHEN overrides ? $2::text THEN now() ELSE updated_at END
		WHERE id = $1
		RETURNING `+userColumns,
		userID, key))
	if err != nil {
		return nil, err
	}

	s.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityUser, ID: userID, At: user.UpdatedAt})
	return user, nil
}

// AssignRole points the user at a role of the same scope+tenant, or clears
// the assignment when roleID is nil. The user row stays locked while the
// role is validated.
func (s *PostgresStore) AssignRole(ctx context.Context, userID uuid.UUID, roleID *uuid.UUID) (*User, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	current, err := scanUser(tx.QueryRow(ctx, `
		SELECT `+userColumns+` FROM accesskit_users WHERE id = $1 FOR UPDATE`, userID))
	if err != nil {
		return nil, err
	}

	if roleID != nil {
		role, err := scanRole(tx.QueryRow(ctx, `
			SELECT `+roleColumns+` FROM accesskit_roles WHERE id = $1`, *roleID))
		if err != nil {
			return nil, err
		}
		if err := validateAssignment(current, role); err != nil {
			return nil, err
		}
	}

	user, err := scanUser(tx.QueryRow(ctx, `
		UPDATE accesskit_users
		SET role_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		userID, roleID))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	s.opts.notifyChange(ChangeEvent{Op: OpUpdate, Entity: EntityUser, ID: userID, At: user.UpdatedAt})
	return user, nil
}

func scanRole(row pgx.Row) (*Role, error) {
	var r Role
	err := row.Scan(&r.ID, &r.Name, &r.Description, &r.Scope, &r.TenantID,
		&r.Permissions, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &r, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Scope, &u.TenantID,
		&u.RoleID, &u.Overrides, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	if u.Overrides == nil {
		u.Overrides = make(map[string]bool)
	}
	return &u, nil
}

// mapPgError translates driver errors into the package's error taxonomy.
func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeUniqueViolation:
			return ErrEmailTaken
		case pgCodeForeignKeyViolation:
			return ErrRoleInUse
		}
	}

	return err
}

// Compile-time interface assertion
var _ Store = (*PostgresStore)(nil)
