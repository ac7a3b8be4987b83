package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/painelhub/accesskit/pkg/authz"
	"github.com/painelhub/accesskit/pkg/catalog"
	"github.com/painelhub/accesskit/pkg/logger"
	"github.com/painelhub/accesskit/pkg/rbac"
)

// credential is a registered login for a managed user.
type credential struct {
	userID      uuid.UUID
	hash        []byte
	adminMaster bool
	clientAdmin bool
}

// LocalProvider implements Provider against the rbac store: credentials are
// registered per managed user, and the session's permission list is
// computed from the user's role and overrides at sign-in time.
type LocalProvider struct {
	store      rbac.Store
	cat        *catalog.Catalog
	sessions   SessionStore
	cfg        Config
	logger     *slog.Logger
	bcryptCost int

	mu    sync.RWMutex
	creds map[string]credential
}

// ProviderOption configures a LocalProvider during construction.
type ProviderOption func(*LocalProvider)

// WithLogger configures the provider's logger. Defaults to a discarding one.
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(p *LocalProvider) {
		p.logger = logger
	}
}

// WithConfig overrides the session lifetime settings.
func WithConfig(cfg Config) ProviderOption {
	return func(p *LocalProvider) {
		p.cfg = cfg
	}
}

// WithBcryptCost configures the bcrypt cost for newly registered credentials.
func WithBcryptCost(cost int) ProviderOption {
	return func(p *LocalProvider) {
		p.bcryptCost = cost
	}
}

// NewLocalProvider creates a provider over the given user store, catalog and
// session store.
func NewLocalProvider(store rbac.Store, cat *catalog.Catalog, sessions SessionStore, opts ...ProviderOption) *LocalProvider {
	p := &LocalProvider{
		store:      store,
		cat:        cat,
		sessions:   sessions,
		logger:     logger.Discard(),
		bcryptCost: bcrypt.DefaultCost,
		cfg: Config{
			SessionTTL:    12 * time.Hour,
			RememberMeTTL: 30 * 24 * time.Hour,
		},
		creds: make(map[string]credential),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// AccountOption marks scope-admin flags on a registered credential.
type AccountOption func(*credential)

// AsAdminMaster marks the account as a backoffice super-admin. The flag
// only ever elevates backoffice decisions; on a portal account it is inert.
func AsAdminMaster() AccountOption {
	return func(c *credential) {
		c.adminMaster = true
	}
}

// AsClientAdmin marks the account as a portal tenant admin. The flag only
// ever elevates portal decisions within the account's own tenant.
func AsClientAdmin() AccountOption {
	return func(c *credential) {
		c.clientAdmin = true
	}
}

// Register creates login credentials for an existing managed user.
func (p *LocalProvider) Register(ctx context.Context, userID uuid.UUID, password string, opts ...AccountOption) error {
	user, err := p.store.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	cred := credential{userID: userID, hash: hash}
	for _, opt := range opts {
		opt(&cred)
	}

	email := normalizeEmail(user.Email)

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.creds[email]; exists {
		return ErrAccountExists
	}
	p.creds[email] = cred
	return nil
}

// Revoke removes the credentials registered for an email. Live sessions are
// unaffected; they lapse on their own TTL.
func (p *LocalProvider) Revoke(email string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.creds, normalizeEmail(email))
}

// SignIn authenticates the credential pair, computes the user's effective
// permissions and stores a fresh session.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string, rememberMe bool) (*authz.Session, string, error) {
	p.mu.RLock()
	cred, ok := p.creds[normalizeEmail(email)]
	p.mu.RUnlock()
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(cred.hash, []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	user, err := p.store.GetUser(ctx, cred.userID)
	if err != nil {
		// The managed user vanished after registration; treat the login
		// as invalid rather than leaking store internals.
		if errors.Is(err, rbac.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	var role *rbac.Role
	if user.RoleID != nil {
		role, err = p.store.GetRole(ctx, *user.RoleID)
		if err != nil && !errors.Is(err, rbac.ErrNotFound) {
			return nil, "", fmt.Errorf("failed to load role: %w", err)
		}
	}

	session := &authz.Session{
		ID:            uuid.New(),
		Name:          user.Name,
		Email:         user.Email,
		Scope:         user.Scope,
		TenantID:      user.TenantID,
		IsAdminMaster: cred.adminMaster,
		IsClientAdmin: cred.clientAdmin,
		Permissions:   rbac.GrantedKeys(p.cat, user, role),
		CreatedAt:     time.Now(),
	}

	token, err := generateToken()
	if err != nil {
		return nil, "", err
	}

	ttl := p.cfg.SessionTTL
	if rememberMe {
		ttl = p.cfg.RememberMeTTL
	}

	if err := p.sessions.Save(ctx, token, session, ttl); err != nil {
		return nil, "", fmt.Errorf("failed to store session: %w", err)
	}

	p.logger.InfoContext(ctx, "session created",
		slog.String("user_id", user.ID.String()),
		slog.String("scope", string(user.Scope)),
		slog.Bool("remember_me", rememberMe),
	)

	return session, token, nil
}

// GetSession resolves an opaque token into its session.
func (p *LocalProvider) GetSession(ctx context.Context, token string) (*authz.Session, error) {
	return p.sessions.Get(ctx, token)
}

// SignOut destroys the session for the token.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	return p.sessions.Delete(ctx, token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateToken creates a cryptographically secure opaque session token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Compile-time interface assertion
var _ Provider = (*LocalProvider)(nil)
