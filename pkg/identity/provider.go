package identity

import (
	"context"
	"time"

	"github.com/painelhub/accesskit/pkg/authz"
)

// Provider is the identity contract the rest of the system consumes.
// SignIn yields a fully-formed session and its opaque token; GetSession
// resolves a token back into a session; SignOut destroys it. From the
// decision engine's point of view login is atomic: it only ever observes a
// complete Session or nil.
type Provider interface {
	// SignIn authenticates the credential pair and creates a session.
	// rememberMe selects the long session lifetime.
	SignIn(ctx context.Context, email, password string, rememberMe bool) (*authz.Session, string, error)

	// GetSession resolves an opaque token into the session it identifies.
	GetSession(ctx context.Context, token string) (*authz.Session, error)

	// SignOut destroys the session. Unknown tokens are a no-op.
	SignOut(ctx context.Context, token string) error
}

// SessionStore persists sessions keyed by opaque token. Which storage a
// token lives in, and for how long, is entirely the store's concern.
type SessionStore interface {
	// Save stores the session under the token for the given lifetime.
	Save(ctx context.Context, token string, session *authz.Session, ttl time.Duration) error

	// Get returns the session for the token, ErrSessionNotFound for
	// unknown tokens and ErrSessionExpired for lapsed ones.
	Get(ctx context.Context, token string) (*authz.Session, error)

	// Delete removes the session. Unknown tokens are a no-op.
	Delete(ctx context.Context, token string) error
}

// Config holds the session lifetime settings.
type Config struct {
	SessionTTL    time.Duration `env:"ACCESSKIT_SESSION_TTL" envDefault:"12h"`
	RememberMeTTL time.Duration `env:"ACCESSKIT_REMEMBER_ME_TTL" envDefault:"720h"`
}
