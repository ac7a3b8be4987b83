package guard

import (
	"log/slog"
	"net/http"

	"github.com/painelhub/accesskit/pkg/authz"
	"github.com/painelhub/accesskit/pkg/logger"
	"github.com/painelhub/accesskit/pkg/routes"
)

// SessionResolver extracts the caller's session from a request, typically by
// resolving a cookie or header token through an identity provider. A nil
// return means the request is unauthenticated.
type SessionResolver func(r *http.Request) *authz.Session

// Guard enforces the route-access table over an HTTP handler chain.
type Guard struct {
	engine   *authz.Engine
	table    *routes.Table
	resolver SessionResolver
	logger   *slog.Logger
	metrics  *Metrics

	onUnauthenticated http.Handler
	onForbidden       http.Handler
}

// Option configures a Guard during construction.
type Option func(*Guard)

// WithGuardLogger configures the guard's logger. Defaults to a discarding one.
func WithGuardLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// WithMetrics attaches a decision counter to the guard.
func WithMetrics(m *Metrics) Option {
	return func(g *Guard) {
		g.metrics = m
	}
}

// WithUnauthenticatedHandler replaces the default 401 response, e.g. with a
// redirect to the sign-in page.
func WithUnauthenticatedHandler(h http.Handler) Option {
	return func(g *Guard) {
		g.onUnauthenticated = h
	}
}

// WithForbiddenHandler replaces the default 403 response.
func WithForbiddenHandler(h http.Handler) Option {
	return func(g *Guard) {
		g.onForbidden = h
	}
}

// New creates a guard over the given engine, route table and resolver.
func New(engine *authz.Engine, table *routes.Table, resolver SessionResolver, opts ...Option) *Guard {
	g := &Guard{
		engine:   engine,
		table:    table,
		resolver: resolver,
		logger:   logger.Discard(),
		onUnauthenticated: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "authentication required", http.StatusUnauthorized)
		}),
		onForbidden: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "access denied", http.StatusForbidden)
		}),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Middleware wraps next with route-access enforcement. Paths without a table
// entry pass through; guarded paths require an authenticated session that
// the engine admits for the entry's scope and permissions. The session is
// placed on the request context for downstream handlers.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry, guarded := g.table.ByPath(r.URL.Path)
		if !guarded {
			next.ServeHTTP(w, r)
			return
		}

		session := g.resolver(r)
		if !session.IsAuthenticated() {
			g.metrics.observe(entry.Path, decisionUnauthenticated)
			g.logger.InfoContext(r.Context(), "unauthenticated request",
				logger.Route(entry.Path),
			)
			g.onUnauthenticated.ServeHTTP(w, r)
			return
		}

		if !g.engine.CanAccessRoute(session, entry.Scope, entry.Permissions) {
			g.metrics.observe(entry.Path, decisionDenied)
			g.logger.InfoContext(r.Context(), "access denied",
				logger.Route(entry.Path),
				logger.UserID(session.ID),
				slog.String("session_scope", string(session.Scope)),
				slog.String("route_scope", string(entry.Scope)),
			)
			g.onForbidden.ServeHTTP(w, r)
			return
		}

		g.metrics.observe(entry.Path, decisionAllowed)
		next.ServeHTTP(w, r.WithContext(authz.WithSession(r.Context(), session)))
	})
}
