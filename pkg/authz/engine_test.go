package authz_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painelhub/accesskit/pkg/authz"
	"github.com/painelhub/accesskit/pkg/catalog"
)

func newEngine(t *testing.T) *authz.Engine {
	t.Helper()
	return authz.NewEngine(catalog.Default())
}

func backofficeSession(perms ...string) *authz.Session {
	return &authz.Session{
		ID:          uuid.New(),
		Name:        "Operator",
		Email:       "operator@example.com",
		Scope:       catalog.ScopeBackoffice,
		Permissions: perms,
	}
}

func portalSession(tenantID uuid.UUID, perms ...string) *authz.Session {
	return &authz.Session{
		ID:          uuid.New(),
		Name:        "Portal User",
		Email:       "user@tenant.example.com",
		Scope:       catalog.ScopePortal,
		TenantID:    &tenantID,
		Permissions: perms,
	}
}

func TestEngine_HasPermission(t *testing.T) {
	engine := newEngine(t)

	t.Run("nil session always denied", func(t *testing.T) {
		for _, key := range catalog.Default().KeysForScope(catalog.ScopeBackoffice) {
			assert.False(t, engine.HasPermission(nil, key))
		}
		assert.False(t, engine.HasPermission(nil, "unknown"))
	})

	t.Run("explicit grant", func(t *testing.T) {
		s := backofficeSession("BACKOFFICE.CLIENTES.VIEW")
		assert.True(t, engine.HasPermission(s, "BACKOFFICE.CLIENTES.VIEW"))
		assert.False(t, engine.HasPermission(s, "BACKOFFICE.CLIENTES.DELETE"))
	})

	t.Run("admin master holds every backoffice key", func(t *testing.T) {
		s := backofficeSession() // empty explicit list
		s.IsAdminMaster = true

		for _, key := range catalog.Default().KeysForScope(catalog.ScopeBackoffice) {
			assert.True(t, engine.HasPermission(s, key), key)
		}
	})

	t.Run("admin master bypass does not cover portal keys", func(t *testing.T) {
		s := backofficeSession()
		s.IsAdminMaster = true

		for _, key := range catalog.Default().KeysForScope(catalog.ScopePortal) {
			assert.False(t, engine.HasPermission(s, key), key)
		}
	})

	t.Run("client admin holds every portal key", func(t *testing.T) {
		s := portalSession(uuid.New())
		s.IsClientAdmin = true

		for _, key := range catalog.Default().KeysForScope(catalog.ScopePortal) {
			assert.True(t, engine.HasPermission(s, key), key)
		}
		for _, key := range catalog.Default().KeysForScope(catalog.ScopeBackoffice) {
			assert.False(t, engine.HasPermission(s, key), key)
		}
	})

	t.Run("bypass never covers keys outside the catalog", func(t *testing.T) {
		s := backofficeSession()
		s.IsAdminMaster = true
		assert.False(t, engine.HasPermission(s, "BACKOFFICE.DESCONHECIDO.VIEW"))
	})
}

func TestEngine_HasAnyHasAll(t *testing.T) {
	engine := newEngine(t)
	s := backofficeSession("BACKOFFICE.CLIENTES.VIEW", "BACKOFFICE.FATURAMENTO.VIEW")

	tests := []struct {
		name    string
		keys    []string
		wantAny bool
		wantAll bool
	}{
		{
			name:    "holds all",
			keys:    []string{"BACKOFFICE.CLIENTES.VIEW", "BACKOFFICE.FATURAMENTO.VIEW"},
			wantAny: true,
			wantAll: true,
		},
		{
			name:    "holds one",
			keys:    []string{"BACKOFFICE.CLIENTES.VIEW", "BACKOFFICE.CLIENTES.DELETE"},
			wantAny: true,
			wantAll: false,
		},
		{
			name:    "holds none",
			keys:    []string{"BACKOFFICE.CLIENTES.DELETE", "BACKOFFICE.PERFIS.CREATE"},
			wantAny: false,
			wantAll: false,
		},
		{
			name:    "empty list",
			keys:    nil,
			wantAny: false,
			wantAll: true, // vacuously true
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantAny, engine.HasAny(s, tt.keys...))
			assert.Equal(t, tt.wantAll, engine.HasAll(s, tt.keys...))
		})
	}

	t.Run("nil session", func(t *testing.T) {
		assert.False(t, engine.HasAny(nil, "BACKOFFICE.CLIENTES.VIEW"))
		assert.False(t, engine.HasAll(nil))
		assert.False(t, engine.HasAll(nil, "BACKOFFICE.CLIENTES.VIEW"))
	})
}

func TestEngine_CanAccessScope(t *testing.T) {
	engine := newEngine(t)

	backoffice := backofficeSession()
	backoffice.IsAdminMaster = true

	portal := portalSession(uuid.New())
	portal.IsClientAdmin = true

	// Scope isolation holds exhaustively, even for super-admins.
	assert.True(t, engine.CanAccessScope(backoffice, catalog.ScopeBackoffice))
	assert.False(t, engine.CanAccessScope(backoffice, catalog.ScopePortal))
	assert.True(t, engine.CanAccessScope(portal, catalog.ScopePortal))
	assert.False(t, engine.CanAccessScope(portal, catalog.ScopeBackoffice))
	assert.False(t, engine.CanAccessScope(nil, catalog.ScopeBackoffice))
	assert.False(t, engine.CanAccessScope(nil, catalog.ScopePortal))
}

func TestEngine_AssertTenant(t *testing.T) {
	engine := newEngine(t)

	tenant1 := uuid.New()
	tenant2 := uuid.New()

	t.Run("portal session matches own tenant only", func(t *testing.T) {
		s := portalSession(tenant1)
		assert.True(t, engine.AssertTenant(s, tenant1))
		assert.False(t, engine.AssertTenant(s, tenant2))
	})

	t.Run("client admin has no cross-tenant rights", func(t *testing.T) {
		s := portalSession(tenant1)
		s.IsClientAdmin = true
		assert.True(t, engine.AssertTenant(s, tenant1))
		assert.False(t, engine.AssertTenant(s, tenant2))
	})

	t.Run("backoffice requires admin master", func(t *testing.T) {
		s := backofficeSession()
		assert.False(t, engine.AssertTenant(s, tenant1))

		s.IsAdminMaster = true
		assert.True(t, engine.AssertTenant(s, tenant1))
		assert.True(t, engine.AssertTenant(s, tenant2))
	})

	t.Run("nil session denied", func(t *testing.T) {
		assert.False(t, engine.AssertTenant(nil, tenant1))
	})
}

func TestEngine_CanAccessRoute(t *testing.T) {
	engine := newEngine(t)

	t.Run("scope check runs before permissions", func(t *testing.T) {
		// A portal session is denied on the scope check alone, even
		// holding the (meaningless) backoffice key explicitly.
		s := portalSession(uuid.New(), "BACKOFFICE.FATURAMENTO.VIEW")
		assert.False(t, engine.CanAccessRoute(s, catalog.ScopeBackoffice, []string{"BACKOFFICE.FATURAMENTO.VIEW"}))
	})

	t.Run("empty requirement passes on scope alone", func(t *testing.T) {
		s := backofficeSession()
		assert.True(t, engine.CanAccessRoute(s, catalog.ScopeBackoffice, nil))
	})

	t.Run("any one required key suffices", func(t *testing.T) {
		s := backofficeSession("BACKOFFICE.FATURAMENTO.VIEW")
		required := []string{"BACKOFFICE.FATURAMENTO.VIEW", "BACKOFFICE.FATURAMENTO.EXPORT"}
		assert.True(t, engine.CanAccessRoute(s, catalog.ScopeBackoffice, required))

		s = backofficeSession("BACKOFFICE.CLIENTES.VIEW")
		assert.False(t, engine.CanAccessRoute(s, catalog.ScopeBackoffice, required))
	})

	t.Run("nil session denied", func(t *testing.T) {
		assert.False(t, engine.CanAccessRoute(nil, catalog.ScopeBackoffice, nil))
	})
}

func TestBasisFor(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name    string
		session *authz.Session
		scope   catalog.Scope
		want    authz.Basis
	}{
		{"nil session", nil, catalog.ScopeBackoffice, authz.BasisNone},
		{"plain backoffice", backofficeSession(), catalog.ScopeBackoffice, authz.BasisStandardGrant},
		{
			"admin master in backoffice",
			func() *authz.Session { s := backofficeSession(); s.IsAdminMaster = true; return s }(),
			catalog.ScopeBackoffice,
			authz.BasisScopeSuperAdmin,
		},
		{
			"admin master asked about portal",
			func() *authz.Session { s := backofficeSession(); s.IsAdminMaster = true; return s }(),
			catalog.ScopePortal,
			authz.BasisStandardGrant,
		},
		{
			"client admin in portal",
			func() *authz.Session { s := portalSession(tenantID); s.IsClientAdmin = true; return s }(),
			catalog.ScopePortal,
			authz.BasisScopeSuperAdmin,
		},
		{
			"client admin asked about backoffice",
			func() *authz.Session { s := portalSession(tenantID); s.IsClientAdmin = true; return s }(),
			catalog.ScopeBackoffice,
			authz.BasisStandardGrant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authz.BasisFor(tt.session, tt.scope))
		})
	}
}

func TestBasis_String(t *testing.T) {
	assert.Equal(t, "none", authz.BasisNone.String())
	assert.Equal(t, "standard-grant", authz.BasisStandardGrant.String())
	assert.Equal(t, "scope-super-admin", authz.BasisScopeSuperAdmin.String())
}

func TestNewEngine_NilCatalog(t *testing.T) {
	engine := authz.NewEngine(nil)
	s := backofficeSession("BACKOFFICE.CLIENTES.VIEW")
	s.IsAdminMaster = true

	// No catalog means no key ever resolves to a scope, so the bypass
	// never applies; explicit grants still do.
	assert.True(t, engine.HasPermission(s, "BACKOFFICE.CLIENTES.VIEW"))
	assert.False(t, engine.HasPermission(s, "BACKOFFICE.CLIENTES.DELETE"))
}

func TestSessionContext(t *testing.T) {
	ctx := t.Context()

	_, ok := authz.SessionFromContext(ctx)
	require.False(t, ok)

	s := backofficeSession()
	ctx = authz.WithSession(ctx, s)

	got, ok := authz.SessionFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, s, got)
}

func TestSession_IsAuthenticated(t *testing.T) {
	var nilSession *authz.Session
	assert.False(t, nilSession.IsAuthenticated())
	assert.False(t, (&authz.Session{}).IsAuthenticated())
	assert.True(t, backofficeSession().IsAuthenticated())
}
