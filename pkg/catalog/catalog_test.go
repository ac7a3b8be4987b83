package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painelhub/accesskit/pkg/catalog"
)

func TestCatalog_Lookups(t *testing.T) {
	cat := catalog.Default()
	require.NotZero(t, cat.Len())

	t.Run("known key", func(t *testing.T) {
		perm, ok := cat.Get("BACKOFFICE.CLIENTES.VIEW")
		require.True(t, ok)
		assert.Equal(t, catalog.ScopeBackoffice, perm.Scope)
		assert.Equal(t, "CLIENTES", perm.Module)
		assert.Equal(t, "VIEW", perm.Action)
	})

	t.Run("unknown key fails closed", func(t *testing.T) {
		_, ok := cat.Get("BACKOFFICE.NOPE.VIEW")
		assert.False(t, ok)
		assert.False(t, cat.Contains("BACKOFFICE.NOPE.VIEW"))
		assert.False(t, cat.InScope("BACKOFFICE.NOPE.VIEW", catalog.ScopeBackoffice))
		_, ok = cat.ScopeOf("")
		assert.False(t, ok)
	})

	t.Run("scope membership is exact", func(t *testing.T) {
		assert.True(t, cat.InScope("BACKOFFICE.CLIENTES.VIEW", catalog.ScopeBackoffice))
		assert.False(t, cat.InScope("BACKOFFICE.CLIENTES.VIEW", catalog.ScopePortal))
		assert.True(t, cat.InScope("PORTAL.PEDIDOS.VIEW", catalog.ScopePortal))
		assert.False(t, cat.InScope("PORTAL.PEDIDOS.VIEW", catalog.ScopeBackoffice))
	})
}

func TestCatalog_ByScope(t *testing.T) {
	cat := catalog.Default()

	backoffice := cat.ByScope(catalog.ScopeBackoffice)
	portal := cat.ByScope(catalog.ScopePortal)

	require.NotEmpty(t, backoffice)
	require.NotEmpty(t, portal)
	assert.Equal(t, cat.Len(), len(backoffice)+len(portal))

	for _, p := range backoffice {
		assert.Equal(t, catalog.ScopeBackoffice, p.Scope)
	}
	for _, p := range portal {
		assert.Equal(t, catalog.ScopePortal, p.Scope)
	}

	keys := cat.KeysForScope(catalog.ScopePortal)
	require.Len(t, keys, len(portal))
	for i, p := range portal {
		assert.Equal(t, p.Key, keys[i])
	}
}

func TestNew_DropsMismatchedEntries(t *testing.T) {
	cat := catalog.New(
		catalog.Permission{Key: "BACKOFFICE.CLIENTES.VIEW", Scope: catalog.ScopeBackoffice, Module: "CLIENTES", Action: "VIEW"},
		// Key prefix disagrees with the declared scope; must not be trusted.
		catalog.Permission{Key: "BACKOFFICE.CLIENTES.DELETE", Scope: catalog.ScopePortal, Module: "CLIENTES", Action: "DELETE"},
		// No scope prefix at all.
		catalog.Permission{Key: "clientes.view", Scope: catalog.ScopeBackoffice, Module: "CLIENTES", Action: "VIEW"},
	)

	assert.Equal(t, 1, cat.Len())
	assert.True(t, cat.Contains("BACKOFFICE.CLIENTES.VIEW"))
	assert.False(t, cat.Contains("BACKOFFICE.CLIENTES.DELETE"))
	assert.False(t, cat.Contains("clientes.view"))
}

func TestNew_LaterDuplicateReplaces(t *testing.T) {
	cat := catalog.New(
		catalog.Permission{Key: "PORTAL.PEDIDOS.VIEW", Scope: catalog.ScopePortal, Module: "PEDIDOS", Action: "VIEW", Description: "old"},
		catalog.Permission{Key: "PORTAL.PEDIDOS.VIEW", Scope: catalog.ScopePortal, Module: "PEDIDOS", Action: "VIEW", Description: "new"},
	)

	require.Equal(t, 1, cat.Len())
	perm, ok := cat.Get("PORTAL.PEDIDOS.VIEW")
	require.True(t, ok)
	assert.Equal(t, "new", perm.Description)
}

func TestScopeOfKey(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantScope catalog.Scope
		wantOK    bool
	}{
		{"backoffice key", "BACKOFFICE.CLIENTES.VIEW", catalog.ScopeBackoffice, true},
		{"portal key", "PORTAL.PEDIDOS.VIEW", catalog.ScopePortal, true},
		{"unknown prefix", "ADMIN.CLIENTES.VIEW", "", false},
		{"no delimiter", "BACKOFFICE", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scope, ok := catalog.ScopeOfKey(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantScope, scope)
		})
	}
}
