package rbac_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/painelhub/accesskit/pkg/catalog"
	"github.com/painelhub/accesskit/pkg/rbac"
)

func TestMemoryStore_ConcurrentOverrideWrites(t *testing.T) {
	ctx := context.Background()
	store := rbac.NewMemoryStore(catalog.Default())

	user, err := store.CreateUser(ctx, rbac.CreateUserInput{
		Name:  "Ana",
		Email: "ana@example.com",
		Scope: catalog.ScopeBackoffice,
	})
	require.NoError(t, err)

	keys := catalog.Default().KeysForScope(catalog.ScopeBackoffice)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := keys[i%len(keys)]
			if i%2 == 0 {
				_, err := store.SetOverride(ctx, user.ID, key, i%4 == 0)
				assert.NoError(t, err)
			} else {
				_, err := store.RemoveOverride(ctx, user.ID, key)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	// Whatever interleaving happened, every surviving entry must be a
	// valid key of the user's scope.
	final, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	for key := range final.Overrides {
		assert.True(t, catalog.Default().InScope(key, catalog.ScopeBackoffice), key)
	}
}

func TestMemoryStore_DeleteRoleVsAssignRace(t *testing.T) {
	ctx := context.Background()
	store := rbac.NewMemoryStore(catalog.Default())

	role, err := store.CreateRole(ctx, rbac.CreateRoleInput{
		Name: "Contested", Scope: catalog.ScopeBackoffice,
	})
	require.NoError(t, err)

	user, err := store.CreateUser(ctx, rbac.CreateUserInput{
		Name:  "Ana",
		Email: "ana@example.com",
		Scope: catalog.ScopeBackoffice,
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)

	var assignErr, deleteErr error
	go func() {
		defer wg.Done()
		_, assignErr = store.AssignRole(ctx, user.ID, &role.ID)
	}()
	go func() {
		defer wg.Done()
		deleteErr = store.DeleteRole(ctx, role.ID)
	}()
	wg.Wait()

	// Exactly one consistent outcome is possible: either the delete won
	// and the assignment failed against a missing role, or the
	// assignment won and the delete was blocked.
	final, err := store.GetUser(ctx, user.ID)
	require.NoError(t, err)

	if deleteErr == nil {
		assert.ErrorIs(t, assignErr, rbac.ErrNotFound)
		assert.Nil(t, final.RoleID)
		_, err := store.GetRole(ctx, role.ID)
		assert.ErrorIs(t, err, rbac.ErrNotFound)
	} else {
		assert.ErrorIs(t, deleteErr, rbac.ErrRoleInUse)
		assert.NoError(t, assignErr)
		require.NotNil(t, final.RoleID)
		assert.Equal(t, role.ID, *final.RoleID)
	}

	// The dangling state (user referencing a deleted role) must be
	// impossible.
	if final.RoleID != nil {
		_, err := store.GetRole(ctx, *final.RoleID)
		assert.NoError(t, err)
	}
}

func TestMemoryStore_ConcurrentUserCreation(t *testing.T) {
	ctx := context.Background()
	store := rbac.NewMemoryStore(catalog.Default())

	const attempts = 20
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.CreateUser(ctx, rbac.CreateUserInput{
				Name:  fmt.Sprintf("User %d", i),
				Email: "same@example.com",
				Scope: catalog.ScopeBackoffice,
			})
		}(i)
	}
	wg.Wait()

	var created, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, rbac.ErrEmailTaken):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, rejected)

	users, err := store.ListUsers(ctx, rbac.UserFilter{
		Scope: catalog.ScopeBackoffice,
		Email: "same@example.com",
	})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
