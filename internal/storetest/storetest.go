// Package storetest holds behaviour tests every workspaced.WorkspaceStore
// implementation must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/sagarc03/workspaced"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	Key    = "8c3e7b0a-6a55-4e4f-9d0e-0b7d0c7f6e21"
	Secret = "1f2d3c4b-5a69-4788-97a6-b5c4d3e2f101"
)

// Run exercises a fresh store returned by newStore in each subtest.
func Run(t *testing.T, newStore func(t *testing.T) workspaced.WorkspaceStore) {
	t.Helper()

	t.Run("credentials not found", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.APIKey(ctx, 41)
		assert.ErrorIs(t, err, workspaced.ErrNotFound)
		assert.Equal(t, "Could not find API key for workspace 41", workspaced.ErrorMessage(err))

		_, err = store.APISecret(ctx, 41)
		assert.ErrorIs(t, err, workspaced.ErrNotFound)
		assert.Equal(t, "Could not find API secret for workspace 41", workspaced.ErrorMessage(err))
	})

	t.Run("create then read credentials", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.CreateWorkspace(ctx, 1, Key, Secret))

		key, err := store.APIKey(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, Key, key)

		secret, err := store.APISecret(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, Secret, secret)
	})

	t.Run("create twice", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.CreateWorkspace(ctx, 1234, Key, Secret))
		err := store.CreateWorkspace(ctx, 1234, Secret, Key)
		assert.ErrorIs(t, err, workspaced.ErrAlreadyExists)

		key, err := store.APIKey(ctx, 1234)
		require.NoError(t, err)
		assert.Equal(t, Key, key, "existing credentials are kept")
	})

	t.Run("missing document", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.GetWorkspace(ctx, 1)
		assert.ErrorIs(t, err, workspaced.ErrNotFound)

		require.NoError(t, store.CreateWorkspace(ctx, 1, Key, Secret))
		_, err = store.GetWorkspace(ctx, 1)
		assert.ErrorIs(t, err, workspaced.ErrNotFound)
	})

	t.Run("put stores document verbatim", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.CreateWorkspace(ctx, 1, Key, Secret))

		body := "{\n  \"name\": \"Big Bank plc – ünïcödé\",\n  \"id\": 1\n}\n"
		require.NoError(t, store.PutWorkspace(ctx, 1, body))

		got, err := store.GetWorkspace(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, body, got)

		require.NoError(t, store.PutWorkspace(ctx, 1, `{"id":1,"revision":2}`))
		got, err = store.GetWorkspace(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, `{"id":1,"revision":2}`, got)
	})

	t.Run("put before create", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.PutWorkspace(ctx, 5, "{}"))

		_, err := store.APIKey(ctx, 5)
		assert.ErrorIs(t, err, workspaced.ErrNotFound)

		require.NoError(t, store.CreateWorkspace(ctx, 5, Key, Secret))
		got, err := store.GetWorkspace(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, "{}", got)
	})

	t.Run("list workspaces", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		empty, err := store.ListWorkspaces(ctx)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)

		require.NoError(t, store.CreateWorkspace(ctx, 10, Key, Secret))
		require.NoError(t, store.CreateWorkspace(ctx, 2, Key, Secret))
		require.NoError(t, store.PutWorkspace(ctx, 2, "{}"))
		require.NoError(t, store.PutWorkspace(ctx, 3, "{}"))

		got, err := store.ListWorkspaces(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, int64(2), got[0].ID)
		assert.True(t, got[0].HasKey)
		assert.True(t, got[0].HasSecret)
		assert.True(t, got[0].HasData)

		assert.Equal(t, int64(3), got[1].ID)
		assert.False(t, got[1].HasKey)
		assert.False(t, got[1].HasSecret)
		assert.True(t, got[1].HasData)

		assert.Equal(t, int64(10), got[2].ID)
		assert.True(t, got[2].HasKey)
		assert.False(t, got[2].HasData)
	})
}
