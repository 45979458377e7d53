// Package sessiontest checks that a session.Store behaves like the others.
package sessiontest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core/session"
)

// Run runs the session.Store contract against store.
// advance moves the store's clock forward so TTL expiry can be observed.
func Run(t *testing.T, store session.Store, advance func(time.Duration)) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k1", []byte(`{"id":"1"}`), 0))
		got, err := store.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, `{"id":"1"}`, string(got))
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k2", []byte("a"), 0))
		require.NoError(t, store.Set(ctx, "k2", []byte("b"), 0))
		got, err := store.Get(ctx, "k2")
		require.NoError(t, err)
		assert.Equal(t, "b", string(got))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k3", []byte("a"), 0))
		require.NoError(t, store.Delete(ctx, "k3"))
		_, err := store.Get(ctx, "k3")
		assert.ErrorIs(t, err, session.ErrNoSession)
		// idempotent
		assert.NoError(t, store.Delete(ctx, "k3"))
	})

	t.Run("ttl expiry", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "k4", []byte("a"), time.Minute))
		require.NoError(t, store.Set(ctx, "k5", []byte("b"), 0))
		_, err := store.Get(ctx, "k4")
		require.NoError(t, err)

		advance(2 * time.Minute)

		_, err = store.Get(ctx, "k4")
		assert.ErrorIs(t, err, session.ErrNoSession)
		_, err = store.Get(ctx, "k5")
		assert.NoError(t, err)
	})

	t.Run("slot round trip", func(t *testing.T) {
		type rec struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		slot := session.NewSlot(store, session.DefaultKey, 0)

		var got rec
		ok, err := slot.Load(ctx, &got)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, slot.Save(ctx, rec{ID: "1", Name: "John Student"}))
		ok, err = slot.Load(ctx, &got)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, rec{ID: "1", Name: "John Student"}, got)

		require.NoError(t, slot.Clear(ctx))
		ok, err = slot.Load(ctx, &got)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
