package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verilens/verilens/internal/client/models"
)

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBadgerStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	in := models.Identity{Username: "alice", Role: models.RoleAdmin}
	require.NoError(t, s.Set(ctx, KeyLoggedUser, in))

	var out models.Identity
	ok, err := s.Get(ctx, KeyLoggedUser, &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in, out)
}

func TestBadgerStore_GetMissingKey(t *testing.T) {
	s := openTestStore(t)

	var out models.Identity
	ok, err := s.Get(context.Background(), "nope", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBadgerStore_DeleteIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	var out string
	ok, err := s.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBadgerStore_OverwriteReplacesValue(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []int{1, 2}))
	require.NoError(t, s.Set(ctx, "k", []int{3}))

	var out []int
	ok, err := s.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []int{3}, out)
}

func TestKeyHelpers(t *testing.T) {
	require.Equal(t, "analyses_alice", PartitionKey("alice"))
	require.Equal(t, "preferences_alice", PreferencesKey("alice"))
	require.Equal(t, "theme_alice", ThemeKey("alice"))
	require.Equal(t, "profilePic_alice", ProfilePicKey("alice"))
}
