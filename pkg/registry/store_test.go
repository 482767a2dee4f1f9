package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSeed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.LoadSeed(ctx)
	assert.ErrorIs(t, err, ErrNotInitialized)

	seed := make([]byte, 32)
	seed[0] = 0xab
	require.NoError(t, store.InitSeed(ctx, seed))
	assert.ErrorIs(t, store.InitSeed(ctx, seed), ErrAlreadyInitialized)

	got, err := store.LoadSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed, got)

	// The store keeps its own copy.
	seed[0] = 0xcd
	got, err = store.LoadSeed(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), got[0])
}

func TestMemoryStoreCounters(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	seed := make([]byte, 32)

	_, err := store.GetValue(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.GetOwner(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	c := Counter{ID: "0123456789abcdef0123456789abcdef", Value: -7, Owner: alice}
	require.NoError(t, store.PutCounter(ctx, seed, c))

	v, err := store.GetValue(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(-7), v)

	o, err := store.GetOwner(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, o)

	require.NoError(t, store.PutValue(ctx, seed, c.ID, 42))
	v, err = store.GetValue(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	all := store.Counters()
	require.Len(t, all, 1)
	assert.Equal(t, Counter{ID: c.ID, Value: 42, Owner: alice}, all[0])
}
