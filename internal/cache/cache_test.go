package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemory_GetMissReturnsFalse(t *testing.T) {
	m := NewMemory()
	_, ok, err := m.Get(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemory_SetThenGetRoundTrips(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	val, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", val)
}

func TestMemory_ExpiredEntryIsAMiss(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", "v", time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "k", "v", 0))
	val, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", val)
}

func TestEmbedMemo_MissThenHit(t *testing.T) {
	memo := NewEmbedMemo(NewMemory(), time.Hour)
	ctx := context.Background()

	_, ok, err := memo.Get(ctx, "model-a", "hello")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, memo.Set(ctx, "model-a", "hello", []float32{0.1, 0.2, 0.3}))

	vec, ok, err := memo.Get(ctx, "model-a", "hello")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
}

func TestEmbedMemo_DistinctModelsDoNotCollide(t *testing.T) {
	memo := NewEmbedMemo(NewMemory(), time.Hour)
	ctx := context.Background()

	require.NoError(t, memo.Set(ctx, "model-a", "hello", []float32{1}))
	_, ok, err := memo.Get(ctx, "model-b", "hello")
	require.NoError(t, err)
	require.False(t, ok)
}
