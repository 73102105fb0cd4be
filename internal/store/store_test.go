package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"local":  local,
	}
}

func TestStore_WriteReadDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			p, err := s.Write(ctx, "docs/a.txt", []byte("hello"), true)
			require.NoError(t, err)
			require.Equal(t, "docs/a.txt", p)

			data, err := s.Read(ctx, "docs/a.txt")
			require.NoError(t, err)
			require.Equal(t, "hello", string(data))

			require.NoError(t, s.Delete(ctx, "docs/a.txt"))
			require.NoError(t, s.Delete(ctx, "docs/a.txt")) // idempotent

			_, err = s.Read(ctx, "docs/a.txt")
			require.Error(t, err)
		})
	}
}

func TestStore_NoOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Write(ctx, "a.txt", []byte("1"), false)
			require.NoError(t, err)
			_, err = s.Write(ctx, "a.txt", []byte("2"), false)
			require.Error(t, err)
		})
	}
}

func TestLocalStore_RejectsPathTraversal(t *testing.T) {
	ctx := context.Background()
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = local.Write(ctx, "../escape.txt", []byte("x"), true)
	require.Error(t, err)

	_, err = local.Read(ctx, "/etc/passwd")
	require.Error(t, err)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Write(ctx, "dir/one.txt", []byte("1"), true)
			require.NoError(t, err)
			_, err = s.Write(ctx, "dir/two.txt", []byte("2"), true)
			require.NoError(t, err)

			entries, err := s.List(ctx, "dir")
			require.NoError(t, err)
			require.Len(t, entries, 2)
		})
	}
}
