package embedder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministic_EmbedReturnsOneVectorPerChunkOfConfiguredDimension(t *testing.T) {
	d := NewDeterministic(32, true, 0, "test")
	ctx := context.Background()

	dim, err := d.Dimension(ctx, "test")
	require.NoError(t, err)
	require.Equal(t, 32, dim)

	vectors, err := d.Embed(ctx, "test", []string{"hello world", "goodbye world"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	for _, v := range vectors {
		require.Len(t, v, 32)
	}
}

func TestDeterministic_Deterministic(t *testing.T) {
	d := NewDeterministic(16, true, 42, "test")
	ctx := context.Background()
	a, err := d.Embed(ctx, "test", []string{"repeatable input"})
	require.NoError(t, err)
	b, err := d.Embed(ctx, "test", []string{"repeatable input"})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestDeterministic_UnknownModel(t *testing.T) {
	d := NewDeterministic(16, false, 0, "test")
	_, err := d.Embed(context.Background(), "nope", []string{"x"})
	require.Error(t, err)
}

func TestRemote_EmbedHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2]},{"embedding":[0.3,0.4]}]}`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, map[string]int{"bge-small": 2})
	vectors, err := r.Embed(context.Background(), "bge-small", []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, vectors)
}

func TestRemote_DimensionMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	r := NewRemote(srv.URL, map[string]int{"bge-small": 2})
	r.Retry.MaxAttempts = 1
	_, err := r.Embed(context.Background(), "bge-small", []string{"a"})
	require.Error(t, err)
}

func TestRemote_UnknownModel(t *testing.T) {
	r := NewRemote("http://unused", map[string]int{"bge-small": 2})
	_, err := r.Embed(context.Background(), "nope", []string{"a"})
	require.Error(t, err)
}

func TestRegistry_GetUnknownProvider(t *testing.T) {
	reg := NewRegistry()
	reg.Register("deterministic", NewDeterministic(8, false, 0, "det"))
	_, err := reg.Get("openai")
	require.Error(t, err)

	e, err := reg.Get("deterministic")
	require.NoError(t, err)
	require.NotNil(t, e)
}
