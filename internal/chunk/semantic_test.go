package chunk

import (
	"context"
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// hashEmbedder is a tiny deterministic embedder for tests: segments sharing
// a topic word hash to near-identical vectors, unrelated segments don't.
type hashEmbedder struct{}

func (hashEmbedder) Embed(_ context.Context, _ string, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = topicVector(t)
	}
	return out, nil
}

// topicVector buckets a segment into one of a few fixed topic dimensions
// based on keyword presence, so segments about the same topic land close
// together in cosine space and unrelated ones don't.
func topicVector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, 4)
	switch {
	case strings.Contains(lower, "cat"):
		v[0] = 1
	case strings.Contains(lower, "dog"):
		v[1] = 1
	default:
		h := sha256.Sum256([]byte(lower))
		v[2] = float32(h[0]) / 255
		v[3] = float32(h[1]) / 255
	}
	return v
}

func TestSemanticWindow_GroupsSimilarSegments(t *testing.T) {
	cfg, err := NewSemanticWindow(200, 0.9, "test-embedder", hashEmbedder{}, "test-model", []string{"\n\n"})
	require.NoError(t, err)

	text := "Cats are independent animals.\n\nCats often sleep most of the day.\n\nDogs are loyal companions."
	out, err := Chunk(context.Background(), text, cfg)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Contains(t, out[0], "independent")
	require.Contains(t, out[0], "sleep")
	require.Contains(t, out[1], "loyal")
}

func TestSemanticWindow_SizeCutsEvenWhenSimilar(t *testing.T) {
	cfg, err := NewSemanticWindow(20, 0.9, "test-embedder", hashEmbedder{}, "test-model", []string{"\n\n"})
	require.NoError(t, err)

	// Both segments are about cats (cosine 1.0, well above threshold) but
	// combined they exceed size, so they must still land in separate chunks.
	text := "Cats are great.\n\nCats rock too."
	out, err := Chunk(context.Background(), text, cfg)
	require.NoError(t, err)
	require.Len(t, out, 2)
}

func TestSemanticWindow_SingleSeedSkipsEmbedding(t *testing.T) {
	cfg, err := NewSemanticWindow(500, 0.5, "test-embedder", hashEmbedder{}, "test-model", nil)
	require.NoError(t, err)

	out, err := Chunk(context.Background(), "Just one short paragraph with no delimiters present here", cfg)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestSemanticWindow_ConfigErrorWhenUnsplittable(t *testing.T) {
	cfg, err := NewSemanticWindow(3, 0.5, "test-embedder", hashEmbedder{}, "test-model", []string{"\n\n"})
	require.NoError(t, err)

	_, err = Chunk(context.Background(), "this text has no delimiter breaks at all and is long", cfg)
	require.Error(t, err)
}

func TestSemanticWindow_Deterministic(t *testing.T) {
	cfg, err := NewSemanticWindow(200, 0.9, "test-embedder", hashEmbedder{}, "test-model", []string{"\n\n"})
	require.NoError(t, err)

	text := "Cats are independent.\n\nCats sleep a lot.\n\nDogs are loyal."
	a, err := Chunk(context.Background(), text, cfg)
	require.NoError(t, err)
	b, err := Chunk(context.Background(), text, cfg)
	require.NoError(t, err)
	require.Equal(t, a, b)
}
