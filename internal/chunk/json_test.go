package chunk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func TestDecodeConfig_SlidingWindowRoundTrips(t *testing.T) {
	raw := []byte(`{"type":"sliding_window","size":10,"overlap":2}`)
	cfg, err := DecodeConfig(raw, nil)
	require.NoError(t, err)
	require.Equal(t, SlidingWindowConfig{Size: 10, Overlap: 2}, cfg)

	out, err := EncodeConfig(cfg)
	require.NoError(t, err)
	cfg2, err := DecodeConfig(out, nil)
	require.NoError(t, err)
	require.Equal(t, cfg, cfg2)
}

func TestDecodeConfig_SnappingWindowRoundTrips(t *testing.T) {
	raw := []byte(`{"type":"snapping_window","size":40,"overlap":1,"skip_forward":["com"],"skip_backward":["www","e.g"]}`)
	cfg, err := DecodeConfig(raw, nil)
	require.NoError(t, err)
	snapping, ok := cfg.(SnappingWindowConfig)
	require.True(t, ok)
	require.Equal(t, 40, snapping.Size)
	require.Equal(t, []string{"com"}, snapping.SkipForward)
	require.Equal(t, []string{"www", "e.g"}, snapping.SkipBackward)
}

func TestDecodeConfig_SemanticWindowRequiresEmbedder(t *testing.T) {
	raw := []byte(`{"type":"semantic_window","size":200,"threshold":0.7,"model":"m"}`)
	_, err := DecodeConfig(raw, nil)
	require.Error(t, err)

	cfg, err := DecodeConfig(raw, stubEmbedder{})
	require.NoError(t, err)
	semantic, ok := cfg.(SemanticWindowConfig)
	require.True(t, ok)
	require.Equal(t, 0.7, semantic.Threshold)
}

func TestEmbedderName_ExtractsWithoutResolvingEmbedder(t *testing.T) {
	raw := []byte(`{"type":"semantic_window","size":200,"threshold":0.7,"embedder":"fastembed-local","model":"m"}`)
	name, err := EmbedderName(raw)
	require.NoError(t, err)
	require.Equal(t, "fastembed-local", name)
}

func TestEncodeConfig_SemanticWindowPreservesEmbedderName(t *testing.T) {
	cfg, err := NewSemanticWindow(200, 0.7, "fastembed-local", stubEmbedder{}, "m", nil)
	require.NoError(t, err)
	raw, err := EncodeConfig(cfg)
	require.NoError(t, err)
	name, err := EmbedderName(raw)
	require.NoError(t, err)
	require.Equal(t, "fastembed-local", name)
}

func TestDecodeConfig_UnknownTypeRejected(t *testing.T) {
	_, err := DecodeConfig([]byte(`{"type":"bogus"}`), nil)
	require.Error(t, err)
}

func TestDecodeConfig_InvalidJSONRejected(t *testing.T) {
	_, err := DecodeConfig([]byte(`not json`), nil)
	require.Error(t, err)
}
