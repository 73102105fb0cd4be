package service

import (
	"context"

	"chonkit/internal/chunk"
)

// memoEmbedder wraps an embedder.Embedder (via the chunk.Embedder capability
// interface) with the preview embedding cache, so repeatedly previewing the
// same semantic_window config over the same text doesn't re-embed seeds it
// has already seen.
type memoEmbedder struct {
	underlying chunk.Embedder
	cache      embedCacheGetSetter
}

// embedCacheGetSetter is the subset of *cache.EmbedMemo this wrapper needs,
// declared locally so a nil s.EmbedCache degrades to a passthrough without
// a nil-interface footgun.
type embedCacheGetSetter interface {
	Get(ctx context.Context, model, text string) ([]float32, bool, error)
	Set(ctx context.Context, model, text string, vec []float32) error
}

func (s *Service) cachingEmbedder(underlying chunk.Embedder) chunk.Embedder {
	if s.EmbedCache == nil || underlying == nil {
		return underlying
	}
	return memoEmbedder{underlying: underlying, cache: s.EmbedCache}
}

func (m memoEmbedder) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	for i, t := range texts {
		vec, ok, err := m.cache.Get(ctx, model, t)
		if err != nil {
			return nil, err
		}
		if ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}

	if len(missTexts) > 0 {
		vectors, err := m.underlying.Embed(ctx, model, missTexts)
		if err != nil {
			return nil, err
		}
		for j, idx := range missIdx {
			out[idx] = vectors[j]
			if err := m.cache.Set(ctx, model, texts[idx], vectors[j]); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}
