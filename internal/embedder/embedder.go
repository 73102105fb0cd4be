// Package embedder provides the embedder registry: a capability interface
// over text-to-vector providers (fastembed-local, fastembed-remote, openai)
// plus a deterministic variant used in tests.
package embedder

import (
	"context"

	"chonkit/internal/apperr"
)

// Embedder converts text into fixed-dimension float32 vectors for one or
// more named models.
type Embedder interface {
	// ListModels returns the model names this embedder serves.
	ListModels(ctx context.Context) ([]string, error)
	// Dimension returns the vector length for model.
	Dimension(ctx context.Context, model string) (int, error)
	// Embed returns one vector per input chunk, in the same order, each of
	// length Dimension(model). Fails with apperr.EmbedError.
	Embed(ctx context.Context, model string, chunks []string) ([][]float32, error)
}

func errModelUnknown(model string) error {
	return apperr.New(apperr.EmbedError, "model_unknown: "+model)
}

func errDimensionMismatch(reason string) error {
	return apperr.New(apperr.EmbedError, "dimension_mismatch: "+reason)
}

func errUpstream(reason string, err error) error {
	return apperr.Wrap(apperr.EmbedError, "upstream: "+reason, err)
}
