// Package chunk implements the three chunking algorithms: SlidingWindow,
// SnappingWindow, and SemanticWindow. All chunkers consume a UTF-8 string
// and produce an ordered sequence of non-empty chunk strings, and are
// deterministic given identical input and config. Sizes are in characters
// (Unicode code points) unless noted otherwise.
package chunk

import (
	"context"

	"chonkit/internal/apperr"
)

// Config is a closed sum type over the three chunker configs. The marker
// method is unexported, so only this package's three config types satisfy
// it — callers cannot invent a fourth variant. The New* constructors
// validate a config's fields; a config built by struct literal is not
// validated.
type Config interface {
	isChunkConfig()
}

// Embedder is the subset of the embedder registry SemanticWindow needs. It
// is declared locally so the chunk package depends on a capability, not a
// concrete embedder implementation.
type Embedder interface {
	Embed(ctx context.Context, model string, texts []string) ([][]float32, error)
}

// Chunk dispatches to the algorithm named by cfg's concrete type and returns
// the resulting chunk sequence. It performs no persistence and, other than
// SemanticWindow's required embedding calls, no side effects — this is the
// same code path the orchestrator's preview operation uses.
func Chunk(ctx context.Context, text string, cfg Config) ([]string, error) {
	switch c := cfg.(type) {
	case SlidingWindowConfig:
		return slidingWindow(text, c)
	case SnappingWindowConfig:
		return snappingWindow(text, c)
	case SemanticWindowConfig:
		return semanticWindow(ctx, text, c)
	default:
		return nil, apperr.New(apperr.ConfigError, "unknown chunk config type")
	}
}
