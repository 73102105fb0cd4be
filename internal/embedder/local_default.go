//go:build !fastembed_onnx

package embedder

import "context"

// Local is the fastembed-local embedder. Without the fastembed_onnx build
// tag (ONNX Runtime bindings aren't vendored in this corpus), it falls back
// to the deterministic hash embedder so the pipeline still runs end to end
// in dev/test builds.
type Local struct {
	inner *Deterministic
}

// NewLocal builds the default (non-ONNX) Local embedder.
func NewLocal(models map[string]int) *Local {
	dim := 384
	name := "fastembed-local/default"
	for m, d := range models {
		name = m
		dim = d
		break
	}
	return &Local{inner: NewDeterministic(dim, true, 0, name)}
}

func (l *Local) ListModels(ctx context.Context) ([]string, error) { return l.inner.ListModels(ctx) }

func (l *Local) Dimension(ctx context.Context, model string) (int, error) {
	return l.inner.Dimension(ctx, model)
}

func (l *Local) Embed(ctx context.Context, model string, chunks []string) ([][]float32, error) {
	return l.inner.Embed(ctx, model, chunks)
}

var _ Embedder = (*Local)(nil)
