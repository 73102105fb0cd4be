package embedder

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"chonkit/internal/retry"
)

// OpenAI calls OpenAI's embeddings endpoint via the official SDK.
type OpenAI struct {
	client openai.Client
	models map[string]int // model name -> dimension
	retry  retry.Policy
}

// NewOpenAI builds an OpenAI embedder. baseURL may be empty to use the
// default OpenAI API host (set for OpenAI-compatible providers otherwise).
func NewOpenAI(apiKey, baseURL string, models map[string]int) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAI{
		client: openai.NewClient(opts...),
		models: models,
		retry:  retry.DefaultPolicy(),
	}
}

func (o *OpenAI) ListModels(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(o.models))
	for m := range o.models {
		names = append(names, m)
	}
	return names, nil
}

func (o *OpenAI) Dimension(_ context.Context, model string) (int, error) {
	dim, ok := o.models[model]
	if !ok {
		return 0, errModelUnknown(model)
	}
	return dim, nil
}

func (o *OpenAI) Embed(ctx context.Context, model string, chunks []string) ([][]float32, error) {
	dim, ok := o.models[model]
	if !ok {
		return nil, errModelUnknown(model)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	var vectors [][]float32
	err := retry.Do(ctx, o.retry, func(error) bool { return true }, func(ctx context.Context) error {
		resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
			Model: openai.EmbeddingModel(model),
		})
		if err != nil {
			return err
		}
		out := make([][]float32, len(resp.Data))
		for i, d := range resp.Data {
			v := make([]float32, len(d.Embedding))
			for j, f := range d.Embedding {
				v[j] = float32(f)
			}
			out[i] = v
		}
		vectors = out
		return nil
	})
	if err != nil {
		return nil, errUpstream("openai embeddings request failed", err)
	}
	if len(vectors) != len(chunks) {
		return nil, errUpstream(fmt.Sprintf("unexpected vector count: got %d, want %d", len(vectors), len(chunks)), nil)
	}
	for _, v := range vectors {
		if len(v) != dim {
			return nil, errDimensionMismatch(fmt.Sprintf("want %d got %d", dim, len(v)))
		}
	}
	return vectors, nil
}

var _ Embedder = (*OpenAI)(nil)
