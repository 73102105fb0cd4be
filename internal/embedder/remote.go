package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chonkit/internal/retry"
)

// Remote calls an HTTP sidecar embedding service (fastembed-remote),
// grounded on the teacher's embedding.EmbedText client shape.
type Remote struct {
	BaseURL    string
	Models     map[string]int // model name -> dimension
	HTTPClient *http.Client
	Retry      retry.Policy
}

// NewRemote builds a Remote embedder against baseURL, serving the given
// model -> dimension map (the sidecar doesn't expose a discovery endpoint,
// so models are configured up front).
func NewRemote(baseURL string, models map[string]int) *Remote {
	return &Remote{
		BaseURL:    baseURL,
		Models:     models,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Retry:      retry.DefaultPolicy(),
	}
}

func (r *Remote) ListModels(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(r.Models))
	for m := range r.Models {
		names = append(names, m)
	}
	return names, nil
}

func (r *Remote) Dimension(_ context.Context, model string) (int, error) {
	dim, ok := r.Models[model]
	if !ok {
		return 0, errModelUnknown(model)
	}
	return dim, nil
}

type remoteEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type remoteEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (r *Remote) Embed(ctx context.Context, model string, chunks []string) ([][]float32, error) {
	dim, ok := r.Models[model]
	if !ok {
		return nil, errModelUnknown(model)
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	var vectors [][]float32
	err := retry.Do(ctx, r.Retry, isRetryableHTTPErr, func(ctx context.Context) error {
		v, err := r.call(ctx, model, chunks)
		if err != nil {
			return err
		}
		vectors = v
		return nil
	})
	if err != nil {
		return nil, errUpstream("fastembed-remote request failed", err)
	}

	for _, v := range vectors {
		if len(v) != dim {
			return nil, errDimensionMismatch(fmt.Sprintf("want %d got %d", dim, len(v)))
		}
	}
	return vectors, nil
}

func (r *Remote) call(ctx context.Context, model string, chunks []string) ([][]float32, error) {
	body, err := json.Marshal(remoteEmbedRequest{Model: model, Input: chunks})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("embed sidecar error: %s: %s", resp.Status, string(raw))
	}

	var parsed remoteEmbedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embed response: %w", err)
	}
	if len(parsed.Data) != len(chunks) {
		return nil, fmt.Errorf("unexpected vector count: got %d, want %d", len(parsed.Data), len(chunks))
	}
	out := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		out[i] = d.Embedding
	}
	return out, nil
}

func isRetryableHTTPErr(err error) bool {
	return err != nil
}

var _ Embedder = (*Remote)(nil)
