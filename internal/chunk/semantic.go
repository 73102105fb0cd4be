package chunk

import (
	"context"
	"math"
	"strings"

	"chonkit/internal/apperr"
)

var defaultSemanticDelimiters = []string{"\n\n", "\n", ". "}

// SemanticWindowConfig groups adjacent seed segments whose embeddings are
// similar into chunks, backed by a real embedder call.
type SemanticWindowConfig struct {
	Size       int
	Threshold  float64
	// EmbedderName is the registry key Embedder was resolved from; carried
	// only so the config can be re-serialized without losing which embedder
	// backs it (the resolved Embedder value itself never survives a JSON
	// round trip).
	EmbedderName string
	Embedder     Embedder
	Model        string
	Delimiters   []string
}

func (SemanticWindowConfig) isChunkConfig() {}

// NewSemanticWindow validates and builds a SemanticWindowConfig.
func NewSemanticWindow(size int, threshold float64, embedderName string, embedder Embedder, model string, delimiters []string) (SemanticWindowConfig, error) {
	if size < 1 {
		return SemanticWindowConfig{}, apperr.New(apperr.ConfigError, "size must be >= 1")
	}
	if threshold < 0 || threshold > 1 {
		return SemanticWindowConfig{}, apperr.New(apperr.ConfigError, "threshold must be in [0,1]")
	}
	if embedder == nil {
		return SemanticWindowConfig{}, apperr.New(apperr.ConfigError, "embedder is required")
	}
	if len(delimiters) == 0 {
		delimiters = defaultSemanticDelimiters
	}
	return SemanticWindowConfig{
		Size: size, Threshold: threshold, EmbedderName: embedderName,
		Embedder: embedder, Model: model, Delimiters: delimiters,
	}, nil
}

// splitSeeds recursively splits text on the earliest delimiter that yields
// segments within size, descending to later delimiters only for segments
// that remain oversized.
func splitSeeds(text string, delimiters []string, size int) ([]string, error) {
	if len(delimiters) == 0 {
		if len([]rune(text)) > size {
			return nil, apperr.New(apperr.ConfigError, "size smaller than largest seed segment")
		}
		return []string{text}, nil
	}

	parts := splitAndTrim(text, delimiters[0])
	if len(parts) <= 1 {
		// This delimiter doesn't occur in text; try the next one.
		return splitSeeds(text, delimiters[1:], size)
	}

	var out []string
	for _, p := range parts {
		if len([]rune(p)) <= size {
			out = append(out, p)
			continue
		}
		sub, err := splitSeeds(p, delimiters[1:], size)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

func splitAndTrim(text, delim string) []string {
	raw := strings.Split(text, delim)
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		t := strings.TrimSpace(r)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func semanticWindow(ctx context.Context, text string, cfg SemanticWindowConfig) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	seeds, err := splitSeeds(text, cfg.Delimiters, cfg.Size)
	if err != nil {
		return nil, err
	}
	if len(seeds) <= 1 {
		return seeds, nil
	}

	vectors, err := cfg.Embedder.Embed(ctx, cfg.Model, seeds)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(seeds) {
		return nil, apperr.New(apperr.EmbedError, "dimension_mismatch: embedder returned wrong vector count")
	}

	var chunks []string
	current := []string{seeds[0]}
	currentLen := len([]rune(seeds[0]))

	for i := 1; i < len(seeds); i++ {
		sim := cosineSimilarity(vectors[i-1], vectors[i])
		candidateLen := currentLen + 1 + len([]rune(seeds[i]))

		if sim >= cfg.Threshold && candidateLen <= cfg.Size {
			current = append(current, seeds[i])
			currentLen = candidateLen
			continue
		}

		chunks = append(chunks, strings.Join(current, " "))
		current = []string{seeds[i]}
		currentLen = len([]rune(seeds[i]))
	}
	chunks = append(chunks, strings.Join(current, " "))

	return chunks, nil
}
