package chunk

import (
	"encoding/json"

	"chonkit/internal/apperr"
)

// jsonConfig is the tagged-variant wire shape persisted in the chunk_configs
// table: one JSON object per document, discriminated by Type.
type jsonConfig struct {
	Type         string   `json:"type"`
	Size         int      `json:"size"`
	Overlap      int      `json:"overlap"`
	SkipForward  []string `json:"skip_forward,omitempty"`
	SkipBackward []string `json:"skip_backward,omitempty"`
	Threshold    float64  `json:"threshold,omitempty"`
	Embedder     string   `json:"embedder,omitempty"`
	Model        string   `json:"model,omitempty"`
	Delimiters   []string `json:"delimiters,omitempty"`
}

const (
	typeSlidingWindow  = "sliding_window"
	typeSnappingWindow = "snapping_window"
	typeSemanticWindow = "semantic_window"
)

// DecodeConfig parses a stored chunk config and validates it against the
// corresponding constructor, rejecting unknown tags. embedder is only
// consulted for semantic_window configs, resolved by the caller from the
// embedder name returned by EmbedderName.
func DecodeConfig(raw []byte, embedder Embedder) (Config, error) {
	var j jsonConfig
	if err := json.Unmarshal(raw, &j); err != nil {
		return nil, apperr.Wrap(apperr.ConfigError, "decode chunk config", err)
	}
	switch j.Type {
	case typeSlidingWindow:
		return NewSlidingWindow(j.Size, j.Overlap)
	case typeSnappingWindow:
		return NewSnappingWindow(j.Size, j.Overlap, j.SkipForward, j.SkipBackward)
	case typeSemanticWindow:
		return NewSemanticWindow(j.Size, j.Threshold, j.Embedder, embedder, j.Model, j.Delimiters)
	default:
		return nil, apperr.New(apperr.ConfigError, "unknown chunk config type: "+j.Type)
	}
}

// EmbedderName extracts the "embedder" registry key from a raw
// semantic_window config without resolving the full config, so the caller
// can look up the named embedder before calling DecodeConfig.
func EmbedderName(raw []byte) (string, error) {
	var j jsonConfig
	if err := json.Unmarshal(raw, &j); err != nil {
		return "", apperr.Wrap(apperr.ConfigError, "decode chunk config", err)
	}
	return j.Embedder, nil
}

// EncodeConfig serializes cfg back to its tagged-variant wire shape, for
// persistence via repository.ChunkConfigs.Upsert.
func EncodeConfig(cfg Config) ([]byte, error) {
	switch c := cfg.(type) {
	case SlidingWindowConfig:
		return json.Marshal(jsonConfig{Type: typeSlidingWindow, Size: c.Size, Overlap: c.Overlap})
	case SnappingWindowConfig:
		return json.Marshal(jsonConfig{
			Type: typeSnappingWindow, Size: c.Size, Overlap: c.Overlap,
			SkipForward: c.SkipForward, SkipBackward: c.SkipBackward,
		})
	case SemanticWindowConfig:
		return json.Marshal(jsonConfig{
			Type: typeSemanticWindow, Size: c.Size, Threshold: c.Threshold,
			Embedder: c.EmbedderName, Model: c.Model, Delimiters: c.Delimiters,
		})
	default:
		return nil, apperr.New(apperr.ConfigError, "unknown chunk config type")
	}
}
