package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// EmbedMemo memoizes embedding calls by a hash of (model, text), so
// repeated SemanticWindow previews over the same text don't re-embed.
type EmbedMemo struct {
	store Store
	ttl   time.Duration
}

func NewEmbedMemo(store Store, ttl time.Duration) *EmbedMemo {
	return &EmbedMemo{store: store, ttl: ttl}
}

func embedMemoKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return "embed:" + hex.EncodeToString(sum[:])
}

// Get returns a cached embedding for (model, text), if present.
func (m *EmbedMemo) Get(ctx context.Context, model, text string) ([]float32, bool, error) {
	raw, ok, err := m.store.Get(ctx, embedMemoKey(model, text))
	if err != nil || !ok {
		return nil, false, err
	}
	var vec []float32
	if err := json.Unmarshal([]byte(raw), &vec); err != nil {
		return nil, false, fmt.Errorf("decode cached embedding: %w", err)
	}
	return vec, true, nil
}

// Set stores an embedding for (model, text).
func (m *EmbedMemo) Set(ctx context.Context, model, text string, vec []float32) error {
	raw, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	return m.store.Set(ctx, embedMemoKey(model, text), string(raw), m.ttl)
}
