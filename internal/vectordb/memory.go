package vectordb

import (
	"context"
	"math"
	"sort"
	"sync"
)

// Memory is an in-process VectorStore, used in tests and in deployments
// that don't need a standalone vector database.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]int // name -> dimension
	items       map[string]map[string]Item
}

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]int),
		items:       make(map[string]map[string]Item),
	}
}

func (m *Memory) CreateCollection(ctx context.Context, name string, dimension int, distance Distance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.collections[name]; ok {
		if existing != dimension {
			return errConflict("collection exists with a different dimension")
		}
		return nil
	}
	m.collections[name] = dimension
	m.items[name] = make(map[string]Item)
	return nil
}

func (m *Memory) DeleteCollection(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, name)
	delete(m.items, name)
	return nil
}

func (m *Memory) Insert(ctx context.Context, collection string, items []Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.items[collection]
	if !ok {
		return errVectorStore("insert batch", errNoCollection(collection))
	}
	for _, item := range items {
		bucket[item.ID] = item
	}
	return nil
}

func (m *Memory) DeleteByDocument(ctx context.Context, collection string, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.items[collection]
	if !ok {
		return nil
	}
	for id, item := range bucket {
		if item.Payload.DocumentID == documentID {
			delete(bucket, id)
		}
	}
	return nil
}

func (m *Memory) Query(ctx context.Context, collection string, vector []float32, k int) ([]Hit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket, ok := m.items[collection]
	if !ok {
		return nil, errVectorStore("query", errNoCollection(collection))
	}
	if k <= 0 {
		k = 10
	}
	hits := make([]Hit, 0, len(bucket))
	for _, item := range bucket {
		hits = append(hits, Hit{
			ID:      item.ID,
			Score:   cosine(vector, item.Vector),
			Payload: item.Payload,
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *Memory) Count(ctx context.Context, collection string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket, ok := m.items[collection]
	if !ok {
		return 0, errVectorStore("count", errNoCollection(collection))
	}
	return len(bucket), nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

type errNoCollection string

func (e errNoCollection) Error() string { return "collection " + string(e) + " does not exist" }

var _ VectorStore = (*Memory)(nil)
