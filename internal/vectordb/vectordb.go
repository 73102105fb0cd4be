// Package vectordb abstracts the vector store: Qdrant and Weaviate
// backends behind one provider-agnostic interface. Callers never see
// provider-specific point IDs.
package vectordb

import (
	"context"

	"chonkit/internal/apperr"
)

// Distance is the similarity metric a collection is created with.
type Distance string

const (
	DistanceCosine Distance = "cosine"
)

// Payload is the metadata carried alongside every vector.
type Payload struct {
	DocumentID string
	ChunkIndex int
	Content    string
}

// Item is one vector to insert.
type Item struct {
	ID      string
	Vector  []float32
	Payload Payload
}

// Hit is one query result.
type Hit struct {
	ID      string
	Score   float64
	Payload Payload
}

// VectorStore is the capability surface every backend implements.
type VectorStore interface {
	// CreateCollection is idempotent on an exact (name, dimension) match;
	// it fails with apperr.Conflict if name exists with a different dimension.
	// The Weaviate backend cannot read a class's dimension and accepts any
	// existing class of that name.
	CreateCollection(ctx context.Context, name string, dimension int, distance Distance) error

	// DeleteCollection is idempotent: deleting a collection that doesn't
	// exist is not an error.
	DeleteCollection(ctx context.Context, name string) error

	// Insert is a batch write. The Weaviate backend does not roll back a
	// partly applied batch: it returns an error, and objects already written
	// stay in the class.
	Insert(ctx context.Context, collection string, items []Item) error

	// DeleteByDocument removes every vector whose payload DocumentID
	// matches documentID.
	DeleteByDocument(ctx context.Context, collection string, documentID string) error

	Query(ctx context.Context, collection string, vector []float32, k int) ([]Hit, error)

	Count(ctx context.Context, collection string) (int, error)
}

func errConflict(reason string) error {
	return apperr.New(apperr.Conflict, reason)
}

func errVectorStore(reason string, err error) error {
	return apperr.Wrap(apperr.VectorStoreError, reason, err)
}
