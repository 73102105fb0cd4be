package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"chonkit/internal/vectordb"
)

// Search embeds queryText with collectionID's embedder/model and returns
// the top k nearest vectors with their payloads. It performs no writes.
func (s *Service) Search(ctx context.Context, collectionID, queryText string, k int) ([]vectordb.Hit, error) {
	ctx, end := s.startSpan(ctx, "search", attribute.String("collection_id", collectionID))
	hits, err := s.search(ctx, collectionID, queryText, k)
	end(&err)
	return hits, err
}

func (s *Service) search(ctx context.Context, collectionID, queryText string, k int) ([]vectordb.Hit, error) {
	collection, err := s.Collections.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	emb, err := s.Embedders.Get(collection.Embedder)
	if err != nil {
		return nil, err
	}

	vectors, err := s.embedWithRetry(ctx, emb, collection.Model, []string{queryText})
	if err != nil {
		return nil, err
	}

	vs, err := s.vectorStore(collection.Provider)
	if err != nil {
		return nil, err
	}
	return vs.Query(ctx, collection.Name, vectors[0], k)
}
