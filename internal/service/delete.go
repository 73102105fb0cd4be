package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"chonkit/internal/events"
	"chonkit/internal/logger"
)

// DeleteDocument removes a document from every collection it was embedded
// into, then the document row itself (which cascades parse/chunk configs
// via foreign key), then its bytes unless another document row still shares
// the same content hash. The byte delete is best-effort: once
// metadata is gone a dangling blob is logged, not treated as fatal.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) error {
	ctx, end := s.startSpan(ctx, "delete_document", attribute.String("document_id", documentID))
	err := s.deleteDocument(ctx, documentID)
	end(&err)
	return err
}

func (s *Service) deleteDocument(ctx context.Context, documentID string) error {
	doc, err := s.Documents.Get(ctx, documentID)
	if err != nil {
		return err
	}

	embeddings, err := s.Embeddings.ListByDocument(ctx, documentID)
	if err != nil {
		return err
	}

	for _, e := range embeddings {
		collection, err := s.Collections.Get(ctx, e.CollectionID)
		if err != nil {
			return err
		}
		vs, err := s.vectorStore(collection.Provider)
		if err != nil {
			return err
		}
		if err := vs.DeleteByDocument(ctx, collection.Name, documentID); err != nil {
			return err
		}
		if err := s.Embeddings.DeleteByDocumentAndCollection(ctx, documentID, e.CollectionID); err != nil {
			return err
		}
	}

	if err := s.Documents.Delete(ctx, documentID); err != nil {
		return err
	}

	if stillReferenced, err := s.Documents.ExistsByHash(ctx, doc.Hash); err != nil {
		logger.FromContext(ctx).Error().Err(err).Str("document_id", documentID).
			Msg("check shared storage blob before cleanup")
	} else if !stillReferenced {
		if err := s.DocStore.Delete(ctx, doc.StoragePath); err != nil {
			logger.FromContext(ctx).Error().Err(err).Str("document_id", documentID).Str("storage_path", doc.StoragePath).
				Msg("document metadata deleted but byte store cleanup failed")
		}
	}

	s.publish(ctx, events.Event{Kind: events.DocumentDeleted, DocumentID: documentID})
	return nil
}

// DeleteCollection removes collectionID from the vector store, then the
// collection row (which cascades embeddings via foreign key). Orphan
// vectors left behind by a failed first step are acceptable: freeing the
// (name, provider) uniqueness lets the name be reused.
func (s *Service) DeleteCollection(ctx context.Context, collectionID string) error {
	ctx, end := s.startSpan(ctx, "delete_collection", attribute.String("collection_id", collectionID))
	err := s.deleteCollection(ctx, collectionID)
	end(&err)
	return err
}

func (s *Service) deleteCollection(ctx context.Context, collectionID string) error {
	collection, err := s.Collections.Get(ctx, collectionID)
	if err != nil {
		return err
	}

	vs, err := s.vectorStore(collection.Provider)
	if err != nil {
		return err
	}
	if err := vs.DeleteCollection(ctx, collection.Name); err != nil {
		return err
	}

	if err := s.Collections.Delete(ctx, collectionID); err != nil {
		return err
	}

	s.publish(ctx, events.Event{Kind: events.CollectionDeleted, CollectionID: collectionID})
	return nil
}
