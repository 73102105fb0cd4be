package service

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"go.opentelemetry.io/otel/attribute"

	"chonkit/internal/apperr"
	"chonkit/internal/chunk"
	"chonkit/internal/events"
	"chonkit/internal/parser"
	"chonkit/internal/repository"
	"chonkit/internal/retry"
	"chonkit/internal/vectordb"
)

func errNoChunker() error {
	return apperr.New(apperr.ConfigError, "document has no chunk config")
}

func errAlreadyEmbedded() error {
	return apperr.New(apperr.AlreadyExists, "document already embedded into this collection")
}

func errEmptyDocument() error {
	return apperr.New(apperr.ParseError, "document produced no chunks")
}

func errModelNotServed(model string) error {
	return apperr.New(apperr.ConfigError, "collection model not served by its embedder: "+model)
}

func errDimensionMismatch(reason string) error {
	return apperr.New(apperr.Conflict, "dimension_mismatch: "+reason)
}

// Embed loads documentID's parse/chunk configs, chunks its bytes, embeds
// every chunk with collectionID's embedder/model, and records the result in
// both the metadata store and the vector store as one logical unit. If the
// vector insert or the metadata commit fails, the document's vectors are
// deleted from the collection again and the metadata transaction is rolled
// back; if that delete fails too, an Inconsistent error is returned.
func (s *Service) Embed(ctx context.Context, documentID, collectionID string) error {
	ctx, end := s.startSpan(ctx, "embed",
		attribute.String("document_id", documentID),
		attribute.String("collection_id", collectionID))
	err := s.embed(ctx, documentID, collectionID)
	end(&err)
	return err
}

func (s *Service) embed(ctx context.Context, documentID, collectionID string) error {
	doc, err := s.Documents.Get(ctx, documentID)
	if err != nil {
		return err
	}
	collection, err := s.Collections.Get(ctx, collectionID)
	if err != nil {
		return err
	}
	chunkCfgRow, err := s.ChunkConfigs.Get(ctx, documentID)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return errNoChunker()
		}
		return err
	}

	if already, err := s.Embeddings.Exists(ctx, documentID, collectionID); err != nil {
		return err
	} else if already {
		return errAlreadyEmbedded()
	}

	var rawParseCfg []byte
	if parseCfgRow, err := s.ParseConfigs.Get(ctx, documentID); err != nil {
		if !apperr.Is(err, apperr.NotFound) {
			return err
		}
	} else {
		rawParseCfg = parseCfgRow.Config
	}

	data, err := s.DocStore.Read(ctx, doc.StoragePath)
	if err != nil {
		return err
	}
	parseCfg, err := parser.DecodeConfig(rawParseCfg)
	if err != nil {
		return err
	}
	text, err := parser.ForPath(doc.Path).Parse(ctx, data, parseCfg)
	if err != nil {
		return err
	}

	chunkCfg, err := s.decodeChunkConfig(ctx, chunkCfgRow.Config, false)
	if err != nil {
		return err
	}
	chunks, err := chunk.Chunk(ctx, text, chunkCfg)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return errEmptyDocument()
	}

	emb, err := s.Embedders.Get(collection.Embedder)
	if err != nil {
		return err
	}
	models, err := emb.ListModels(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(models, collection.Model) {
		return errModelNotServed(collection.Model)
	}
	dim, err := emb.Dimension(ctx, collection.Model)
	if err != nil {
		return err
	}

	vs, err := s.vectorStore(collection.Provider)
	if err != nil {
		return err
	}
	if err := vs.CreateCollection(ctx, collection.Name, dim, vectordb.DistanceCosine); err != nil {
		if apperr.Is(err, apperr.Conflict) {
			return errDimensionMismatch("vector store collection exists with a different dimension")
		}
		return err
	}

	vectors, err := s.embedBatched(ctx, emb, collection.Model, chunks)
	if err != nil {
		return err
	}

	items := make([]vectordb.Item, len(chunks))
	for i, c := range chunks {
		items[i] = vectordb.Item{
			ID:     uuid.NewString(),
			Vector: vectors[i],
			Payload: vectordb.Payload{
				DocumentID: documentID,
				ChunkIndex: i,
				Content:    c,
			},
		}
	}

	tx, err := s.Embeddings.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := repository.InsertEmbedding(ctx, tx, documentID, collectionID); err != nil {
		return err
	}

	if err := vs.Insert(ctx, collection.Name, items); err != nil {
		if compErr := s.compensateVectors(ctx, vs, collection.Name, documentID); compErr != nil {
			return compErr
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		// Vectors are already written but the metadata row didn't land;
		// undo the vector write to keep the two stores in agreement.
		if delErr := vs.DeleteByDocument(context.WithoutCancel(ctx), collection.Name, documentID); delErr != nil {
			return apperr.Wrap(apperr.Inconsistent, "vectors written, embedding row not committed, compensation failed", delErr)
		}
		return err
	}

	s.publish(ctx, events.Event{Kind: events.DocumentEmbedded, DocumentID: documentID, CollectionID: collectionID})
	return nil
}

// compensateVectors deletes documentID's vectors after a failed insert. The
// delete runs even if ctx has been cancelled. If it fails, the returned
// error has the Inconsistent kind and the caller returns it in place of the
// insert error.
func (s *Service) compensateVectors(ctx context.Context, vs vectordb.VectorStore, collection, documentID string) error {
	if err := vs.DeleteByDocument(context.WithoutCancel(ctx), collection, documentID); err != nil {
		return apperr.Wrap(apperr.Inconsistent, "compensating vector delete failed after insert failure", err)
	}
	return nil
}

// embedBatched embeds chunks in batches of at most s.MaxBatch, pipelining
// independent batches concurrently while preserving per-batch order in the
// returned slice (batch i's vectors occupy the same index range chunks[i]
// came from).
func (s *Service) embedBatched(ctx context.Context, e embedderCapability, model string, chunks []string) ([][]float32, error) {
	max := s.MaxBatch
	if max <= 0 {
		max = MaxBatchSize
	}

	type batch struct {
		start, end int
	}
	var batches []batch
	for start := 0; start < len(chunks); start += max {
		end := start + max
		if end > len(chunks) {
			end = len(chunks)
		}
		batches = append(batches, batch{start, end})
	}

	out := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, b := range batches {
		b := b
		g.Go(func() error {
			vecs, err := s.embedWithRetry(gctx, e, model, chunks[b.start:b.end])
			if err != nil {
				return err
			}
			copy(out[b.start:b.end], vecs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) embedWithRetry(ctx context.Context, e embedderCapability, model string, texts []string) ([][]float32, error) {
	var vectors [][]float32
	err := retry.Do(ctx, s.RetryPolicy, shouldRetryUpstream, func(ctx context.Context) error {
		v, err := e.Embed(ctx, model, texts)
		if err != nil {
			return err
		}
		vectors = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, apperr.New(apperr.EmbedError, "embedder returned wrong vector count")
	}
	return vectors, nil
}

// embedderCapability is the subset of embedder.Embedder Embed uses.
type embedderCapability interface {
	Embed(ctx context.Context, model string, chunks []string) ([][]float32, error)
}
