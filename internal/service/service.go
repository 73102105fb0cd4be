// Package service is the pipeline orchestrator: it owns every
// cross-component invariant between the document store, the metadata
// repository, the embedder registry, and the vector store. Every exported
// method here is an operation from the pipeline design — Upload, Configure,
// Preview, Embed, delete document, delete collection, and Search.
package service

import (
	"context"
	"time"

	"chonkit/internal/cache"
	"chonkit/internal/embedder"
	"chonkit/internal/events"
	"chonkit/internal/repository"
	"chonkit/internal/retry"
	"chonkit/internal/store"
	"chonkit/internal/vectordb"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "chonkit"

// MaxBatchSize bounds how many chunks are embedded per batch during Embed,
// per the concurrency & resource model's default. The vector insert is one
// call covering all of the document's chunks.
const MaxBatchSize = 256

// Service wires every component the orchestrator needs. Carrying these as
// explicit fields (rather than ambient package-level singletons) keeps the
// dependency graph visible and lets callers build multiple independent
// services in tests.
type Service struct {
	Pool *pgxpool.Pool

	Documents    *repository.Documents
	ParseConfigs *repository.ParseConfigs
	ChunkConfigs *repository.ChunkConfigs
	Collections  *repository.Collections
	Embeddings   *repository.Embeddings

	DocStore  store.Store
	Embedders *embedder.Registry

	// VectorStores is keyed by Collection.Provider ("qdrant", "weaviate").
	VectorStores map[string]vectordb.VectorStore

	EmbedCache *cache.EmbedMemo
	Events     events.Publisher
	Tracer     trace.Tracer

	RetryPolicy retry.Policy
	MaxBatch    int
}

// New builds a Service. EmbedCache and Events may be left as their zero
// values by the caller (nil EmbedCache disables memoization, Events should
// be events.Noop{}). Tracer defaults to the global tracer, which records
// nothing until the caller installs a real TracerProvider (see
// internal/tracing); callers that do so should overwrite Tracer with the
// tracer it returns.
func New(
	pool *pgxpool.Pool,
	docStore store.Store,
	embedders *embedder.Registry,
	vectorStores map[string]vectordb.VectorStore,
) *Service {
	return &Service{
		Pool:         pool,
		Documents:    repository.NewDocuments(pool),
		ParseConfigs: repository.NewParseConfigs(pool),
		ChunkConfigs: repository.NewChunkConfigs(pool),
		Collections:  repository.NewCollections(pool),
		Embeddings:   repository.NewEmbeddings(pool),
		DocStore:     docStore,
		Embedders:    embedders,
		VectorStores: vectorStores,
		Events:       events.Noop{},
		Tracer:       otel.Tracer(tracerName),
		RetryPolicy:  retry.DefaultPolicy(),
		MaxBatch:     MaxBatchSize,
	}
}

func (s *Service) vectorStore(provider string) (vectordb.VectorStore, error) {
	vs, ok := s.VectorStores[provider]
	if !ok {
		return nil, errConfig("unknown vector store provider: " + provider)
	}
	return vs, nil
}

func (s *Service) publish(ctx context.Context, ev events.Event) {
	if s.Events == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	s.Events.Publish(ctx, ev)
}
