package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chonkit/internal/cache"
	"chonkit/internal/db"
	"chonkit/internal/embedder"
	"chonkit/internal/events"
	"chonkit/internal/repository"
	"chonkit/internal/store"
	"chonkit/internal/vectordb"
)

// These are integration tests against a real Postgres instance: the
// orchestrator composes the repository layer (pgx against Postgres) with
// in-memory doc/vector/cache backends. Set TEST_DATABASE_URL to run them.
var (
	testPoolOnce sync.Once
	testPoolErr  error
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping service integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.Open(ctx, dsn, 10)
	require.NoError(t, err)
	require.NoError(t, db.Bootstrap(ctx, pool))
	t.Cleanup(pool.Close)

	registry := embedder.NewRegistry()
	registry.Register("det4", embedder.NewDeterministic(4, true, 1, "det-4-model"))
	registry.Register("det8", embedder.NewDeterministic(8, true, 2, "det-8-model"))

	vectorStores := map[string]vectordb.VectorStore{
		"memory": vectordb.NewMemory(),
	}

	svc := New(pool, store.NewMemoryStore(), registry, vectorStores)
	svc.EmbedCache = cache.NewEmbedMemo(cache.NewMemory(), time.Minute)
	svc.Events = events.Noop{}
	return svc
}

func slidingConfig(t *testing.T, size, overlap int) []byte {
	t.Helper()
	return []byte(fmt.Sprintf(`{"type":"sliding_window","size":%d,"overlap":%d}`, size, overlap))
}

func uploadDoc(t *testing.T, svc *Service, path string, data []byte) repository.Document {
	t.Helper()
	doc, err := svc.Upload(context.Background(), "test", path, data, "", nil)
	require.NoError(t, err)
	return doc
}

func newCollection(t *testing.T, svc *Service, name, model, embedderName string) repository.Collection {
	t.Helper()
	col, err := svc.Collections.Insert(context.Background(), repository.Collection{
		Name: name, Model: model, Embedder: embedderName, Provider: "memory",
	})
	require.NoError(t, err)
	return col
}

func TestUpload_IsIdempotentBySrcPathHash(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	data := []byte("hello world")
	doc1, err := svc.Upload(ctx, "test", "a/b.txt", data, "lbl", []string{"x"})
	require.NoError(t, err)

	doc2, err := svc.Upload(ctx, "test", "a/b.txt", data, "lbl", []string{"x"})
	require.NoError(t, err)

	require.Equal(t, doc1.ID, doc2.ID)
}

func TestConfigureAndPreview_SlidingWindow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	data := []byte("0123456789abcdefghij")
	doc := uploadDoc(t, svc, "doc.txt", data)

	_, err := svc.ConfigureParser(ctx, doc.ID, nil)
	require.NoError(t, err)
	_, err = svc.ConfigureChunker(ctx, doc.ID, slidingConfig(t, 10, 0))
	require.NoError(t, err)

	chunks, err := svc.Preview(ctx, doc.Path, data, nil, slidingConfig(t, 10, 0))
	require.NoError(t, err)
	require.Equal(t, 2, len(chunks))
}

func TestEmbed_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	text := make([]byte, 1000)
	for i := range text {
		text[i] = byte('a' + i%26)
	}
	doc := uploadDoc(t, svc, "big.txt", text)

	_, err := svc.ConfigureChunker(ctx, doc.ID, slidingConfig(t, 100, 0))
	require.NoError(t, err)

	col := newCollection(t, svc, "round-trip", "det-4-model", "det4")

	require.NoError(t, svc.Embed(ctx, doc.ID, col.ID))

	vs := svc.VectorStores["memory"]
	count, err := vs.Count(ctx, col.Name)
	require.NoError(t, err)
	require.Equal(t, 10, count)

	hits, err := svc.Search(ctx, col.ID, string(text[:100]), 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, string(text[:100]), hits[0].Payload.Content)
}

func TestEmbed_FailsWhenAlreadyEmbedded(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := uploadDoc(t, svc, "doc2.txt", []byte("some content to chunk here"))
	_, err := svc.ConfigureChunker(ctx, doc.ID, slidingConfig(t, 10, 0))
	require.NoError(t, err)
	col := newCollection(t, svc, "already-embedded", "det-4-model", "det4")

	require.NoError(t, svc.Embed(ctx, doc.ID, col.ID))
	err = svc.Embed(ctx, doc.ID, col.ID)
	require.Error(t, err)
}

func TestEmbed_FailsWithoutChunkConfig(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := uploadDoc(t, svc, "doc3.txt", []byte("content"))
	col := newCollection(t, svc, "no-chunker", "det-4-model", "det4")

	err := svc.Embed(ctx, doc.ID, col.ID)
	require.Error(t, err)
}

func TestEmbed_FailsOnDimensionMismatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := uploadDoc(t, svc, "doc4.txt", []byte("some reasonably sized content here"))
	_, err := svc.ConfigureChunker(ctx, doc.ID, slidingConfig(t, 10, 0))
	require.NoError(t, err)

	col := newCollection(t, svc, "dim-mismatch", "det-4-model", "det4")
	require.NoError(t, svc.Embed(ctx, doc.ID, col.ID))

	// Swap a second document into the same collection name/provider with a
	// different-dimension embedder bound to it, simulating external drift
	// on the vector-store side.
	doc2 := uploadDoc(t, svc, "doc5.txt", []byte("more reasonably sized content"))
	_, err = svc.ConfigureChunker(ctx, doc2.ID, slidingConfig(t, 10, 0))
	require.NoError(t, err)

	col2, err := svc.Collections.Insert(ctx, repository.Collection{
		Name: col.Name, Model: "det-8-model", Embedder: "det8", Provider: "memory",
	})
	require.Error(t, err) // same (name, provider) already exists
	_ = col2

	drifted, err := svc.Collections.Insert(ctx, repository.Collection{
		Name: "dim-mismatch-2", Model: "det-8-model", Embedder: "det8", Provider: "memory",
	})
	require.NoError(t, err)
	// Force the vector store collection for this name to already exist at
	// dimension 4 before Embed tries to create it at dimension 8.
	vs := svc.VectorStores["memory"]
	require.NoError(t, vs.CreateCollection(ctx, drifted.Name, 4, vectordb.DistanceCosine))

	err = svc.Embed(ctx, doc2.ID, drifted.ID)
	require.Error(t, err)
}

func TestDeleteDocument_RemovesVectorsAndMetadata(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := uploadDoc(t, svc, "doc6.txt", []byte("content to delete after embedding"))
	_, err := svc.ConfigureChunker(ctx, doc.ID, slidingConfig(t, 10, 0))
	require.NoError(t, err)
	col := newCollection(t, svc, "delete-doc", "det-4-model", "det4")
	require.NoError(t, svc.Embed(ctx, doc.ID, col.ID))

	require.NoError(t, svc.DeleteDocument(ctx, doc.ID))

	_, err = svc.Documents.Get(ctx, doc.ID)
	require.Error(t, err)

	vs := svc.VectorStores["memory"]
	count, err := vs.Count(ctx, col.Name)
	require.NoError(t, err)
	require.Equal(t, 0, count)
}

func TestDeleteCollection_RemovesVectorStoreAndRow(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	doc := uploadDoc(t, svc, "doc7.txt", []byte("content for collection deletion test"))
	_, err := svc.ConfigureChunker(ctx, doc.ID, slidingConfig(t, 10, 0))
	require.NoError(t, err)
	col := newCollection(t, svc, "delete-collection", "det-4-model", "det4")
	require.NoError(t, svc.Embed(ctx, doc.ID, col.ID))

	require.NoError(t, svc.DeleteCollection(ctx, col.ID))

	_, err = svc.Collections.Get(ctx, col.ID)
	require.Error(t, err)
}
