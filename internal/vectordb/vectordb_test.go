package vectordb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory_CreateCollectionIdempotentOnSameDimension(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.CreateCollection(ctx, "docs", 4, DistanceCosine))
	require.NoError(t, m.CreateCollection(ctx, "docs", 4, DistanceCosine))
}

func TestMemory_CreateCollectionConflictsOnDifferentDimension(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.CreateCollection(ctx, "docs", 4, DistanceCosine))
	err := m.CreateCollection(ctx, "docs", 8, DistanceCosine)
	require.Error(t, err)
}

func TestMemory_DeleteCollectionIsIdempotent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.DeleteCollection(ctx, "missing"))
	require.NoError(t, m.CreateCollection(ctx, "docs", 2, DistanceCosine))
	require.NoError(t, m.DeleteCollection(ctx, "docs"))
	require.NoError(t, m.DeleteCollection(ctx, "docs"))
}

func TestMemory_InsertAndQueryReturnsMostSimilarFirst(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.CreateCollection(ctx, "docs", 2, DistanceCosine))

	require.NoError(t, m.Insert(ctx, "docs", []Item{
		{ID: "a", Vector: []float32{1, 0}, Payload: Payload{DocumentID: "doc1", ChunkIndex: 0, Content: "a"}},
		{ID: "b", Vector: []float32{0, 1}, Payload: Payload{DocumentID: "doc1", ChunkIndex: 1, Content: "b"}},
		{ID: "c", Vector: []float32{0.9, 0.1}, Payload: Payload{DocumentID: "doc2", ChunkIndex: 0, Content: "c"}},
	}))

	hits, err := m.Query(ctx, "docs", []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, "a", hits[0].ID)
	require.Equal(t, "c", hits[1].ID)
}

func TestMemory_DeleteByDocumentRemovesOnlyMatchingVectors(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.CreateCollection(ctx, "docs", 2, DistanceCosine))
	require.NoError(t, m.Insert(ctx, "docs", []Item{
		{ID: "a", Vector: []float32{1, 0}, Payload: Payload{DocumentID: "doc1"}},
		{ID: "b", Vector: []float32{0, 1}, Payload: Payload{DocumentID: "doc2"}},
	}))

	require.NoError(t, m.DeleteByDocument(ctx, "docs", "doc1"))

	count, err := m.Count(ctx, "docs")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestMemory_CountUnknownCollectionErrors(t *testing.T) {
	m := NewMemory()
	_, err := m.Count(context.Background(), "nope")
	require.Error(t, err)
}

func TestQdrantPointID_PassesThroughValidUUID(t *testing.T) {
	id := "123e4567-e89b-12d3-a456-426614174000"
	out, remapped := qdrantPointID(id)
	require.Equal(t, id, out)
	require.False(t, remapped)
}

func TestQdrantPointID_RemapsNonUUIDDeterministically(t *testing.T) {
	out1, remapped1 := qdrantPointID("chunk-7")
	out2, remapped2 := qdrantPointID("chunk-7")
	require.True(t, remapped1)
	require.True(t, remapped2)
	require.Equal(t, out1, out2)
	require.NotEqual(t, "chunk-7", out1)
}

func TestCosine_OrthogonalVectorsScoreZero(t *testing.T) {
	require.Equal(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}))
}

func TestCosine_MismatchedLengthScoresZero(t *testing.T) {
	require.Equal(t, 0.0, cosine([]float32{1, 0}, []float32{1}))
}
