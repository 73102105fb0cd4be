package vectordb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// payloadIDField stores the caller-supplied item ID when it isn't itself a
// UUID, since Qdrant point IDs must be a UUID or a positive integer.
const payloadIDField = "_original_id"

const (
	payloadDocumentID = "document_id"
	payloadChunkIndex = "chunk_index"
	payloadContent    = "content"
)

// Qdrant implements VectorStore over Qdrant's gRPC API.
type Qdrant struct {
	client *qdrant.Client
}

// NewQdrant connects to the Qdrant instance named by dsn (e.g.
// "http://localhost:6334?api_key=...", the gRPC port).
func NewQdrant(dsn string) (*Qdrant, error) {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse qdrant dsn: %w", err)
	}
	host := parsed.Hostname()
	if host == "" {
		host = "localhost"
	}
	portStr := parsed.Port()
	if portStr == "" {
		portStr = "6334"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port in qdrant dsn: %w", err)
	}

	cfg := &qdrant.Config{Host: host, Port: port}
	if parsed.Scheme == "https" {
		cfg.UseTLS = true
	}
	if apiKey := parsed.Query().Get("api_key"); apiKey != "" {
		cfg.APIKey = apiKey
	}

	client, err := qdrant.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}
	return &Qdrant{client: client}, nil
}

func (q *Qdrant) Close() error { return q.client.Close() }

func qdrantDistance(d Distance) qdrant.Distance {
	switch d {
	default:
		return qdrant.Distance_Cosine
	}
}

func (q *Qdrant) CreateCollection(ctx context.Context, name string, dimension int, distance Distance) error {
	info, err := q.client.GetCollectionInfo(ctx, name)
	if err == nil && info != nil {
		existingDim := existingDimension(info)
		if existingDim != dimension {
			return errConflict(fmt.Sprintf("collection %q exists with dimension %d, requested %d", name, existingDim, dimension))
		}
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrantDistance(distance),
		}),
	})
	if err != nil {
		return errVectorStore("create collection", err)
	}
	return nil
}

func existingDimension(info *qdrant.CollectionInfo) int {
	params := info.GetConfig().GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return 0
	}
	return int(params.GetSize())
}

func (q *Qdrant) DeleteCollection(ctx context.Context, name string) error {
	_, err := q.client.DeleteCollection(ctx, name)
	if err != nil {
		// Qdrant returns a gRPC NotFound for a missing collection; deleting
		// an already-absent collection is not an error per contract.
		if isNotFoundErr(err) {
			return nil
		}
		return errVectorStore("delete collection", err)
	}
	return nil
}

func qdrantPointID(id string) (string, bool) {
	if _, err := uuid.Parse(id); err == nil {
		return id, false
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String(), true
}

func (q *Qdrant) Insert(ctx context.Context, collection string, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	points := make([]*qdrant.PointStruct, 0, len(items))
	for _, item := range items {
		uuidStr, remapped := qdrantPointID(item.ID)
		payload := map[string]any{
			payloadDocumentID: item.Payload.DocumentID,
			payloadChunkIndex: item.Payload.ChunkIndex,
			payloadContent:    item.Payload.Content,
		}
		if remapped {
			payload[payloadIDField] = item.ID
		}
		vec := make([]float32, len(item.Vector))
		copy(vec, item.Vector)
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(uuidStr),
			Vectors: qdrant.NewVectorsDense(vec),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})
	if err != nil {
		return errVectorStore("insert batch", err)
	}
	return nil
}

func (q *Qdrant) DeleteByDocument(ctx context.Context, collection string, documentID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(payloadDocumentID, documentID)},
		}),
	})
	if err != nil {
		return errVectorStore("delete by document", err)
	}
	return nil
}

func (q *Qdrant) Query(ctx context.Context, collection string, vector []float32, k int) ([]Hit, error) {
	if k <= 0 {
		k = 10
	}
	vec := make([]float32, len(vector))
	copy(vec, vector)
	limit := uint64(k)

	result, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQueryDense(vec),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, errVectorStore("query", err)
	}

	hits := make([]Hit, 0, len(result))
	for _, point := range result {
		hits = append(hits, Hit{
			ID:      originalID(point),
			Score:   float64(point.GetScore()),
			Payload: payloadFrom(point.GetPayload()),
		})
	}
	return hits, nil
}

func originalID(point *qdrant.ScoredPoint) string {
	if orig, ok := point.GetPayload()[payloadIDField]; ok {
		return orig.GetStringValue()
	}
	if uuidStr := point.GetId().GetUuid(); uuidStr != "" {
		return uuidStr
	}
	return point.GetId().String()
}

func payloadFrom(raw map[string]*qdrant.Value) Payload {
	var p Payload
	if v, ok := raw[payloadDocumentID]; ok {
		p.DocumentID = v.GetStringValue()
	}
	if v, ok := raw[payloadChunkIndex]; ok {
		p.ChunkIndex = int(v.GetIntegerValue())
	}
	if v, ok := raw[payloadContent]; ok {
		p.Content = v.GetStringValue()
	}
	return p
}

func (q *Qdrant) Count(ctx context.Context, collection string) (int, error) {
	exact := true
	result, err := q.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, errVectorStore("count", err)
	}
	return int(result), nil
}

func isNotFoundErr(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.NotFound
}

var _ VectorStore = (*Qdrant)(nil)
