package vectordb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Weaviate implements VectorStore over Weaviate's REST/GraphQL API via a
// hand-rolled client over the standard library's net/http — no pack repo
// vendors a Weaviate Go client, so this mirrors the shape of the teacher's
// HTTP request plumbing (internal/embedding.EmbedText).
type Weaviate struct {
	baseURL string
	client  *http.Client
	apiKey  string
}

// NewWeaviate builds a Weaviate client against baseURL (e.g.
// "http://localhost:8080").
func NewWeaviate(baseURL, apiKey string) *Weaviate {
	return &Weaviate{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
	}
}

func (w *Weaviate) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, w.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if w.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+w.apiKey)
	}
	return w.client.Do(req)
}

type weaviateClassVectorIndexConfig struct {
	Distance string `json:"distance"`
}

type weaviateClass struct {
	Class             string                         `json:"class"`
	Vectorizer        string                         `json:"vectorizer"`
	VectorIndexConfig weaviateClassVectorIndexConfig `json:"vectorIndexConfig"`
}

func (w *Weaviate) CreateCollection(ctx context.Context, name string, dimension int, distance Distance) error {
	resp, err := w.do(ctx, http.MethodGet, "/v1/schema/"+name, nil)
	if err != nil {
		return errVectorStore("get class", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		// Weaviate's schema API doesn't report vector dimension directly
		// (it's inferred from the first inserted object), so an existing
		// class of the same name is treated as a match.
		return nil
	}

	resp2, err := w.do(ctx, http.MethodPost, "/v1/schema", weaviateClass{
		Class:             name,
		Vectorizer:        "none",
		VectorIndexConfig: weaviateClassVectorIndexConfig{Distance: string(distance)},
	})
	if err != nil {
		return errVectorStore("create class", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode/100 != 2 {
		b, _ := io.ReadAll(resp2.Body)
		if resp2.StatusCode == http.StatusUnprocessableEntity {
			return errConflict(fmt.Sprintf("class %q conflict: %s", name, string(b)))
		}
		return errVectorStore("create class", fmt.Errorf("%s: %s", resp2.Status, string(b)))
	}
	return nil
}

func (w *Weaviate) DeleteCollection(ctx context.Context, name string) error {
	resp, err := w.do(ctx, http.MethodDelete, "/v1/schema/"+name, nil)
	if err != nil {
		return errVectorStore("delete class", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 && resp.StatusCode != http.StatusNotFound {
		b, _ := io.ReadAll(resp.Body)
		return errVectorStore("delete class", fmt.Errorf("%s: %s", resp.Status, string(b)))
	}
	return nil
}

type weaviateObject struct {
	Class      string         `json:"class"`
	ID         string         `json:"id"`
	Vector     []float32      `json:"vector"`
	Properties map[string]any `json:"properties"`
}

type weaviateBatchRequest struct {
	Objects []weaviateObject `json:"objects"`
}

type weaviateBatchResult struct {
	Result struct {
		Errors *struct {
			Error []struct {
				Message string `json:"message"`
			} `json:"error"`
		} `json:"errors"`
	} `json:"result"`
}

func (w *Weaviate) Insert(ctx context.Context, collection string, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	objects := make([]weaviateObject, 0, len(items))
	for _, item := range items {
		objects = append(objects, weaviateObject{
			Class:  collection,
			ID:     item.ID,
			Vector: item.Vector,
			Properties: map[string]any{
				"document_id": item.Payload.DocumentID,
				"chunk_index": item.Payload.ChunkIndex,
				"content":     item.Payload.Content,
			},
		})
	}

	resp, err := w.do(ctx, http.MethodPost, "/v1/batch/objects", weaviateBatchRequest{Objects: objects})
	if err != nil {
		return errVectorStore("insert batch", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errVectorStore("read insert response", err)
	}
	if resp.StatusCode/100 != 2 {
		return errVectorStore("insert batch", fmt.Errorf("%s: %s", resp.Status, string(raw)))
	}

	var results []weaviateBatchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return errVectorStore("parse insert response", err)
	}
	for _, r := range results {
		if r.Result.Errors != nil && len(r.Result.Errors.Error) > 0 {
			return errVectorStore("batch insert partial failure: "+r.Result.Errors.Error[0].Message, nil)
		}
	}
	return nil
}

func (w *Weaviate) DeleteByDocument(ctx context.Context, collection string, documentID string) error {
	body := map[string]any{
		"match": map[string]any{
			"class": collection,
			"where": map[string]any{
				"path":      []string{"document_id"},
				"operator":  "Equal",
				"valueText": documentID,
			},
		},
	}
	resp, err := w.do(ctx, http.MethodDelete, "/v1/batch/objects", body)
	if err != nil {
		return errVectorStore("delete by document", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(resp.Body)
		return errVectorStore("delete by document", fmt.Errorf("%s: %s", resp.Status, string(b)))
	}
	return nil
}

func (w *Weaviate) Query(ctx context.Context, collection string, vector []float32, k int) ([]Hit, error) {
	if k <= 0 {
		k = 10
	}
	vecStr := make([]string, len(vector))
	for i, f := range vector {
		vecStr[i] = fmt.Sprintf("%f", f)
	}
	query := fmt.Sprintf(`{Get{%s(nearVector:{vector:[%s]} limit:%d){document_id chunk_index content _additional{id certainty}}}}`,
		collection, strings.Join(vecStr, ","), k)

	resp, err := w.do(ctx, http.MethodPost, "/v1/graphql", map[string]string{"query": query})
	if err != nil {
		return nil, errVectorStore("query", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errVectorStore("read query response", err)
	}
	if resp.StatusCode/100 != 2 {
		return nil, errVectorStore("query", fmt.Errorf("%s: %s", resp.Status, string(raw)))
	}

	var parsed struct {
		Data struct {
			Get map[string][]struct {
				DocumentID string `json:"document_id"`
				ChunkIndex int    `json:"chunk_index"`
				Content    string `json:"content"`
				Additional struct {
					ID        string  `json:"id"`
					Certainty float64 `json:"certainty"`
				} `json:"_additional"`
			} `json:"Get"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, errVectorStore("parse query response", err)
	}

	rows := parsed.Data.Get[collection]
	hits := make([]Hit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, Hit{
			ID:    row.Additional.ID,
			Score: row.Additional.Certainty,
			Payload: Payload{
				DocumentID: row.DocumentID,
				ChunkIndex: row.ChunkIndex,
				Content:    row.Content,
			},
		})
	}
	return hits, nil
}

func (w *Weaviate) Count(ctx context.Context, collection string) (int, error) {
	query := fmt.Sprintf(`{Aggregate{%s{meta{count}}}}`, collection)
	resp, err := w.do(ctx, http.MethodPost, "/v1/graphql", map[string]string{"query": query})
	if err != nil {
		return 0, errVectorStore("count", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errVectorStore("read count response", err)
	}
	if resp.StatusCode/100 != 2 {
		return 0, errVectorStore("count", fmt.Errorf("%s: %s", resp.Status, string(raw)))
	}

	var parsed struct {
		Data struct {
			Aggregate map[string][]struct {
				Meta struct {
					Count int `json:"count"`
				} `json:"meta"`
			} `json:"Aggregate"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return 0, errVectorStore("parse count response", err)
	}
	rows := parsed.Data.Aggregate[collection]
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Meta.Count, nil
}

var _ VectorStore = (*Weaviate)(nil)
