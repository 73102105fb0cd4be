package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"chonkit/internal/apperr"
)

// Embeddings is the CRUD surface over the embeddings table.
type Embeddings struct {
	pool *pgxpool.Pool
}

func NewEmbeddings(pool *pgxpool.Pool) *Embeddings {
	return &Embeddings{pool: pool}
}

// BeginTx opens a transaction so InsertEmbedding can be grouped with the
// caller's vector-store write.
func (e *Embeddings) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return e.pool.Begin(ctx)
}

// InsertEmbedding records that documentID has been embedded into
// collectionID. q is either the pool or a transaction begun with BeginTx,
// so the orchestrator can commit or roll back alongside the vector-store
// write in the same logical unit.
func InsertEmbedding(ctx context.Context, q Querier, documentID, collectionID string) (Embedding, error) {
	row := q.QueryRow(ctx, `
INSERT INTO embeddings (document_id, collection_id)
VALUES ($1, $2)
RETURNING id, document_id, collection_id, created_at, updated_at`, documentID, collectionID)

	var rec Embedding
	if err := row.Scan(&rec.ID, &rec.DocumentID, &rec.CollectionID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Embedding{}, errAlreadyExists("document already embedded into this collection")
		}
		return Embedding{}, apperr.Wrap(apperr.ConfigError, "insert embedding", err)
	}
	return rec, nil
}

// Exists reports whether an embedding record for (documentID, collectionID)
// already exists.
func (e *Embeddings) Exists(ctx context.Context, documentID, collectionID string) (bool, error) {
	row := e.pool.QueryRow(ctx, `
SELECT EXISTS(SELECT 1 FROM embeddings WHERE document_id = $1 AND collection_id = $2)`,
		documentID, collectionID)

	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, apperr.Wrap(apperr.ConfigError, "check embedding existence", err)
	}
	return exists, nil
}

// ListByDocument returns every collection a document is embedded into.
func (e *Embeddings) ListByDocument(ctx context.Context, documentID string) ([]Embedding, error) {
	rows, err := e.pool.Query(ctx, `
SELECT id, document_id, collection_id, created_at, updated_at
FROM embeddings WHERE document_id = $1`, documentID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ConfigError, "list embeddings by document", err)
	}
	defer rows.Close()

	var out []Embedding
	for rows.Next() {
		var rec Embedding
		if err := rows.Scan(&rec.ID, &rec.DocumentID, &rec.CollectionID, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.ConfigError, "scan embedding", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteByDocumentAndCollection removes one embedding record. It is not
// idempotent — the caller is expected to have checked Exists first.
func (e *Embeddings) DeleteByDocumentAndCollection(ctx context.Context, documentID, collectionID string) error {
	tag, err := e.pool.Exec(ctx, `
DELETE FROM embeddings WHERE document_id = $1 AND collection_id = $2`, documentID, collectionID)
	if err != nil {
		return apperr.Wrap(apperr.ConfigError, "delete embedding", err)
	}
	if tag.RowsAffected() == 0 {
		return errNotFound("embedding record not found")
	}
	return nil
}
