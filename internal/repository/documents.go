package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"chonkit/internal/apperr"
)

const uniqueViolation = "23505"

// Documents is the CRUD surface over the documents table.
type Documents struct {
	pool *pgxpool.Pool
}

func NewDocuments(pool *pgxpool.Pool) *Documents {
	return &Documents{pool: pool}
}

func scanDocument(row pgx.Row) (Document, error) {
	var d Document
	if err := row.Scan(&d.ID, &d.Name, &d.Path, &d.StoragePath, &d.Ext, &d.Hash, &d.Src, &d.Label, &d.Tags, &d.CreatedAt, &d.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, errNotFound("document not found")
		}
		return Document{}, apperr.Wrap(apperr.ConfigError, "scan document", err)
	}
	return d, nil
}

const documentColumns = `id, name, path, storage_path, ext, hash, src, label, tags, created_at, updated_at`

// Insert creates a new document row. Fails with AlreadyExists if
// (src, path, hash) already exists.
func (d *Documents) Insert(ctx context.Context, doc Document) (Document, error) {
	row := d.pool.QueryRow(ctx, `
INSERT INTO documents (name, path, storage_path, ext, hash, src, label, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+documentColumns, doc.Name, doc.Path, doc.StoragePath, doc.Ext, doc.Hash, doc.Src, doc.Label, doc.Tags)

	inserted, err := scanDocument(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Document{}, errAlreadyExists("document with this (src, path, hash) already exists")
		}
		return Document{}, err
	}
	return inserted, nil
}

// FindBySrcPathHash looks up a document by its uniqueness key, used by
// Upload to make ingestion idempotent.
func (d *Documents) FindBySrcPathHash(ctx context.Context, src, path, hash string) (Document, bool, error) {
	row := d.pool.QueryRow(ctx, `
SELECT `+documentColumns+`
FROM documents WHERE src = $1 AND path = $2 AND hash = $3`, src, path, hash)

	doc, err := scanDocument(row)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return Document{}, false, nil
		}
		return Document{}, false, err
	}
	return doc, true, nil
}

func (d *Documents) Get(ctx context.Context, id string) (Document, error) {
	row := d.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

// Delete removes a document row; cascades to parse_configs, chunk_configs,
// and embeddings via foreign keys.
func (d *Documents) Delete(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.ConfigError, "delete document", err)
	}
	if tag.RowsAffected() == 0 {
		return errNotFound("document not found")
	}
	return nil
}

// ExistsByHash reports whether any document row references hash. Used to
// avoid deleting a content-addressed storage blob that another document
// still shares.
func (d *Documents) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var exists bool
	if err := d.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM documents WHERE hash = $1)`, hash).Scan(&exists); err != nil {
		return false, apperr.Wrap(apperr.ConfigError, "check document hash existence", err)
	}
	return exists, nil
}
