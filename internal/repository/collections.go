package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"chonkit/internal/apperr"
)

// Collections is the CRUD surface over the collections table.
type Collections struct {
	pool *pgxpool.Pool
}

func NewCollections(pool *pgxpool.Pool) *Collections {
	return &Collections{pool: pool}
}

func scanCollection(row pgx.Row) (Collection, error) {
	var c Collection
	if err := row.Scan(&c.ID, &c.Name, &c.Model, &c.Embedder, &c.Provider, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Collection{}, errNotFound("collection not found")
		}
		return Collection{}, apperr.Wrap(apperr.ConfigError, "scan collection", err)
	}
	return c, nil
}

const collectionColumns = `id, name, model, embedder, provider, created_at, updated_at`

func (c *Collections) Insert(ctx context.Context, col Collection) (Collection, error) {
	row := c.pool.QueryRow(ctx, `
INSERT INTO collections (name, model, embedder, provider)
VALUES ($1, $2, $3, $4)
RETURNING `+collectionColumns, col.Name, col.Model, col.Embedder, col.Provider)

	inserted, err := scanCollection(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Collection{}, errAlreadyExists("collection with this (name, provider) already exists")
		}
		return Collection{}, err
	}
	return inserted, nil
}

func (c *Collections) Get(ctx context.Context, id string) (Collection, error) {
	row := c.pool.QueryRow(ctx, `SELECT `+collectionColumns+` FROM collections WHERE id = $1`, id)
	return scanCollection(row)
}

func (c *Collections) FindByNameProvider(ctx context.Context, name, provider string) (Collection, bool, error) {
	row := c.pool.QueryRow(ctx, `
SELECT `+collectionColumns+` FROM collections WHERE name = $1 AND provider = $2`, name, provider)

	col, err := scanCollection(row)
	if err != nil {
		if apperr.Is(err, apperr.NotFound) {
			return Collection{}, false, nil
		}
		return Collection{}, false, err
	}
	return col, true, nil
}

func (c *Collections) List(ctx context.Context) ([]Collection, error) {
	rows, err := c.pool.Query(ctx, `SELECT `+collectionColumns+` FROM collections ORDER BY created_at`)
	if err != nil {
		return nil, apperr.Wrap(apperr.ConfigError, "list collections", err)
	}
	defer rows.Close()

	var out []Collection
	for rows.Next() {
		col, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, col)
	}
	return out, rows.Err()
}

// Delete removes a collection row; cascades to embeddings via foreign key.
func (c *Collections) Delete(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.ConfigError, "delete collection", err)
	}
	if tag.RowsAffected() == 0 {
		return errNotFound("collection not found")
	}
	return nil
}
