package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chonkit/internal/apperr"
)

// ParseConfigs is the CRUD surface over parse_configs; upserts by
// document_id since at most one config exists per document.
type ParseConfigs struct {
	pool *pgxpool.Pool
}

func NewParseConfigs(pool *pgxpool.Pool) *ParseConfigs {
	return &ParseConfigs{pool: pool}
}

func (c *ParseConfigs) Upsert(ctx context.Context, documentID string, config []byte) (ParseConfig, error) {
	row := c.pool.QueryRow(ctx, `
INSERT INTO parse_configs (document_id, config) VALUES ($1, $2)
ON CONFLICT (document_id) DO UPDATE SET config = EXCLUDED.config
RETURNING id, document_id, config, created_at, updated_at`, documentID, config)

	var pc ParseConfig
	if err := row.Scan(&pc.ID, &pc.DocumentID, &pc.Config, &pc.CreatedAt, &pc.UpdatedAt); err != nil {
		return ParseConfig{}, apperr.Wrap(apperr.ConfigError, "upsert parse config", err)
	}
	return pc, nil
}

func (c *ParseConfigs) Get(ctx context.Context, documentID string) (ParseConfig, error) {
	row := c.pool.QueryRow(ctx, `
SELECT id, document_id, config, created_at, updated_at
FROM parse_configs WHERE document_id = $1`, documentID)

	var pc ParseConfig
	if err := row.Scan(&pc.ID, &pc.DocumentID, &pc.Config, &pc.CreatedAt, &pc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ParseConfig{}, errNotFound("parse config not found")
		}
		return ParseConfig{}, apperr.Wrap(apperr.ConfigError, "get parse config", err)
	}
	return pc, nil
}

// ChunkConfigs is the CRUD surface over chunk_configs; upserts by
// document_id since at most one config exists per document.
type ChunkConfigs struct {
	pool *pgxpool.Pool
}

func NewChunkConfigs(pool *pgxpool.Pool) *ChunkConfigs {
	return &ChunkConfigs{pool: pool}
}

func (c *ChunkConfigs) Upsert(ctx context.Context, documentID string, config []byte) (ChunkConfig, error) {
	row := c.pool.QueryRow(ctx, `
INSERT INTO chunk_configs (document_id, config) VALUES ($1, $2)
ON CONFLICT (document_id) DO UPDATE SET config = EXCLUDED.config
RETURNING id, document_id, config, created_at, updated_at`, documentID, config)

	var cc ChunkConfig
	if err := row.Scan(&cc.ID, &cc.DocumentID, &cc.Config, &cc.CreatedAt, &cc.UpdatedAt); err != nil {
		return ChunkConfig{}, apperr.Wrap(apperr.ConfigError, "upsert chunk config", err)
	}
	return cc, nil
}

func (c *ChunkConfigs) Get(ctx context.Context, documentID string) (ChunkConfig, error) {
	row := c.pool.QueryRow(ctx, `
SELECT id, document_id, config, created_at, updated_at
FROM chunk_configs WHERE document_id = $1`, documentID)

	var cc ChunkConfig
	if err := row.Scan(&cc.ID, &cc.DocumentID, &cc.Config, &cc.CreatedAt, &cc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ChunkConfig{}, errNotFound("chunk config not found")
		}
		return ChunkConfig{}, apperr.Wrap(apperr.ConfigError, "get chunk config", err)
	}
	return cc, nil
}
