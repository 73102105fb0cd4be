// Package repository is the metadata store: Postgres-backed CRUD over the
// document, config, collection, and embedding-record entities. It is the
// system of record; the vector store holds a derivable index over the same
// documents (see internal/vectordb).
package repository

import (
	"time"

	"chonkit/internal/apperr"
)

// Document mirrors the documents table.
type Document struct {
	ID          string
	Name        string
	Path        string
	StoragePath string
	Ext         string
	Hash        string
	Src         string
	Label       string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ParseConfig mirrors the parse_configs table. Config is the raw JSON
// tagged variant described in chunk/parser configs.
type ParseConfig struct {
	ID         string
	DocumentID string
	Config     []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ChunkConfig mirrors the chunk_configs table.
type ChunkConfig struct {
	ID         string
	DocumentID string
	Config     []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Collection mirrors the collections table.
type Collection struct {
	ID        string
	Name      string
	Model     string
	Embedder  string
	Provider  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Embedding mirrors the embeddings table: "this document has been embedded
// into this collection".
type Embedding struct {
	ID           string
	DocumentID   string
	CollectionID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func errNotFound(reason string) error {
	return apperr.New(apperr.NotFound, reason)
}

func errAlreadyExists(reason string) error {
	return apperr.New(apperr.AlreadyExists, reason)
}
