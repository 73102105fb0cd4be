package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"chonkit/internal/chunk"
	"chonkit/internal/parser"
	"chonkit/internal/repository"
)

// ConfigureParser validates rawConfig against the parser config schema and
// upserts it for documentID. A nil/empty rawConfig means "no range
// restriction" and is persisted as an empty JSON object.
func (s *Service) ConfigureParser(ctx context.Context, documentID string, rawConfig []byte) (repository.ParseConfig, error) {
	ctx, end := s.startSpan(ctx, "configure_parser", attribute.String("document_id", documentID))
	cfg, err := s.configureParser(ctx, documentID, rawConfig)
	end(&err)
	return cfg, err
}

func (s *Service) configureParser(ctx context.Context, documentID string, rawConfig []byte) (repository.ParseConfig, error) {
	if _, err := parser.DecodeConfig(rawConfig); err != nil {
		return repository.ParseConfig{}, err
	}
	if _, err := s.Documents.Get(ctx, documentID); err != nil {
		return repository.ParseConfig{}, err
	}
	return s.ParseConfigs.Upsert(ctx, documentID, normalizeJSON(rawConfig))
}

// ConfigureChunker validates rawConfig against the chunker config schema
// (resolving the named embedder for semantic_window configs) and upserts it
// for documentID.
func (s *Service) ConfigureChunker(ctx context.Context, documentID string, rawConfig []byte) (repository.ChunkConfig, error) {
	ctx, end := s.startSpan(ctx, "configure_chunker", attribute.String("document_id", documentID))
	cfg, err := s.configureChunker(ctx, documentID, rawConfig)
	end(&err)
	return cfg, err
}

func (s *Service) configureChunker(ctx context.Context, documentID string, rawConfig []byte) (repository.ChunkConfig, error) {
	if _, err := s.decodeChunkConfig(ctx, rawConfig, false); err != nil {
		return repository.ChunkConfig{}, err
	}
	if _, err := s.Documents.Get(ctx, documentID); err != nil {
		return repository.ChunkConfig{}, err
	}
	return s.ChunkConfigs.Upsert(ctx, documentID, rawConfig)
}

// decodeChunkConfig resolves the embedder named in a semantic_window config
// (if any) before delegating to chunk.DecodeConfig. memo wraps the resolved
// embedder with the preview cache; Preview sets this, real Embed calls don't
// since embed results are written once and not repeated.
func (s *Service) decodeChunkConfig(ctx context.Context, rawConfig []byte, memo bool) (chunk.Config, error) {
	name, err := chunk.EmbedderName(rawConfig)
	if err != nil {
		return nil, err
	}
	var e chunk.Embedder
	if name != "" {
		resolved, err := s.Embedders.Get(name)
		if err != nil {
			return nil, err
		}
		e = resolved
		if memo {
			e = s.cachingEmbedder(e)
		}
	}
	return chunk.DecodeConfig(rawConfig, e)
}

// normalizeJSON maps a nil/empty raw config to an empty JSON object, since
// JSONB columns are NOT NULL.
func normalizeJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	return raw
}
