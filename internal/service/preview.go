package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"chonkit/internal/chunk"
	"chonkit/internal/parser"
)

// Preview parses and chunks data with ad-hoc (not necessarily persisted)
// parse and chunk configs and returns the resulting chunks. It performs no
// persistence: not the document, not the configs, not an embedding record.
// A semantic_window config still issues real embedding calls (memoized
// through EmbedCache when set), since chunk boundaries depend on them.
func (s *Service) Preview(ctx context.Context, path string, data []byte, rawParseConfig, rawChunkConfig []byte) ([]string, error) {
	ctx, end := s.startSpan(ctx, "preview", attribute.String("path", path))
	chunks, err := s.preview(ctx, path, data, rawParseConfig, rawChunkConfig)
	end(&err)
	return chunks, err
}

func (s *Service) preview(ctx context.Context, path string, data []byte, rawParseConfig, rawChunkConfig []byte) ([]string, error) {
	parseCfg, err := parser.DecodeConfig(rawParseConfig)
	if err != nil {
		return nil, err
	}
	chunkCfg, err := s.decodeChunkConfig(ctx, rawChunkConfig, true)
	if err != nil {
		return nil, err
	}

	text, err := parser.ForPath(path).Parse(ctx, data, parseCfg)
	if err != nil {
		return nil, err
	}

	chunks, err := chunk.Chunk(ctx, text, chunkCfg)
	if err != nil {
		return nil, err
	}
	return chunks, nil
}
