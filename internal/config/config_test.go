package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("QDRANT_URL", "http://localhost:6334")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_RequiresVectorStore(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/chonkit")
	t.Setenv("QDRANT_URL", "")
	t.Setenv("WEAVIATE_URL", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/chonkit")
	t.Setenv("QDRANT_URL", "http://localhost:6334")
	t.Setenv("WEAVIATE_URL", "")
	t.Setenv("UPLOAD_PATH", "")
	t.Setenv("ADDRESS", "")
	t.Setenv("OPENAI_KEY", "")
	t.Setenv("FEMBED_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "./upload", cfg.UploadPath)
	require.Equal(t, "0.0.0.0:42069", cfg.Address)
	require.Equal(t, "qdrant", cfg.VectorStore.Provider)
	require.Equal(t, "fastembed-local", cfg.Embedder.Provider)
	require.Equal(t, 10, cfg.DBPoolSize)
	require.Equal(t, 256, cfg.MaxBatchSize)
}

func TestLoad_EmbedderProviderPrecedence(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/chonkit")
	t.Setenv("QDRANT_URL", "http://localhost:6334")
	t.Setenv("OPENAI_KEY", "sk-test")
	t.Setenv("FEMBED_URL", "http://localhost:8000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "openai", cfg.Embedder.Provider)
}
