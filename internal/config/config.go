// Package config loads chonkit's configuration from the environment,
// following the teacher repo's convention of a .env overlay via godotenv
// plus explicit os.Getenv reads rather than a struct-tag binding library.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every setting recognized per the external interfaces design.
type Config struct {
	DatabaseURL    string
	UploadPath     string
	Address        string
	AllowedOrigins []string

	VectorStore VectorStoreConfig
	Embedder    EmbedderConfig

	RedisURL        string
	KafkaBrokers    []string
	KafkaEventTopic string

	DBPoolSize        int
	MaxBatchSize      int
	EmbedTimeout      int // seconds
	OpTimeout         int // seconds
	LogLevel          string
	LogPath           string
	OTLPEndpoint      string
	ServiceVersion    string
	ObjectStoreBucket string // non-empty selects the s3 document store backend
}

// VectorStoreConfig selects and configures the vector store backend.
type VectorStoreConfig struct {
	Provider string // "qdrant" | "weaviate"
	URL      string
}

// EmbedderConfig selects and configures the embedder backend.
type EmbedderConfig struct {
	Provider string // "fastembed-local" | "fastembed-remote" | "openai"
	FembedURL string
	OpenAIKey string
}

// Load reads configuration from the process environment, optionally
// overlaid from a .env file in the working directory (ignored if absent).
func Load() (*Config, error) {
	_ = godotenv.Overload()

	cfg := &Config{
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		UploadPath:     firstNonEmpty(os.Getenv("UPLOAD_PATH"), "./upload"),
		Address:        firstNonEmpty(os.Getenv("ADDRESS"), "0.0.0.0:42069"),
		AllowedOrigins: splitCSV(os.Getenv("ALLOWED_ORIGINS")),

		RedisURL:        strings.TrimSpace(os.Getenv("REDIS_URL")),
		KafkaBrokers:    splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaEventTopic: firstNonEmpty(os.Getenv("KAFKA_EVENTS_TOPIC"), "chonkit.embeddings"),

		LogLevel:          firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		LogPath:           strings.TrimSpace(os.Getenv("LOG_PATH")),
		OTLPEndpoint:      strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		ServiceVersion:    firstNonEmpty(os.Getenv("SERVICE_VERSION"), "dev"),
		ObjectStoreBucket: strings.TrimSpace(os.Getenv("S3_BUCKET")),
	}

	cfg.VectorStore.URL = firstNonEmpty(os.Getenv("QDRANT_URL"), os.Getenv("WEAVIATE_URL"))
	switch {
	case os.Getenv("QDRANT_URL") != "":
		cfg.VectorStore.Provider = "qdrant"
		cfg.VectorStore.URL = os.Getenv("QDRANT_URL")
	case os.Getenv("WEAVIATE_URL") != "":
		cfg.VectorStore.Provider = "weaviate"
		cfg.VectorStore.URL = os.Getenv("WEAVIATE_URL")
	}

	cfg.Embedder.FembedURL = strings.TrimSpace(os.Getenv("FEMBED_URL"))
	cfg.Embedder.OpenAIKey = strings.TrimSpace(os.Getenv("OPENAI_KEY"))
	switch {
	case cfg.Embedder.OpenAIKey != "":
		cfg.Embedder.Provider = "openai"
	case cfg.Embedder.FembedURL != "":
		cfg.Embedder.Provider = "fastembed-remote"
	default:
		cfg.Embedder.Provider = "fastembed-local"
	}

	cfg.DBPoolSize = intEnv("DB_POOL_SIZE", 10)
	cfg.MaxBatchSize = intEnv("MAX_BATCH_SIZE", 256)
	cfg.EmbedTimeout = intEnv("EMBED_TIMEOUT_SECONDS", 600)
	cfg.OpTimeout = intEnv("OP_TIMEOUT_SECONDS", 30)

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.VectorStore.Provider == "" {
		return nil, fmt.Errorf("one of QDRANT_URL or WEAVIATE_URL is required")
	}

	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func splitCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intEnv(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
