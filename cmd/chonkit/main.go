// Command chonkit runs the document pre-processing and embedding pipeline
// as an HTTP service: parse configuration, wire up storage/embedder/vector
// backends, and serve internal/httpapi until signaled to stop.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"chonkit/internal/cache"
	"chonkit/internal/config"
	"chonkit/internal/db"
	"chonkit/internal/embedder"
	"chonkit/internal/events"
	"chonkit/internal/httpapi"
	"chonkit/internal/logger"
	"chonkit/internal/service"
	"chonkit/internal/store"
	"chonkit/internal/tracing"
	"chonkit/internal/vectordb"
)

// defaultModels gives each embedder provider a model/dimension table, since
// none of the provider constructors ship one of their own.
var defaultModels = map[string]map[string]int{
	"fastembed-local":  {"BAAI/bge-small-en-v1.5": 384},
	"fastembed-remote": {"BAAI/bge-small-en-v1.5": 384},
	"openai": {
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	},
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("chonkit exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogPath, cfg.LogLevel)

	baseCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracer, shutdownTracing, err := tracing.Init(baseCtx, cfg.OTLPEndpoint, cfg.ServiceVersion)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Error().Err(err).Msg("shutdown tracing")
		}
	}()

	pool, err := db.Open(baseCtx, cfg.DatabaseURL, cfg.DBPoolSize)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := db.Bootstrap(baseCtx, pool); err != nil {
		return err
	}

	docStore, err := buildDocStore(baseCtx, cfg)
	if err != nil {
		return err
	}

	registry := embedder.NewRegistry()
	registry.Register(cfg.Embedder.Provider, buildEmbedder(cfg))

	vectorStores, err := buildVectorStores(cfg)
	if err != nil {
		return err
	}

	svc := service.New(pool, docStore, registry, vectorStores)
	svc.Tracer = tracer
	svc.MaxBatch = cfg.MaxBatchSize

	cacheStore, closeCache := buildCacheStore(cfg)
	defer closeCache()
	svc.EmbedCache = cache.NewEmbedMemo(cacheStore, time.Duration(cfg.EmbedTimeout)*time.Second)

	publisher, closePublisher := buildPublisher(cfg)
	defer closePublisher()
	svc.Events = publisher

	mux := http.NewServeMux()
	httpapi.Register(mux, svc)

	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", cfg.Address).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-baseCtx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func buildDocStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.ObjectStoreBucket != "" {
		return store.NewS3Store(ctx, store.S3Config{Bucket: cfg.ObjectStoreBucket})
	}
	return store.NewLocalStore(cfg.UploadPath)
}

func buildEmbedder(cfg *config.Config) embedder.Embedder {
	models := defaultModels[cfg.Embedder.Provider]
	switch cfg.Embedder.Provider {
	case "openai":
		return embedder.NewOpenAI(cfg.Embedder.OpenAIKey, "", models)
	case "fastembed-remote":
		return embedder.NewRemote(cfg.Embedder.FembedURL, models)
	default:
		return embedder.NewLocal(models)
	}
}

func buildVectorStores(cfg *config.Config) (map[string]vectordb.VectorStore, error) {
	switch cfg.VectorStore.Provider {
	case "qdrant":
		vs, err := vectordb.NewQdrant(cfg.VectorStore.URL)
		if err != nil {
			return nil, err
		}
		return map[string]vectordb.VectorStore{"qdrant": vs}, nil
	case "weaviate":
		return map[string]vectordb.VectorStore{
			"weaviate": vectordb.NewWeaviate(cfg.VectorStore.URL, ""),
		}, nil
	default:
		return map[string]vectordb.VectorStore{"memory": vectordb.NewMemory()}, nil
	}
}

func buildCacheStore(cfg *config.Config) (cache.Store, func()) {
	if cfg.RedisURL != "" {
		r, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Error().Err(err).Msg("connect redis, falling back to in-memory preview cache")
		} else {
			return r, func() {
				if err := r.Close(); err != nil {
					log.Error().Err(err).Msg("close redis")
				}
			}
		}
	}
	return cache.NewMemory(), func() {}
}

func buildPublisher(cfg *config.Config) (events.Publisher, func()) {
	if len(cfg.KafkaBrokers) > 0 {
		k := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaEventTopic)
		return k, func() {
			if err := k.Close(); err != nil {
				log.Error().Err(err).Msg("close kafka producer")
			}
		}
	}
	return events.Noop{}, func() {}
}
