// Offline bundle builder for safesearch.
// Parses the corpus text file, embeds every record's search text, builds the
// similarity index, and atomically publishes the bundle directory the API
// server loads at startup.
//
// Usage:
//
//	safesearch-build [-data data.txt] [-out safe_resources]
//
// Env vars:
//
//	ENV — config environment name (default: local); variables referenced as
//	${VAR} in the config file (API keys) are read from the environment or .env
package main

import (
	"context"
	"flag"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/safekb/safesearch/internal/bundle"
	"github.com/safekb/safesearch/internal/config"
	"github.com/safekb/safesearch/internal/corpus"
	"github.com/safekb/safesearch/internal/db"
	dbRedis "github.com/safekb/safesearch/internal/db/redis"
	"github.com/safekb/safesearch/internal/domain"
	logpkg "github.com/safekb/safesearch/internal/logger"
	"github.com/safekb/safesearch/internal/metrics"
	"github.com/safekb/safesearch/internal/repository/embcache"
	openaiEmb "github.com/safekb/safesearch/internal/transport/openai"
	builduc "github.com/safekb/safesearch/internal/usecase/build"
	embeddinguc "github.com/safekb/safesearch/internal/usecase/embedding"
)

func main() {
	_ = godotenv.Load()

	dataPath := flag.String("data", "", "corpus text file (default: corpus.source_path from config)")
	outDir := flag.String("out", "", "bundle output directory (default: bundle.dir from config)")
	flag.Parse()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if *dataPath != "" {
		cfg.Corpus.SourcePath = *dataPath
	}
	if *outDir != "" {
		cfg.Bundle.Dir = *outDir
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bundle build",
		zap.String("env", env),
		zap.String("corpus", cfg.Corpus.SourcePath),
		zap.String("bundle_dir", cfg.Bundle.Dir),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	metrics.RegisterEmbeddingMetrics()

	ctx := context.Background()

	var store db.Store
	if cfg.CacheEnabled() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		timeout := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(ctx, timeout); err != nil {
			logger.Fatal("Cache store not ready", zap.Error(err))
		}
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// Any failure below aborts the build; the bundle directory is only
	// replaced after a fully successful save.
	records, err := corpus.ParseFile(cfg.Corpus.SourcePath)
	if err != nil {
		logger.Fatal("Failed to read corpus — check corpus.source_path", zap.Error(err))
	}
	logger.Info("Parsed corpus", zap.Int("records", len(records)))

	builder := builduc.New(
		buildEmbedder(cfg, store, logger),
		cfg.Corpus.SearchFields,
		cfg.Embedding.Model,
		logger,
	)

	start := time.Now()
	b, err := builder.Build(ctx, records)
	if err != nil {
		logger.Fatal("Build failed", zap.Error(err))
	}

	if err := bundle.Save(cfg.Bundle.Dir, b); err != nil {
		logger.Fatal("Failed to save bundle", zap.Error(err))
	}

	logger.Info("Bundle published",
		zap.String("bundle_dir", cfg.Bundle.Dir),
		zap.Int("records", b.Meta.RecordCount),
		zap.Int("dimension", b.Meta.Dimension),
		zap.String("model", b.Meta.Model),
		zap.Duration("duration", time.Since(start)),
	)
}

// buildEmbedder assembles the same decorator chain the server uses:
// OpenAI -> Cached -> Instrumented.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) *embeddinguc.InstrumentedEmbedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, cfg.Embedding.Model, metrics.EmbeddingCacheTotal, logger)
	}

	return embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Model, cfg.Embedding.BatchSize, logger,
	)
}
