package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/qwei-dev/notelens/internal/config"
	"github.com/qwei-dev/notelens/internal/content"
	"github.com/qwei-dev/notelens/internal/db"
	"github.com/qwei-dev/notelens/internal/embeddings"
	"github.com/qwei-dev/notelens/internal/harvest"
	"github.com/qwei-dev/notelens/internal/retry"
	"github.com/qwei-dev/notelens/internal/semantic"
	"github.com/qwei-dev/notelens/internal/vectorindex"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `notelens init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(cfg.EmbeddingModel)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(cfg.EmbeddingModel, cfg.Dimensions(), cfg.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbeddingProvider)
	}
}

// openServices opens the database and builds the store, index and search
// service from config. The caller owns closing the returned DB.
func openServices(cfg *config.Config) (*db.DB, *content.Store, *semantic.Service, error) {
	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating embedder: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, nil, fmt.Errorf("creating data dir: %w", err)
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, "notelens.db"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	store := content.NewStore(database)
	index := vectorindex.NewService(cfg.DataDir, cfg.Dimensions(), cfg.Index.PersistEvery)
	search := semantic.NewService(store, embedder, index, semantic.Options{
		EmbedTimeout: time.Duration(cfg.EmbedTimeoutSec) * time.Second,
		DefaultTopK:  cfg.TopK,
	})

	return database, store, search, nil
}

// harvestConfigFrom maps the config's harvest section onto pipeline settings.
func harvestConfigFrom(cfg *config.Config) harvest.Config {
	return harvest.Config{
		Retry: retry.Policy{
			MaxAttempts: cfg.Harvest.MaxRetries,
			BaseDelay:   time.Duration(cfg.Harvest.RetryBaseDelaySec) * time.Second,
			Step:        time.Duration(cfg.Harvest.RetryStepSec) * time.Second,
		},
		MaxNotesPerKeyword: cfg.Harvest.MaxNotesPerKeyword,
	}
}
