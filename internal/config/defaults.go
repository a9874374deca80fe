package config

// embeddingDimensions maps known embedding models to their output sizes,
// so the common cases need no explicit embedding_dimensions setting.
var embeddingDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"nomic-embed-text":       768,
	"bge-large-zh-v1.5":      1024,
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:              5000,
		DataDir:           "data",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		EmbedTimeoutSec:   30,
		TopK:              10,
		Index: IndexConfig{
			PersistEvery: 1,
		},
		Harvest: HarvestConfig{
			MaxNotesPerKeyword: 30,
			MaxRetries:         3,
			RetryBaseDelaySec:  3,
			RetryStepSec:       2,
		},
	}
}

// Dimensions resolves the embedding dimension count, preferring an explicit
// setting over the known-model table.
func (c *Config) Dimensions() int {
	if c.EmbeddingDimensions > 0 {
		return c.EmbeddingDimensions
	}
	if d, ok := embeddingDimensions[c.EmbeddingModel]; ok {
		return d
	}
	return 0
}
