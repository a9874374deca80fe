package config

// ProviderType identifies an embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level notelens configuration, corresponding to
// .notelens.yml.
type Config struct {
	Port    int    `yaml:"port" koanf:"port"`
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	EmbeddingProvider   ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel      string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDimensions int          `yaml:"embedding_dimensions" koanf:"embedding_dimensions"`
	OllamaURL           string       `yaml:"ollama_url" koanf:"ollama_url"`
	EmbedTimeoutSec     int          `yaml:"embed_timeout_sec" koanf:"embed_timeout_sec"`

	TopK  int         `yaml:"top_k" koanf:"top_k"`
	Index IndexConfig `yaml:"index" koanf:"index"`

	Harvest HarvestConfig `yaml:"harvest" koanf:"harvest"`
}

// IndexConfig holds vector-index settings.
type IndexConfig struct {
	// PersistEvery is the checkpoint cadence: 1 persists the index and id
	// map on every addition (immediately crash-safe, O(index) write per
	// add); N checkpoints every N additions and on shutdown.
	PersistEvery int `yaml:"persist_every" koanf:"persist_every"`
}

// HarvestConfig holds ingestion-pipeline settings.
type HarvestConfig struct {
	MaxNotesPerKeyword int `yaml:"max_notes_per_keyword" koanf:"max_notes_per_keyword"`
	MaxRetries         int `yaml:"max_retries" koanf:"max_retries"`
	RetryBaseDelaySec  int `yaml:"retry_base_delay_sec" koanf:"retry_base_delay_sec"`
	RetryStepSec       int `yaml:"retry_step_sec" koanf:"retry_step_sec"`
}
