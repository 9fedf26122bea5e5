package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Pipeline configures the chunk -> index -> retrieve -> answer pipeline.
type Pipeline struct {
	Embedding       string `yaml:"embedding"`
	VectorStore     string `yaml:"vector_store"`
	LLM             string `yaml:"llm"`
	ChunkSize       int    `yaml:"chunk_size"`
	ChunkOverlap    int    `yaml:"chunk_overlap"`
	K               int    `yaml:"k"`
	MaxPromptLength int    `yaml:"max_prompt_length"`
	SkipFailedFiles bool   `yaml:"skip_failed_files"`

	OpenAI    Provider `yaml:"openai"`
	Google    Provider `yaml:"google"`
	Anthropic Provider `yaml:"anthropic"`
	Qdrant    Qdrant   `yaml:"qdrant"`
}

// Provider holds credentials and model names for a hosted model vendor.
type Provider struct {
	APIKey         string `yaml:"-"`
	BaseURL        string `yaml:"base_url,omitempty"`
	ChatModel      string `yaml:"chat_model"`
	EmbeddingModel string `yaml:"embedding_model"`
}

type Qdrant struct {
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"-"`
	UseTLS bool   `yaml:"use_tls"`
}

// AuthToken guards the HTTP surface. Empty means requests are not checked.
var AuthToken = os.Getenv("DOCQA_AUTH_TOKEN")

func DefaultPipeline() Pipeline {
	return Pipeline{
		Embedding:       "openai",
		VectorStore:     "faiss",
		LLM:             "openai",
		ChunkSize:       300,
		ChunkOverlap:    0,
		K:               5,
		MaxPromptLength: 0,
		SkipFailedFiles: true,
		OpenAI: Provider{
			ChatModel:      OpenAIChatModel,
			EmbeddingModel: OpenAIEmbeddingModel,
		},
		Google: Provider{
			ChatModel:      GeminiModelName,
			EmbeddingModel: GoogleEmbeddingModel,
		},
		Anthropic: Provider{
			ChatModel: AnthropicChatModel,
		},
		Qdrant: Qdrant{
			Host:   QdrantHost,
			Port:   QdrantGrpcPort,
			UseTLS: QdrantUseTLS,
		},
	}
}

// LoadPipeline reads a yaml config from path on top of the defaults. A missing
// file is not an error. Secrets only ever come from the environment (or .env).
func LoadPipeline(path string) (Pipeline, error) {
	_ = godotenv.Load()

	cfg := DefaultPipeline()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading pipeline config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing pipeline config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Pipeline) {
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	cfg.Google.APIKey = os.Getenv("GOOGLE_API_KEY")
	cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.Qdrant.APIKey = os.Getenv("QDRANT_API_KEY")
	if v := os.Getenv("QDRANT_HOST"); v != "" {
		cfg.Qdrant.Host = v
	}
	if port, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil {
		cfg.Qdrant.Port = port
	}
	if v := os.Getenv("DOCQA_EMBEDDING"); v != "" {
		cfg.Embedding = v
	}
	if v := os.Getenv("DOCQA_VECTOR_STORE"); v != "" {
		cfg.VectorStore = v
	}
	if v := os.Getenv("DOCQA_LLM"); v != "" {
		cfg.LLM = v
	}
}

// Validate only checks numeric bounds. Strategy names are checked by the
// registry so an unknown name is reported as an unsupported strategy.
func (p Pipeline) Validate() error {
	if p.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be >= 1, got %d", p.ChunkSize)
	}
	if p.ChunkOverlap < 0 || p.ChunkOverlap >= p.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size), got %d", p.ChunkOverlap)
	}
	if p.K < 1 {
		return fmt.Errorf("k must be >= 1, got %d", p.K)
	}
	if p.MaxPromptLength < 0 {
		return fmt.Errorf("max_prompt_length must be >= 0, got %d", p.MaxPromptLength)
	}
	return nil
}
