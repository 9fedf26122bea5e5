package strategies

import (
	"context"
	"sync"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/customHttpClient"
	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/internal/rag/embedding"
	"github.com/akolanti/docqa/internal/rag/embedding/fakeEmbedding"
	"github.com/akolanti/docqa/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/docqa/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/docqa/internal/rag/index"
	"github.com/akolanti/docqa/internal/rag/llm"
	"github.com/akolanti/docqa/internal/rag/llm/anthropicLLM"
	"github.com/akolanti/docqa/internal/rag/llm/fakeLLM"
	"github.com/akolanti/docqa/internal/rag/llm/gemini"
	"github.com/akolanti/docqa/internal/rag/llm/openaiLLM"
	"github.com/akolanti/docqa/internal/rag/vectorDB"
	"github.com/akolanti/docqa/internal/rag/vectorDB/flatIndex"
	"github.com/akolanti/docqa/internal/rag/vectorDB/qdrantDB"
)

// Strategies holds every pluggable piece of the pipeline by name.
type Strategies struct {
	Index *index.Registry

	mu   sync.RWMutex
	llms map[string]llm.Factory
}

func New() *Strategies {
	return &Strategies{Index: index.NewRegistry(), llms: map[string]llm.Factory{}}
}

func (s *Strategies) RegisterLLM(name string, f llm.Factory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.llms[name] = f
}

// LLM builds the named provider.
func (s *Strategies) LLM(ctx context.Context, name string) (llm.Provider, error) {
	s.mu.RLock()
	f, ok := s.llms[name]
	s.mu.RUnlock()
	if !ok {
		return nil, &commonModels.UnsupportedStrategyError{Kind: "llm", Name: name}
	}
	return f(ctx)
}

// NewProduction registers the strategies shipped with docqa. Clients for
// hosted services are only created when a strategy is first used. ctx bounds
// the lifetime of the shared clients.
func NewProduction(ctx context.Context, cfg config.Pipeline) *Strategies {
	s := New()
	httpClient := customHttpClient.GetHttpClient()

	s.Index.RegisterEmbedding("openai", func(context.Context) (embedding.Embedder, error) {
		return openaiEmbedding.NewOpenAIEmbedder(cfg.OpenAI, httpClient)
	})
	s.Index.RegisterEmbedding("gemini", func(context.Context) (embedding.Embedder, error) {
		return googleEmbedding.GetGoogleEmbeddingClient(ctx, cfg.Google.EmbeddingModel, cfg.Google.APIKey, httpClient)
	})
	s.Index.RegisterEmbedding("debug", func(context.Context) (embedding.Embedder, error) {
		return fakeEmbedding.New(config.DebugEmbeddingDimensionality), nil
	})

	s.Index.RegisterVectorStore("faiss", flatIndex.FromDocuments)
	s.Index.RegisterVectorStore("debug", flatIndex.FromDocuments)
	s.Index.RegisterVectorStore("qdrant", func(buildCtx context.Context, docs []*commonModels.Doc, emb embedding.Embedder) (vectorDB.VectorStore, error) {
		db, err := qdrantDB.GetQuadrantClient(ctx, cfg.Qdrant)
		if err != nil {
			return nil, err
		}
		return db.FromDocuments(buildCtx, docs, emb)
	})

	s.RegisterLLM("openai", func(context.Context) (llm.Provider, error) {
		return openaiLLM.NewOpenAIClient(cfg.OpenAI, httpClient)
	})
	s.RegisterLLM("gemini", func(context.Context) (llm.Provider, error) {
		return gemini.GetGeminiClient(ctx, cfg.Google.ChatModel, cfg.Google.APIKey, httpClient)
	})
	s.RegisterLLM("anthropic", func(context.Context) (llm.Provider, error) {
		return anthropicLLM.NewAnthropicClient(cfg.Anthropic, httpClient)
	})
	s.RegisterLLM("debug", func(context.Context) (llm.Provider, error) {
		return fakeLLM.New(), nil
	})
	return s
}
