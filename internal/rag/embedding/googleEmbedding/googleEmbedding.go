package googleEmbedding

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/rag/embedding"
	"github.com/akolanti/docqa/pkg/logger_i"
	"google.golang.org/genai"
)

var logger = logger_i.NewLogger("google_embedding")
var once sync.Once
var embeddingClient *client
var initErr error
var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi *genai.Client
	model string
}

func newGoogleEmbedder(ctx context.Context, modelName string, apikey string, httpClient *http.Client) {
	if apikey == "" {
		initErr = errors.New("GOOGLE_API_KEY is not set")
		return
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI, HTTPClient: httpClient})
	if err != nil {
		logger.Error("Error creating Google Embedding client:", "error", err)
		initErr = err
		return
	}
	embeddingClient = &client{
		genAi: c,
		model: modelName,
	}
	logger.Debug("Google Embedding model name: " + modelName)
	logger.Info("Google Embedding client created")
	go closeClient(ctx, embeddingClient)
}

func closeClient(ctx context.Context, embeddingClient *client) {
	<-ctx.Done()
	logger.Info("Closing Google Embedding client")
}

// GetGoogleEmbeddingClient returns the "gemini" embedding strategy. The genai
// client is created once per process and shared.
func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string, httpClient *http.Client) (embedding.Embedder, error) {
	once.Do(func() {
		newGoogleEmbedder(ctx, modelName, apikey, httpClient)
	})

	//if init still fails
	if embeddingClient == nil {
		return nil, initErr
	}
	return &client{genAi: embeddingClient.genAi, model: embeddingClient.model}, nil
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	log := logger.WithTrace(ctx)
	log.Debug("embedding query", "length", len(query))

	result, err := withRetry(ctx, log, func() (*genai.EmbedContentResponse, error) {
		return c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(query), embedConfig("RETRIEVAL_QUERY"))
	})
	if err != nil {
		log.Error("Error getting query Embedding from Google", "error", err)
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("google returned no embedding for the query")
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := logger.WithTrace(ctx).With("chunks", len(chunks))
	log.Debug("batch embedding")

	return embedding.InBatches(ctx, chunks, config.EmbeddingBatchSize, config.EmbeddingParallelism, func(ctx context.Context, batch []string) ([][]float32, error) {
		res, err := withRetry(ctx, log, func() (*genai.EmbedContentResponse, error) {
			return c.doCall(ctx, getContent(batch))
		})
		if err != nil {
			log.Error("Error getting Embeddings from Google", "error", err)
			return nil, err
		}
		return embeddingValues(res, log), nil
	})
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, embedConfig("RETRIEVAL_DOCUMENT"))
}

func embedConfig(taskType string) *genai.EmbedContentConfig {
	return &genai.EmbedContentConfig{OutputDimensionality: &dimension, TaskType: taskType}
}
