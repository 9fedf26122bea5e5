package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/rag/llm"
	"github.com/akolanti/docqa/pkg/logger_i"
	"google.golang.org/genai"
)

const systemInstruction = "You answer questions strictly from the document excerpts in the prompt and always follow its output format."

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger = logger_i.NewLogger("llm_gemini")
var geminiClient *llmClient
var initErr error
var once sync.Once

// GetGeminiClient returns the "gemini" LLM strategy. The genai client is
// created once per process.
func GetGeminiClient(ctx context.Context, modelName string, apikey string, httpClient *http.Client) (llm.Provider, error) {
	once.Do(func() {
		newGeminiClient(ctx, modelName, apikey, httpClient)
	})

	if geminiClient == nil {
		return nil, initErr
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}, nil
}

func newGeminiClient(ctx context.Context, modelName string, apikey string, httpClient *http.Client) {
	if apikey == "" {
		initErr = errors.New("GOOGLE_API_KEY is not set")
		return
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey, Backend: genai.BackendGeminiAPI, HTTPClient: httpClient})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
		initErr = err
		return
	}
	geminiClient = &llmClient{client: c, modelName: modelName}
	logger.Debug("Gemini client created", "model", modelName)
	logger.Info("Gemini client created")
	go closeClient(ctx)
}

func (c *llmClient) Name() string { return "gemini" }

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.WithTrace(ctx)

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature: genai.Ptr(config.ModelTemperature),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), contentConfig)
	if err != nil {
		log.Error("Error generating content", "error", err)
		return "", err
	}
	if result == nil {
		return "", errors.New("gemini returned no candidates")
	}
	return result.Text(), nil
}

func closeClient(ctx context.Context) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
}
