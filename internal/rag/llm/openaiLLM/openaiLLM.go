package openaiLLM

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/rag/llm"
	"github.com/akolanti/docqa/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var logger = logger_i.NewLogger("llm_openai")

type llmClient struct {
	api       openai.Client
	modelName string
}

// NewOpenAIClient returns the "openai" LLM strategy.
func NewOpenAIClient(provider config.Provider, httpClient *http.Client) (llm.Provider, error) {
	if provider.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(provider.APIKey),
		option.WithMaxRetries(2),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	if provider.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(provider.BaseURL))
	}
	model := provider.ChatModel
	if model == "" {
		model = config.OpenAIChatModel
	}
	return &llmClient{api: openai.NewClient(opts...), modelName: model}, nil
}

func (c *llmClient) Name() string { return "openai" }

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.WithTrace(ctx)

	res, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(float64(config.ModelTemperature)),
	})
	if err != nil {
		log.Error("Error calling chat completion", "error", err)
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	log.Debug("chat completion", "model", res.Model, "total_tokens", res.Usage.TotalTokens)
	return res.Choices[0].Message.Content, nil
}
