package anthropicLLM

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/rag/llm"
	"github.com/akolanti/docqa/pkg/logger_i"
)

var logger = logger_i.NewLogger("llm_anthropic")

type llmClient struct {
	api       anthropic.Client
	modelName string
}

// NewAnthropicClient returns the "anthropic" LLM strategy.
func NewAnthropicClient(provider config.Provider, httpClient *http.Client) (llm.Provider, error) {
	if provider.APIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY is not set")
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
		model = config.AnthropicChatModel
	}
	return &llmClient{api: anthropic.NewClient(opts...), modelName: model}, nil
}

func (c *llmClient) Name() string { return "anthropic" }

func (c *llmClient) Generate(ctx context.Context, prompt string) (string, error) {
	log := logger.WithTrace(ctx)

	res, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.modelName),
		MaxTokens: config.AnthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(float64(config.ModelTemperature)),
	})
	if err != nil {
		log.Error("Error calling messages api", "error", err)
		return "", err
	}

	var out strings.Builder
	for _, block := range res.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	if out.Len() == 0 {
		return "", errors.New("anthropic returned no text")
	}
	log.Debug("message", "model", res.Model, "input_tokens", res.Usage.InputTokens, "output_tokens", res.Usage.OutputTokens)
	return out.String(), nil
}
