package llm

import "context"

// Provider completes a fully rendered prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type Factory func(ctx context.Context) (Provider, error)
