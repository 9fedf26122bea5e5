package fakeLLM

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var sourceLine = regexp.MustCompile(`(?m)^Source: (.+)$`)

// Provider is the "debug" LLM. With a fixed Output it returns it verbatim,
// otherwise it cites every excerpt of the last question in the prompt.
type Provider struct {
	Output     string
	OnGenerate func(ctx context.Context, prompt string) (string, error)
}

func New() *Provider { return &Provider{} }

func (p *Provider) Name() string { return "debug" }

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	if p.OnGenerate != nil {
		return p.OnGenerate(ctx, prompt)
	}
	if p.Output != "" {
		return p.Output, nil
	}

	// skip the few-shot example, only the last question block counts
	last := prompt
	if i := strings.LastIndex(prompt, "QUESTION:"); i >= 0 {
		last = prompt[i:]
	}
	var keys []string
	for _, m := range sourceLine.FindAllStringSubmatch(last, -1) {
		keys = append(keys, strings.TrimSpace(m[1]))
	}
	if len(keys) == 0 {
		return "NULL <Probability: low>\nSOURCES: ", nil
	}
	return fmt.Sprintf("This is a debug answer built from %d excerpts. <Probability: medium>\nSOURCES: %s", len(keys), strings.Join(keys, ", ")), nil
}
