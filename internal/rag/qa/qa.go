package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/internal/rag/index"
	"github.com/akolanti/docqa/internal/rag/llm"
	"github.com/akolanti/docqa/pkg/logger_i"
)

var logger = logger_i.NewLogger("QA")

type Options struct {
	K               int
	ReturnAll       bool
	MaxPromptLength int
}

func DefaultOptions() Options {
	return Options{K: 5}
}

// AnswerWithSources is only built when generation succeeded.
type AnswerWithSources struct {
	Answer     string
	Citations  []string
	Cited      bool
	Confidence Confidence
	Sources    []*commonModels.Doc
	Retrieved  []commonModels.ScoredDoc
	RawOutput  string
}

func (a *AnswerWithSources) IsLowConfidence() bool {
	return a.Confidence == ConfidenceLow
}

// CannotAnswer is true when the model answered NULL.
func (a *AnswerWithSources) CannotAnswer() bool {
	answer := strings.TrimSpace(probabilityTag.ReplaceAllString(a.Answer, ""))
	return strings.EqualFold(answer, cannotAnswer)
}

// GetAnswer retrieves the top K chunks for query, asks provider for a grounded
// answer and resolves the citations it claims against the indexed files.
func GetAnswer(ctx context.Context, query string, folder *index.FolderIndex, provider llm.Provider, opts Options) (*AnswerWithSources, error) {
	log := logger.WithTrace(ctx)
	if folder == nil || folder.Index == nil {
		return nil, commonModels.ErrIndexNotFound
	}
	if opts.K <= 0 {
		opts.K = DefaultOptions().K
	}

	hits, err := folder.Index.SimilaritySearch(ctx, query, opts.K)
	if err != nil {
		log.Error("similarity search failed", "error", err)
		return nil, fmt.Errorf("searching %s index: %w", folder.Name, err)
	}

	inPrompt := PopDocsUpToLimit(query, hits, opts.MaxPromptLength)
	if len(inPrompt) < len(hits) {
		log.Warn("prompt too long, dropped excerpts", "kept", len(inPrompt), "retrieved", len(hits))
	}
	docs := docsOf(inPrompt)

	output, err := provider.Generate(ctx, RenderPrompt(query, docs))
	if err != nil {
		log.Error("generation failed", "provider", provider.Name(), "error", err)
		var genErr *commonModels.GenerationError
		if errors.As(err, &genErr) {
			return nil, err
		}
		return nil, &commonModels.GenerationError{Provider: provider.Name(), Err: err}
	}

	answer, keys, cited := ParseOutput(output)
	result := &AnswerWithSources{
		Answer:     answer,
		Citations:  keys,
		Cited:      cited,
		Confidence: ParseConfidence(output),
		Retrieved:  hits,
		RawOutput:  output,
	}
	if opts.ReturnAll {
		result.Sources = docsOf(hits)
	} else {
		result.Sources = GetSources(keys, folder.Files)
	}
	log.Debug("answered", "retrieved", len(hits), "claimed", len(keys), "sources", len(result.Sources), "confidence", result.Confidence)
	return result, nil
}
