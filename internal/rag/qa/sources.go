package qa

import (
	"regexp"
	"strings"

	"github.com/akolanti/docqa/internal/domain/commonModels"
)

const SourcesMarker = "SOURCES: "

type Confidence string

const (
	ConfidenceLow     Confidence = "low"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceHigh    Confidence = "high"
	ConfidenceUnknown Confidence = "unknown"
)

const cannotAnswer = "NULL"

var probabilityTag = regexp.MustCompile(`(?i)<\s*probability:\s*(low|medium|high)\s*>`)

// ParseOutput splits raw model output into the answer text and the claimed
// citation keys. cited reports whether the marker was present at all, so
// "no marker" and "marker with an empty list" stay distinguishable.
func ParseOutput(output string) (answer string, keys []string, cited bool) {
	first := strings.Index(output, SourcesMarker)
	if first < 0 {
		return strings.TrimSpace(output), nil, false
	}
	answer = strings.TrimSpace(output[:first])

	last := strings.LastIndex(output, SourcesMarker)
	segment := strings.TrimSpace(output[last+len(SourcesMarker):])
	keys = []string{}
	for _, key := range strings.Split(segment, ", ") {
		key = strings.Trim(key, ", \t\r\n")
		if key != "" {
			keys = append(keys, key)
		}
	}
	return answer, keys, true
}

// GetSources returns the docs whose citation key was claimed, in corpus
// order. Unknown keys are ignored. The result is never nil.
func GetSources(keys []string, files []*commonModels.File) []*commonModels.Doc {
	claimed := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		claimed[k] = struct{}{}
	}

	sources := []*commonModels.Doc{}
	for _, file := range files {
		for _, doc := range file.Docs {
			if _, ok := claimed[doc.Source()]; ok {
				sources = append(sources, doc)
			}
		}
	}
	return sources
}

// ParseConfidence reads the <Probability: ...> tag the prompt asks for.
func ParseConfidence(output string) Confidence {
	m := probabilityTag.FindStringSubmatch(output)
	if m == nil {
		return ConfidenceUnknown
	}
	return Confidence(strings.ToLower(m[1]))
}

func HasLowProbability(output string) bool {
	return ParseConfidence(output) == ConfidenceLow
}

// PopDocsUpToLimit drops trailing hits until the rendered prompt is at most
// maxLength characters. A maxLength of 0 keeps everything.
func PopDocsUpToLimit(question string, hits []commonModels.ScoredDoc, maxLength int) []commonModels.ScoredDoc {
	if maxLength <= 0 {
		return hits
	}
	kept := hits
	for len(kept) > 0 && promptLength(question, kept) > maxLength {
		kept = kept[:len(kept)-1]
	}
	return kept
}

func promptLength(question string, hits []commonModels.ScoredDoc) int {
	return len([]rune(RenderPrompt(question, docsOf(hits))))
}

func docsOf(hits []commonModels.ScoredDoc) []*commonModels.Doc {
	docs := make([]*commonModels.Doc, len(hits))
	for i, h := range hits {
		docs[i] = h.Doc
	}
	return docs
}
