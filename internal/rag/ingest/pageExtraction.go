package ingest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/akolanti/docqa/internal/domain/commonModels"
)

var newlineRun = regexp.MustCompile(`\s*\n\s*`)

// stripConsecutiveNewlines collapses every whitespace run that contains at
// least one newline into a single newline.
func stripConsecutiveNewlines(text string) string {
	return newlineRun.ReplaceAllString(text, "\n")
}

func normalizeText(text string) string {
	return strings.TrimSpace(stripConsecutiveNewlines(text))
}

// readAndHash reads everything from the current position and seeks back to it.
func readAndHash(r io.ReadSeeker) ([]byte, string, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("restoring read position: %w", err)
	}
	sum := md5.Sum(data)
	return data, hex.EncodeToString(sum[:]), nil
}

// newFile is shared by every format: it normalizes the pages, assigns the
// interim "p-<page>" citation keys and rejects files without any text.
func newFile(name string, id string, kind commonModels.DocType, pages []string) (*commonModels.File, error) {
	docs := make([]*commonModels.Doc, 0, len(pages))
	hasText := false
	for i, page := range pages {
		content := normalizeText(page)
		if content != "" {
			hasText = true
		}
		docs = append(docs, commonModels.NewDoc(content, commonModels.Metadata{
			commonModels.PageKey:   i + 1,
			commonModels.SourceKey: fmt.Sprintf("p-%d", i+1),
		}))
	}
	if !hasText {
		return nil, &commonModels.UnreadableContentError{Name: name}
	}

	return &commonModels.File{
		Name:     name,
		Id:       id,
		Kind:     kind,
		Metadata: map[string]any{},
		Docs:     docs,
	}, nil
}
