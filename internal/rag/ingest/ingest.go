package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/pkg/logger_i"
)

// Extractor turns the raw bytes of one format into ordered page texts.
// Page i of the result is physical page i+1.
type Extractor interface {
	Kind() commonModels.DocType
	ExtractPages(ctx context.Context, data []byte) ([]string, error)
}

var (
	logger       = logger_i.NewLogger("Document Ingestion")
	extractorsMu sync.RWMutex
	extractors   = map[string]Extractor{
		".pdf":  pdfExtractor{pageTimeout: config.PageExtractTimeout},
		".docx": docxExtractor{},
		".txt":  txtExtractor{},
	}
)

// RegisterExtractor adds or replaces the extractor for ext (".png", ...).
// This is how an OCR backend is plugged in for image uploads.
func RegisterExtractor(ext string, e Extractor) {
	extractorsMu.Lock()
	defer extractorsMu.Unlock()
	extractors[normalizeExt(ext)] = e
}

func SupportedExtensions() []string {
	extractorsMu.RLock()
	defer extractorsMu.RUnlock()
	exts := make([]string, 0, len(extractors))
	for ext := range extractors {
		exts = append(exts, ext)
	}
	return exts
}

func getExtractor(name string) (Extractor, string, bool) {
	ext := normalizeExt(filepath.Ext(name))
	extractorsMu.RLock()
	defer extractorsMu.RUnlock()
	e, ok := extractors[ext]
	return e, ext, ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ReadFile builds a File from r, dispatching on the extension of name.
// The reader position is restored before returning so the same reader can be
// read again and yields the same Id.
func ReadFile(ctx context.Context, r io.ReadSeeker, name string) (*commonModels.File, error) {
	log := logger.WithTrace(ctx).With("file", name)

	extractor, ext, ok := getExtractor(name)
	if !ok {
		log.Warn("unsupported extension", "extension", ext)
		return nil, &commonModels.UnsupportedFormatError{Name: name, Extension: ext}
	}

	data, id, err := readAndHash(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	pages, err := extractor.ExtractPages(ctx, data)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("extracting %s: %w", name, ctxErr)
		}
		log.Warn("extraction failed", "error", err)
		return nil, &commonModels.ExtractionError{Name: name, Err: err}
	}
	log.Debug("extracted pages", "kind", extractor.Kind(), "pages", len(pages))

	file, err := newFile(name, id, extractor.Kind(), pages)
	if err != nil {
		log.Warn("no readable content")
		return nil, err
	}
	return file, nil
}

// ReadPath opens path on disk and reads it as displayName (the path's base
// name when empty).
func ReadPath(ctx context.Context, path string, displayName string) (*commonModels.File, error) {
	if displayName == "" {
		displayName = filepath.Base(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", displayName, err)
	}
	defer f.Close()
	return ReadFile(ctx, f, displayName)
}
