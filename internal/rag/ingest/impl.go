package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat/docxtxt"
)

type pdfExtractor struct {
	pageTimeout time.Duration
}

func (pdfExtractor) Kind() commonModels.DocType { return commonModels.PDF }

func (e pdfExtractor) ExtractPages(ctx context.Context, data []byte) ([]string, error) {
	f, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			logger.Debug("extractPDF", "null page", i)
			pages = append(pages, "")
			continue
		}

		content, err := e.protectExtract(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// keep the page slot so later page numbers stay physical
			logger.Error("Error parsing page content", "page", i, "error", err)
			pages = append(pages, "")
			continue
		}
		pages = append(pages, content)
	}
	return pages, nil
}

func (e pdfExtractor) protectExtract(ctx context.Context, page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("malformed page: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	timeout := e.pageTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(timeout):
		return "", errors.New("page extraction timeout")
	}
}

type docxExtractor struct{}

func (docxExtractor) Kind() commonModels.DocType { return commonModels.DOCX }

// docx is a zip archive; cat.FromBytes would fall back to plain text for anything else
var zipMagic = []byte("PK\x03\x04")

// docx has no reliable page boundaries, the whole body is page 1
func (docxExtractor) ExtractPages(_ context.Context, data []byte) ([]string, error) {
	if !bytes.HasPrefix(data, zipMagic) {
		return nil, errors.New("docx is not a zip archive")
	}
	text, err := docxtxt.BytesToStr(data)
	if err != nil {
		return nil, fmt.Errorf("failed to extract docx: %w", err)
	}
	return []string{text}, nil
}

type txtExtractor struct{}

func (txtExtractor) Kind() commonModels.DocType { return commonModels.TXT }

func (txtExtractor) ExtractPages(_ context.Context, data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, errors.New("text file is not valid utf-8")
	}
	return []string{string(data)}, nil
}
