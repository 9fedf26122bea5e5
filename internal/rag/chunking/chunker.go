package chunking

import (
	"fmt"

	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/pkg/logger_i"
)

var logger = logger_i.NewLogger("Chunker")

// ChunkFile returns a copy of file whose Docs are the chunks of its pages.
// Chunks are numbered from 1 within each page and get the citation key
// "<page>-<chunk>". The input file is left untouched.
func ChunkFile(file *commonModels.File, chunkSize int, chunkOverlap int) *commonModels.File {
	s := newSplitter(chunkSize, chunkOverlap)

	chunked := file.Clone()
	chunks := make([]*commonModels.Doc, 0, len(file.Docs))
	for _, doc := range file.Docs {
		page := doc.Page()
		for i, text := range s.split(doc.PageContent) {
			metadata := commonModels.Metadata{}
			for k, v := range doc.Metadata {
				metadata[k] = v
			}
			metadata[commonModels.PageKey] = page
			metadata[commonModels.ChunkKey] = i + 1
			metadata[commonModels.SourceKey] = fmt.Sprintf("%d-%d", page, i+1)
			chunks = append(chunks, commonModels.NewDoc(text, metadata))
		}
	}
	chunked.Docs = chunks

	logger.Debug("chunked file", "file", file.Name, "pages", len(file.Docs), "chunks", len(chunks))
	return chunked
}
