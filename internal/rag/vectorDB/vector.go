package vectorDB

import (
	"context"
	"errors"

	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/internal/rag/embedding"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// VectorStore answers nearest neighbour queries over the Docs it was built
// from. Results are the stored *Doc values themselves, best score first.
type VectorStore interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]commonModels.ScoredDoc, error)
}

// Releaser is implemented by stores holding external resources (a remote
// collection) that must be dropped when the index is evicted.
type Releaser interface {
	Release(ctx context.Context) error
}

// EmbedDocs embeds the page content of docs in order.
func EmbedDocs(ctx context.Context, docs []*commonModels.Doc, emb embedding.Embedder) ([][]float32, error) {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.PageContent
	}
	vectors, err := emb.BatchEmbedding(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(docs) {
		return nil, errors.New("embedder returned a different number of vectors than docs")
	}
	return vectors, nil
}
