package flatIndex

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/internal/rag/embedding"
	"github.com/akolanti/docqa/internal/rag/vectorDB"
	"github.com/akolanti/docqa/pkg/logger_i"
)

var logger = logger_i.NewLogger("Flat Index")

// Index is an in-process exact cosine index. It backs the "faiss" and "debug"
// vector store names.
type Index struct {
	mu        sync.RWMutex
	embedder  embedding.Embedder
	dimension int
	vectors   [][]float32
	docs      []*commonModels.Doc
}

// FromDocuments embeds docs and builds the index in one go.
func FromDocuments(ctx context.Context, docs []*commonModels.Doc, emb embedding.Embedder) (vectorDB.VectorStore, error) {
	vectors, err := vectorDB.EmbedDocs(ctx, docs, emb)
	if err != nil {
		return nil, err
	}
	idx := &Index{embedder: emb}
	if err := idx.add(docs, vectors); err != nil {
		return nil, err
	}
	logger.WithTrace(ctx).Debug("built flat index", "docs", len(docs), "dimension", idx.dimension)
	return idx, nil
}

func (x *Index) add(docs []*commonModels.Doc, vectors [][]float32) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("doc %d has no vector", i)
		}
		if x.dimension == 0 {
			x.dimension = len(v)
		}
		if len(v) != x.dimension {
			return fmt.Errorf("doc %d: %w (%d != %d)", i, vectorDB.ErrDimensionMismatch, len(v), x.dimension)
		}
		x.vectors = append(x.vectors, normalize(v))
	}
	x.docs = append(x.docs, docs...)
	return nil
}

func (x *Index) SimilaritySearch(ctx context.Context, query string, k int) ([]commonModels.ScoredDoc, error) {
	qv, err := x.embedder.GetEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return x.searchVector(qv, k)
}

func (x *Index) searchVector(query []float32, k int) ([]commonModels.ScoredDoc, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.docs) == 0 || k <= 0 {
		return []commonModels.ScoredDoc{}, nil
	}
	if len(query) != x.dimension {
		return nil, fmt.Errorf("query: %w (%d != %d)", vectorDB.ErrDimensionMismatch, len(query), x.dimension)
	}

	q := normalize(query)
	hits := make([]commonModels.ScoredDoc, len(x.docs))
	for i, v := range x.vectors {
		hits[i] = commonModels.ScoredDoc{Doc: x.docs[i], Score: dot(q, v)}
	}
	// stable keeps corpus order between equal scores
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	return hits[:min(k, len(hits))], nil
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.docs)
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if norm == 0 {
		return out
	}
	n := float32(math.Sqrt(norm))
	for i, x := range v {
		out[i] = x / n
	}
	return out
}
