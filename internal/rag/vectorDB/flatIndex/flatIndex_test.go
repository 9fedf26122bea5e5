package flatIndex

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/internal/rag/vectorDB"
)

// mapEmbedder returns fixed vectors per text.
type mapEmbedder struct {
	vectors  map[string][]float32
	OnQuery  func(string) ([]float32, error)
	batchErr error
}

func (m mapEmbedder) GetEmbedding(_ context.Context, q string) ([]float32, error) {
	if m.OnQuery != nil {
		return m.OnQuery(q)
	}
	return m.vectors[q], nil
}

func (m mapEmbedder) BatchEmbedding(_ context.Context, chunks []string) ([][]float32, error) {
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = m.vectors[c]
	}
	return out, nil
}

func docs(texts ...string) []*commonModels.Doc {
	out := make([]*commonModels.Doc, len(texts))
	for i, t := range texts {
		out[i] = commonModels.NewDoc(t, nil)
	}
	return out
}

func TestSimilaritySearch(t *testing.T) {
	emb := mapEmbedder{vectors: map[string][]float32{
		"north": {0, 1},
		"east":  {1, 0},
		"ne":    {1, 1},
		"q":     {0.1, 2},
	}}
	input := docs("east", "ne", "north")

	store, err := FromDocuments(context.Background(), input, emb)
	if err != nil {
		t.Fatalf("FromDocuments failed: %v", err)
	}

	hits, err := store.SimilaritySearch(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(hits) != 2 || hits[0].Doc.PageContent != "north" || hits[1].Doc.PageContent != "ne" {
		t.Fatalf("unexpected order: %v, %v", hits[0].Doc.PageContent, hits[1].Doc.PageContent)
	}
	if hits[0].Doc != input[2] {
		t.Error("search must return the stored doc, not a copy")
	}

	all, _ := store.SimilaritySearch(context.Background(), "q", 10)
	if len(all) != 3 {
		t.Errorf("k larger than corpus should return everything, got %d", len(all))
	}
}

func TestSimilaritySearch_TiesKeepCorpusOrder(t *testing.T) {
	emb := mapEmbedder{vectors: map[string][]float32{"a": {1, 0}, "b": {2, 0}, "q": {1, 0}}}
	store, _ := FromDocuments(context.Background(), docs("a", "b"), emb)
	hits, _ := store.SimilaritySearch(context.Background(), "q", 2)
	if hits[0].Doc.PageContent != "a" {
		t.Errorf("equal scores should keep insertion order")
	}
}

func TestFromDocuments_Errors(t *testing.T) {
	boom := errors.New("embedder down")
	tests := []struct {
		name string
		emb  mapEmbedder
		want error
	}{
		{"embedder error", mapEmbedder{batchErr: boom}, boom},
		{"dimension mismatch", mapEmbedder{vectors: map[string][]float32{"a": {1}, "b": {1, 2}}}, vectorDB.ErrDimensionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDocuments(context.Background(), docs("a", "b"), tt.emb)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSimilaritySearch_QueryErrors(t *testing.T) {
	boom := errors.New("query failed")
	emb := mapEmbedder{vectors: map[string][]float32{"a": {1, 0}}}
	store, _ := FromDocuments(context.Background(), docs("a"), emb)

	idx := store.(*Index)
	idx.embedder = mapEmbedder{OnQuery: func(string) ([]float32, error) { return nil, boom }}
	if _, err := store.SimilaritySearch(context.Background(), "x", 1); !errors.Is(err, boom) {
		t.Errorf("got %v", err)
	}

	idx.embedder = mapEmbedder{OnQuery: func(string) ([]float32, error) { return []float32{1, 0, 0}, nil }}
	if _, err := store.SimilaritySearch(context.Background(), "x", 1); !errors.Is(err, vectorDB.ErrDimensionMismatch) {
		t.Errorf("got %v", err)
	}
}

func TestSimilaritySearch_Empty(t *testing.T) {
	store, err := FromDocuments(context.Background(), nil, mapEmbedder{})
	if err != nil {
		t.Fatal(err)
	}
	hits, err := store.SimilaritySearch(context.Background(), "anything", 3)
	if err != nil || len(hits) != 0 {
		t.Fatalf("got %v, %v", hits, err)
	}
}
