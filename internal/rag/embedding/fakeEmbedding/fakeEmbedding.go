package fakeEmbedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder is the "debug" strategy: a hashed bag of words. Texts sharing words
// get similar vectors, which is enough for tests and offline runs.
type Embedder struct {
	Dimension int
}

func New(dimension int) *Embedder {
	return &Embedder{Dimension: dimension}
}

func (e *Embedder) GetEmbedding(_ context.Context, query string) ([]float32, error) {
	return e.vector(query), nil
}

func (e *Embedder) BatchEmbedding(_ context.Context, chunks []string) ([][]float32, error) {
	out := make([][]float32, len(chunks))
	for i, c := range chunks {
		out[i] = e.vector(c)
	}
	return out, nil
}

func (e *Embedder) vector(text string) []float32 {
	dim := e.Dimension
	if dim < 1 {
		dim = 1
	}
	v := make([]float32, dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%uint32(dim)]++
	}

	var norm float64
	for _, x := range v {
		norm += float64(x * x)
	}
	if norm == 0 {
		v[0] = 1
		return v
	}
	n := float32(math.Sqrt(norm))
	for i := range v {
		v[i] /= n
	}
	return v
}
