package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Embedder turns text into vectors. BatchEmbedding returns one vector per
// input, in input order.
type Embedder interface {
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
}

// BatchFunc embeds one batch that the provider accepts in a single call.
type BatchFunc func(ctx context.Context, batch []string) ([][]float32, error)

// InBatches splits chunks into batches of batchSize and embeds up to
// parallelism batches at once. The first failing batch cancels the rest.
func InBatches(ctx context.Context, chunks []string, batchSize int, parallelism int, embed BatchFunc) ([][]float32, error) {
	if batchSize < 1 {
		batchSize = len(chunks)
	}
	results := make([][]float32, len(chunks))
	if len(chunks) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for start := 0; start < len(chunks); start += batchSize {
		end := min(start+batchSize, len(chunks))
		g.Go(func() error {
			vectors, err := embed(gctx, chunks[start:end])
			if err != nil {
				return err
			}
			if len(vectors) != end-start {
				return fmt.Errorf("embedding batch [%d:%d] returned %d vectors", start, end, len(vectors))
			}
			copy(results[start:end], vectors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
