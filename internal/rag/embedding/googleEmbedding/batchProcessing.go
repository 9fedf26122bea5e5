package googleEmbedding

import (
	"context"
	"time"

	"github.com/akolanti/docqa/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const maxAttempts = 3

var retryDelay = 5 * time.Second

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))

	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}

func doRetry(err error, log *logger_i.Logger) bool {
	if s, ok := status.FromError(err); ok {
		if s.Code() == codes.ResourceExhausted || s.Code() == codes.Unavailable {
			log.Error("Rate limit hit! ", "error", err)
			return true
		}
	}
	return false
}

// withRetry retries rate limited calls with a linear backoff.
func withRetry[T any](ctx context.Context, log *logger_i.Logger, call func() (T, error)) (T, error) {
	var res T
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err = call()
		if err == nil || !doRetry(err, log) {
			return res, err
		}
		wait := time.Duration(attempt) * retryDelay
		log.Debug("Retrying embedding call", "attempt", attempt, "wait", wait)
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-time.After(wait):
		}
	}
	return res, err
}

// embeddingValues keeps one slot per input so vectors stay aligned with chunks.
// A missing result is a nil vector, which the vector store rejects.
func embeddingValues(res *genai.EmbedContentResponse, log *logger_i.Logger) [][]float32 {
	if res == nil {
		return nil
	}
	results := make([][]float32, 0, len(res.Embeddings))
	for i, r := range res.Embeddings {
		if r == nil {
			log.Error("Error with a particular result in batch embedding", "index", i)
			results = append(results, nil)
			continue
		}
		results = append(results, r.Values)
	}
	return results
}
