package googleEmbedding

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akolanti/docqa/pkg/logger_i"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestDoRetry(t *testing.T) {
	log := logger_i.NewLogger("test")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"resource exhausted", status.Error(codes.ResourceExhausted, "quota"), true},
		{"unavailable", status.Error(codes.Unavailable, "down"), true},
		{"invalid argument", status.Error(codes.InvalidArgument, "bad"), false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := doRetry(tt.err, log); got != tt.want {
				t.Errorf("doRetry() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithRetry(t *testing.T) {
	retryDelay = time.Millisecond
	log := logger_i.NewLogger("test")

	calls := 0
	got, err := withRetry(context.Background(), log, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, status.Error(codes.ResourceExhausted, "quota")
		}
		return 42, nil
	})
	if err != nil || got != 42 || calls != 3 {
		t.Fatalf("got %d, %v after %d calls", got, err, calls)
	}

	calls = 0
	_, err = withRetry(context.Background(), log, func() (int, error) {
		calls++
		return 0, errors.New("fatal")
	})
	if err == nil || calls != 1 {
		t.Fatalf("non retryable error should not retry, calls=%d", calls)
	}
}

func TestEmbeddingValues(t *testing.T) {
	res := &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{
		{Values: []float32{1, 2}},
		nil,
		{Values: []float32{3}},
	}}
	got := embeddingValues(res, logger_i.NewLogger("test"))
	if len(got) != 3 || got[1] != nil || got[2][0] != 3 {
		t.Fatalf("unexpected values %v", got)
	}
}

func TestGetContent(t *testing.T) {
	got := getContent([]string{"a", "b"})
	if len(got) != 2 || got[1].Parts[0].Text != "b" {
		t.Fatalf("unexpected content %+v", got)
	}
}
