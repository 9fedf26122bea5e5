package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/docqa/internal/rag/index"
	"github.com/akolanti/docqa/internal/rag/vectorDB"
	"github.com/akolanti/docqa/pkg/logger_i"
)

var indexLogger = logger_i.NewLogger("InMem IndexStore")

type storedIndex struct {
	folder   *index.FolderIndex
	lastUsed time.Time
}

// InMemoryIndexStore keeps folder indexes in process. Indexes not read for
// ttl are evicted and their vector store released.
type InMemoryIndexStore struct {
	mu      sync.Mutex
	indexes map[string]*storedIndex
	ttl     time.Duration
	now     func() time.Time
}

func InitInMemoryIndexStore(ttl time.Duration) *InMemoryIndexStore {
	return &InMemoryIndexStore{
		indexes: make(map[string]*storedIndex),
		ttl:     ttl,
		now:     time.Now,
	}
}

// StartSweeper evicts expired indexes every interval until ctx is done, then
// releases everything left.
func (s *InMemoryIndexStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-ctx.Done():
				s.releaseAll()
				return
			}
		}
	}()
}

func (s *InMemoryIndexStore) SaveIndex(ctx context.Context, id string, folder *index.FolderIndex) error {
	s.mu.Lock()
	previous := s.indexes[id]
	s.indexes[id] = &storedIndex{folder: folder, lastUsed: s.now()}
	s.mu.Unlock()

	if previous != nil && previous.folder != folder {
		release(context.WithoutCancel(ctx), id, previous.folder)
	}
	indexLogger.WithTrace(ctx).Debug("Saved index", "indexId", id, "files", len(folder.Files))
	return nil
}

func (s *InMemoryIndexStore) GetIndex(ctx context.Context, id string) (*index.FolderIndex, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.indexes[id]
	if !ok {
		return nil, false
	}
	stored.lastUsed = s.now()
	return stored.folder, true
}

// Sweep drops indexes idle for longer than the ttl and returns how many went.
func (s *InMemoryIndexStore) Sweep(ctx context.Context) int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	expired := map[string]*index.FolderIndex{}
	s.mu.Lock()
	for id, stored := range s.indexes {
		if stored.lastUsed.Before(cutoff) {
			expired[id] = stored.folder
			delete(s.indexes, id)
		}
	}
	s.mu.Unlock()

	for id, folder := range expired {
		release(ctx, id, folder)
	}
	if len(expired) > 0 {
		indexLogger.Info("Evicted idle indexes", "count", len(expired))
	}
	return len(expired)
}

func (s *InMemoryIndexStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.indexes)
}

func (s *InMemoryIndexStore) releaseAll() {
	s.mu.Lock()
	all := s.indexes
	s.indexes = make(map[string]*storedIndex)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for id, stored := range all {
		release(ctx, id, stored.folder)
	}
}

func release(ctx context.Context, id string, folder *index.FolderIndex) {
	if folder == nil {
		return
	}
	r, ok := folder.Index.(vectorDB.Releaser)
	if !ok {
		return
	}
	if err := r.Release(ctx); err != nil {
		indexLogger.Error("could not release vector store", "indexId", id, "error", err)
	}
}
