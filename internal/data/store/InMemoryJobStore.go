package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem JobStore")

type storedJob struct {
	job     jobModel.Job
	expires time.Time
}

// InMemoryJobStore stands in for redis. Jobs expire like redis keys do, and
// expired entries are dropped on the next write.
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]storedJob
	ttl  time.Duration
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return NewInMemoryJobStore(config.RedisJobStoreTTL)
}

// NewInMemoryJobStore keeps jobs for ttl after their last save. A ttl <= 0
// keeps them forever.
func NewInMemoryJobStore(ttl time.Duration) *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs: make(map[string]storedJob),
		ttl:  ttl,
	}
}

func (s *InMemoryJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropExpired(now)
	entry := storedJob{job: job}
	if s.ttl > 0 {
		entry.expires = now.Add(s.ttl)
	}
	s.jobs[job.Id] = entry
	inMemLogger.WithTrace(ctx).Debug("Saved job to store", "jobId", job.Id, "status", job.Status)
	return nil
}

func (s *InMemoryJobStore) GetJob(_ context.Context, jobId string) (jobModel.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, found := s.jobs[jobId]
	if !found || s.expired(entry, time.Now()) {
		return jobModel.Job{}, false
	}
	return entry.job, true
}

func (s *InMemoryJobStore) DeleteJob(_ context.Context, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}

// Len counts stored jobs, expired ones included until the next write.
func (s *InMemoryJobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *InMemoryJobStore) expired(entry storedJob, now time.Time) bool {
	return !entry.expires.IsZero() && now.After(entry.expires)
}

func (s *InMemoryJobStore) dropExpired(now time.Time) {
	for id, entry := range s.jobs {
		if s.expired(entry, now) {
			delete(s.jobs, id)
		}
	}
}
