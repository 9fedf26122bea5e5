package store

import (
	"context"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/data/redisStore"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/pkg/logger_i"
)

const jobKeyPrefix = "docqa:job:"

type RedisJobStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

// GetRedisJobStore returns nil when redis is offline so the caller can fall
// back to InitInMemoryJobStore.
func GetRedisJobStore(ctx context.Context) *RedisJobStore {
	s := redisStore.GetRedisStore(ctx, config.RedisJobStore)
	if s == nil {
		return nil
	}
	return NewRedisJobStore(s)
}

func NewRedisJobStore(s *redisStore.Store) *RedisJobStore {
	return &RedisJobStore{
		store:  s,
		logger: logger_i.NewLogger("JobStore"),
	}
}

func jobKey(jobId string) string {
	return jobKeyPrefix + jobId
}

func (s *RedisJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	log := s.logger.WithTrace(ctx).With("jobId", job.Id)
	if err := s.store.SetJSON(ctx, jobKey(job.Id), job, config.RedisJobStoreTTL); err != nil {
		log.Error("could not save job", "error", err)
		return err
	}
	log.Debug("Saved job to Redis", "status", job.Status)
	return nil
}

func (s *RedisJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	var job jobModel.Job
	log := s.logger.WithTrace(ctx).With("jobId", jobId)

	found, err := s.store.GetJSON(ctx, jobKey(jobId), &job)
	if err != nil {
		log.Error("could not read job", "error", err)
		return jobModel.Job{}, false
	}
	return job, found
}

func (s *RedisJobStore) DeleteJob(ctx context.Context, jobID string) {
	log := s.logger.WithTrace(ctx).With("jobId", jobID)
	removed, err := s.store.Del(ctx, jobKey(jobID))
	if err != nil {
		log.Error("Error deleting job from Redis", "error", err)
		return
	}
	log.Debug("Job deleted from Redis", "existed", removed > 0)
}
