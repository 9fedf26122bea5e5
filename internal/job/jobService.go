package job

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/metrics"
	"github.com/akolanti/docqa/pkg/logger_i"
)

var logger = logger_i.NewLogger("JobService")

// Service is the queue between the request handlers and the worker pool.
type Service struct {
	JobChannel        chan jobModel.Job
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore

	requestCount int64
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		requestCount:      cfg.RequestCount,
	}
}

func NewQueryJob(id string, traceId string, indexId string, question string, returnAll bool) jobModel.Job {
	j := newJob(id, traceId, indexId, jobModel.JobTypeQuery, jobModel.UserQueryInit)
	j.JobPayload.Question = question
	j.JobPayload.ReturnAll = returnAll
	return j
}

func NewIngestJob(id string, traceId string, indexId string, files []jobModel.UploadedFile) jobModel.Job {
	j := newJob(id, traceId, indexId, jobModel.JobTypeIngest, jobModel.IngestInit)
	j.JobPayload.Files = files
	return j
}

func newJob(id string, traceId string, indexId string, jobType jobModel.JobType, step jobModel.InternalStatus) jobModel.Job {
	return jobModel.Job{
		Id:          id,
		TraceId:     traceId,
		JobType:     jobType,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: step,
		JobPayload:  jobModel.JobPayload{IndexId: indexId},
	}
}

// Enqueue saves j so /status can see it, then hands it to the worker pool.
// It blocks while the job buffer is full, until ctx is done.
func (s *Service) Enqueue(ctx context.Context, j jobModel.Job) error {
	log := logger.WithTrace(ctx).With("jobId", j.Id)

	if err := s.JobStore.SaveJob(ctx, j); err != nil {
		log.Error("Could not save queued job", "error", err)
		return fmt.Errorf("saving job %s: %w", j.Id, err)
	}

	select {
	case s.JobChannel <- j:
	case <-ctx.Done():
		log.Warn("Gave up queueing job", "error", ctx.Err())
		j.Status = jobModel.JobStatusError
		j.CurrentStep = jobModel.Error
		j.Error = jobModel.JobError{Code: 503, Message: "QUEUE_FULL", Retry: true}
		j.EndTime = time.Now()
		_ = s.JobStore.SaveJob(context.WithoutCancel(ctx), j)
		return ctx.Err()
	}
	metrics.IncrementJobsInQueue()
	log.Debug("Queued job", "type", j.JobType)

	count := atomic.AddInt64(&s.requestCount, 1)
	if s.needsWorker(count, j) {
		metrics.StartDispatcherSignalCount()
		select {
		case s.DispatcherChannel <- true:
		default:
			log.Debug("Dispatcher busy, skipping worker signal", "requests", count)
		}
	}
	return nil
}

// needsWorker asks for a worker every RequestsPerNewWorkerCount requests and
// for every ingest. Idle workers retire on their own.
func (s *Service) needsWorker(count int64, j jobModel.Job) bool {
	return count%config.RequestsPerNewWorkerCount == 0 || j.JobType == jobModel.JobTypeIngest
}

func (s *Service) Status(ctx context.Context, id string) (jobModel.Job, bool) {
	return s.JobStore.GetJob(ctx, id)
}
