package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/metrics"
)

func executeJob(job jobModel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.JobType), string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.JobTimeout)
	defer cancel()
	log := logger.WithTrace(ctx).With("jobId", job.Id, "jobType", job.JobType)
	log.Debug("Processing job")

	job = saveJobState(ctx, job, jobModel.JobStatusRunning)

	switch job.JobType {
	case jobModel.JobTypeIngest:
		job.CurrentStep = jobModel.IngestInit
		job = _ragService.IngestFiles(ctx, job)
	default:
		job.CurrentStep = jobModel.UserQueryInit
		job = _ragService.ProcessRequest(ctx, job)
	}

	job.EndTime = time.Now()
	if job.Status == jobModel.JobStatusError {
		log.Warn("Job failed", "code", job.Error.Code, "step", job.CurrentStep)
		job = saveJobState(ctx, job, jobModel.JobStatusError)
		return
	}
	job = saveJobState(ctx, job, jobModel.JobStatusComplete)
	log.Info("Job complete", "duration", time.Since(start))
}

func removeWorker(reason string) {
	workerWaitGroup.Done()
	count := atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker", "reason", reason, "workerCount", count)
	metrics.DecrementActiveWorkerCount()
}

// saveJobState stores job under status. A failed save is logged only, the
// job carries on.
func saveJobState(ctx context.Context, job jobModel.Job, jobStatus jobModel.JobStatus) jobModel.Job {
	job.Status = jobStatus
	// the job deadline may be spent, the final state must still be written
	if err := _jobService.JobStore.SaveJob(context.WithoutCancel(ctx), job); err != nil {
		logger.Error("Failed to update job status", "jobId", job.Id, "err", err)
	}
	return job
}
