package handlers

import (
	"context"
	"sync"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/job"
	"github.com/akolanti/docqa/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           = logger_i.NewLogger("JobHandler")
)

type JobHandler struct {
	service *job.Service
}

func InitJobHandler(jobService *job.Service) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService}
		logJH.Info("Starting job handler")
	})
}

// CreateNewJob queues newJob. ctx bounds the wait for room in the job buffer.
func CreateNewJob(ctx context.Context, newJob jobModel.Job) error {
	logJH.With("traceId", newJob.TraceId, "jobId", newJob.Id).Info("Creating new job", "type", newJob.JobType)
	return handlerInstance.service.Enqueue(tracedContext(ctx, newJob.TraceId), newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	if handlerInstance == nil {
		return result, false
	}
	return handlerInstance.service.Status(tracedContext(context.Background(), traceId), id)
}

func tracedContext(ctx context.Context, traceId string) context.Context {
	return context.WithValue(ctx, config.TRACE_ID_KEY, traceId)
}
