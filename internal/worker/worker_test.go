package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/job"
)

// MockRagService to track which jobs are executed
type MockRagService struct {
	QueryCount  int32
	IngestCount int32
	OnProcess   func(j jobModel.Job) jobModel.Job
}

func (m *MockRagService) ProcessRequest(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.QueryCount, 1)
	if m.OnProcess != nil {
		return m.OnProcess(j)
	}
	j.CurrentStep = jobModel.Complete
	return j
}

func (m *MockRagService) IngestFiles(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.IngestCount, 1)
	j.CurrentStep = jobModel.Complete
	return j
}

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.Job) error

	mu    sync.Mutex
	saved map[string][]jobModel.JobStatus
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	if m.saved == nil {
		m.saved = map[string][]jobModel.JobStatus{}
	}
	m.saved[j.Id] = append(m.saved[j.Id], j.Status)
	m.mu.Unlock()
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

func (m *MockJobStore) statuses(id string) []jobModel.JobStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]jobModel.JobStatus(nil), m.saved[id]...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestWorkerPool_Flow(t *testing.T) {
	atomic.StoreInt64(&currentWorkerCount, 0)
	jobStore := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobStore,
	}
	mockRag := &MockRagService{
		OnProcess: func(j jobModel.Job) jobModel.Job {
			if j.Id == "fails" {
				j.Status = jobModel.JobStatusError
				j.Error = jobModel.JobError{Code: 404, Message: "folder index not found"}
			}
			return j
		},
	}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockRag)
	InitWorkerPool(stopChan, wg)
	defer close(jobSvc.DispatcherChannel)

	t.Run("Pool starts with one worker", func(t *testing.T) {
		if count := atomic.LoadInt64(&currentWorkerCount); count != 1 {
			t.Errorf("Expected 1 worker, got %d", count)
		}
	})

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true
		waitFor(t, func() bool { return atomic.LoadInt64(&currentWorkerCount) == 2 })
	})

	t.Run("Worker runs jobs by type", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "query-1", JobType: jobModel.JobTypeQuery}
		jobSvc.JobChannel <- jobModel.Job{Id: "ingest-1", JobType: jobModel.JobTypeIngest}

		waitFor(t, func() bool {
			return atomic.LoadInt32(&mockRag.QueryCount) == 1 && atomic.LoadInt32(&mockRag.IngestCount) == 1
		})
		waitFor(t, func() bool { return len(jobStore.statuses("ingest-1")) == 2 })

		got := jobStore.statuses("ingest-1")
		if got[0] != jobModel.JobStatusRunning || got[1] != jobModel.JobStatusComplete {
			t.Errorf("ingest statuses = %v", got)
		}
	})

	t.Run("Failed job keeps its error status", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "fails", JobType: jobModel.JobTypeQuery}
		waitFor(t, func() bool { return len(jobStore.statuses("fails")) == 2 })

		got := jobStore.statuses("fails")
		if got[1] != jobModel.JobStatusError {
			t.Errorf("final status = %s, want %s", got[1], jobModel.JobStatusError)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	atomic.StoreInt64(&currentWorkerCount, 0)
	previousTimeout := idleWorkerTimeout
	idleWorkerTimeout = 20 * time.Millisecond
	defer func() { idleWorkerTimeout = previousTimeout }()

	jobSvc := &job.Service{JobChannel: make(chan jobModel.Job)}
	InitServices(jobSvc, &MockRagService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	createWorker()
	createWorker()
	createWorker()

	waitFor(t, func() bool { return atomic.LoadInt64(&currentWorkerCount) == minWorkerCount })

	time.Sleep(60 * time.Millisecond)
	if count := atomic.LoadInt64(&currentWorkerCount); count != minWorkerCount {
		t.Errorf("pool shrank below the minimum: %d", count)
	}

	close(stopChan)
	wg.Wait()
}
