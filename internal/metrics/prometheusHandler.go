package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var dispatcherSignalCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "dispatcher_signal_count",
	Help: "How often the dispatcher has signaled to start worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

var citationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "answer_citations_total",
	Help: "Citation keys claimed by the model, labelled by whether they resolved to an indexed chunk",
}, []string{"result"})

var documentsIndexed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "documents_indexed_total",
	Help: "Uploaded files by ingest outcome",
}, []string{"outcome"})

// HttpStatusRecorder keeps the status code written by a handler.
type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func NewHttpStatusRecorder(w http.ResponseWriter) *HttpStatusRecorder {
	return &HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func StartDispatcherSignalCount() {
	dispatcherSignalCount.Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}
func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "job_duration_seconds",
	Help:    "Total time spent executing a job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60, 120},
}, []string{"type", "status"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_step_latency_seconds",
	Help:    "Latency of pipeline steps and external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"step"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(jobType string, status string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(jobType, status).Observe(timeElapsed.Seconds())
}

// CaptureCitationMetrics counts claimed keys that resolved and those that did not.
func CaptureCitationMetrics(claimed int, resolved int) {
	if resolved > claimed {
		resolved = claimed
	}
	citationsTotal.WithLabelValues("resolved").Add(float64(resolved))
	citationsTotal.WithLabelValues("unresolved").Add(float64(claimed - resolved))
}

func CaptureIngestMetrics(indexed int, skipped int) {
	documentsIndexed.WithLabelValues("indexed").Add(float64(indexed))
	documentsIndexed.WithLabelValues("skipped").Add(float64(skipped))
}
