package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	UserQueryInit InternalStatus = "Init"
	IndexLookup   InternalStatus = "IndexLookup"
	RAGCall       InternalStatus = "RAG"
	LLMCall       InternalStatus = "LLM"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	ChunkingStep     InternalStatus = "Chunking"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	IndexStoreCall   InternalStatus = "IndexStore"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery  JobType = "Query"
	JobTypeIngest JobType = "Ingest"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	IndexId string `json:"index_id,omitempty"`

	//query
	Question   string      `json:"question,omitempty"`
	ReturnAll  bool        `json:"return_all,omitempty"`
	Answer     string      `json:"answer,omitempty"`
	Citations  []string    `json:"citations,omitempty"`
	Cited      bool        `json:"cited,omitempty"`
	Confidence string      `json:"confidence,omitempty"`
	Sources    []SourceRef `json:"sources,omitempty"`

	//ingest
	Files      []UploadedFile `json:"files,omitempty"`
	Indexed    []IndexedFile  `json:"indexed,omitempty"`
	FileErrors []FileError    `json:"file_errors,omitempty"`
}

// SourceRef is a cited chunk as reported back to the client.
type SourceRef struct {
	FileName string  `json:"file_name"`
	FileId   string  `json:"file_id"`
	Source   string  `json:"source"`
	Page     int     `json:"page"`
	Chunk    int     `json:"chunk"`
	Content  string  `json:"content"`
	Score    float32 `json:"score,omitempty"`
}

// UploadedFile is a file on disk for an ingest job. Temporary files are
// removed once the job has read them.
type UploadedFile struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Temporary bool   `json:"temporary,omitempty"`
}

type IndexedFile struct {
	Name   string `json:"name"`
	Id     string `json:"id"`
	Kind   string `json:"kind"`
	Pages  int    `json:"pages"`
	Chunks int    `json:"chunks"`
}

// FileError records a file skipped by an ingest job.
type FileError struct {
	Name    string `json:"name"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}
