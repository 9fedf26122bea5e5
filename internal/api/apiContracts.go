package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Type      string            `json:"type,omitempty" example:"Query"`
	IndexId   string            `json:"index_id,omitempty" example:"3f1c1e4e-8f5e-4a53-9b0b-9a3c3d1f2e11"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status         string          `json:"status" example:"COMPLETE"`
	Step           string          `json:"step,omitempty" example:"Complete"`
	QAResponse     *QAResponse     `json:"qa_response,omitempty"`
	IngestResponse *IngestResponse `json:"ingest_response,omitempty"`
}

type QAResponse struct {
	Question   string           `json:"question" example:"What color is the sky?"`
	Answer     string           `json:"answer" example:"The sky is blue. <Probability: high>"`
	Citations  []string         `json:"citations" example:"1-1"`
	Cited      bool             `json:"cited"`
	Confidence string           `json:"confidence" example:"high"`
	Sources    []SourceResponse `json:"sources"`
}

type SourceResponse struct {
	FileName string  `json:"file_name" example:"sky.pdf"`
	FileId   string  `json:"file_id" example:"9e107d9d372bb6826bd81d3542a419d6"`
	Source   string  `json:"source" example:"1-1"`
	Page     int     `json:"page" example:"1"`
	Chunk    int     `json:"chunk" example:"1"`
	Content  string  `json:"content" example:"The sky is blue."`
	Score    float32 `json:"score,omitempty"`
}

type IngestResponse struct {
	IndexId string                `json:"index_id"`
	Files   []IndexedFileResponse `json:"files"`
	Skipped []SkippedFileResponse `json:"skipped,omitempty"`
}

type IndexedFileResponse struct {
	Name   string `json:"name" example:"sky.pdf"`
	Id     string `json:"id"`
	Kind   string `json:"kind" example:"pdf"`
	Pages  int    `json:"pages" example:"3"`
	Chunks int    `json:"chunks" example:"12"`
}

type SkippedFileResponse struct {
	Name    string `json:"name" example:"scan.png"`
	Code    int    `json:"code" example:"422"`
	Message string `json:"message"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	IndexId   string `json:"index_id,omitempty"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type QueryRequest struct {
	IndexId   string `json:"index_id" validate:"required" example:"3f1c1e4e-8f5e-4a53-9b0b-9a3c3d1f2e11"`
	Question  string `json:"question" validate:"required" example:"What color is the sky?"`
	ReturnAll bool   `json:"return_all,omitempty"`
}
