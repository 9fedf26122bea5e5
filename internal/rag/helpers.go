package rag

import (
	"errors"
	"net/http"

	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/rag/qa"
	"github.com/akolanti/docqa/pkg/logger_i"
)

func logOutput(job jobModel.Job, status jobModel.InternalStatus, log *logger_i.Logger) jobModel.Job {
	job.CurrentStep = status
	log.Debug("job step", "Current Status", job.CurrentStep)
	return job
}

// classifyError maps the error taxonomy onto a job error.
func classifyError(err error) jobModel.JobError {
	switch {
	case isFileError(err):
		return jobModel.JobError{Code: http.StatusUnprocessableEntity, Message: err.Error(), Retry: false}
	case errors.Is(err, commonModels.ErrIndexNotFound):
		return jobModel.JobError{Code: http.StatusNotFound, Message: err.Error(), Retry: false}
	case errors.Is(err, commonModels.ErrUnsupportedStrategy):
		return jobModel.JobError{Code: http.StatusInternalServerError, Message: err.Error(), Retry: false}
	case errors.Is(err, commonModels.ErrGenerationFailure):
		return jobModel.JobError{Code: http.StatusBadGateway, Message: "Answer generation failed", Retry: true}
	default:
		return jobModel.JobError{Code: http.StatusInternalServerError, Message: "Internal Server Error", Retry: true}
	}
}

// isFileError reports whether err only concerns one file of a batch.
func isFileError(err error) bool {
	return errors.Is(err, commonModels.ErrUnsupportedFormat) ||
		errors.Is(err, commonModels.ErrUnreadableContent) ||
		errors.Is(err, commonModels.ErrExtractionFailure)
}

func (s *service) jobError(job jobModel.Job, err error, message string, log *logger_i.Logger) jobModel.Job {
	log.Error(message, "error", err, "step", job.CurrentStep)

	job.Error = classifyError(err)
	job.Status = jobModel.JobStatusError
	job.CurrentStep = jobModel.Error
	return job
}

func toSourceRefs(docs []*commonModels.Doc) []jobModel.SourceRef {
	refs := make([]jobModel.SourceRef, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, jobModel.SourceRef{
			FileName: d.FileName(),
			FileId:   d.FileId(),
			Source:   d.Source(),
			Page:     d.Page(),
			Chunk:    d.Chunk(),
			Content:  d.PageContent,
		})
	}
	return refs
}

func returnOutput(job jobModel.Job, answer *qa.AnswerWithSources) jobModel.Job {
	job.JobPayload.Answer = answer.Answer
	job.JobPayload.Citations = answer.Citations
	job.JobPayload.Cited = answer.Cited
	job.JobPayload.Confidence = string(answer.Confidence)
	job.JobPayload.Sources = toSourceRefs(answer.Sources)
	job.CurrentStep = jobModel.Complete
	return job
}
