package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/docqa/internal/api"
	"github.com/akolanti/docqa/internal/domain/jobModel"
)

func ToInitJobResponse(id string, indexId string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		IndexId:   indexId,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Step:   string(job.CurrentStep),
	}
	switch job.JobType {
	case jobModel.JobTypeIngest:
		result.IngestResponse = ToIngestResponse(job.JobPayload)
	default:
		result.QAResponse = ToQAResponse(job.JobPayload)
	}

	return api.JobResponse{
		Id:        job.Id,
		Type:      string(job.JobType),
		IndexId:   job.JobPayload.IndexId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

// ToQAResponse is nil until the job has produced model output.
func ToQAResponse(payload jobModel.JobPayload) *api.QAResponse {
	if payload.Answer == "" && len(payload.Sources) == 0 && !payload.Cited {
		return nil
	}

	sources := make([]api.SourceResponse, 0, len(payload.Sources))
	for _, s := range payload.Sources {
		sources = append(sources, api.SourceResponse{
			FileName: s.FileName,
			FileId:   s.FileId,
			Source:   s.Source,
			Page:     s.Page,
			Chunk:    s.Chunk,
			Content:  s.Content,
			Score:    s.Score,
		})
	}
	citations := payload.Citations
	if citations == nil {
		citations = []string{}
	}

	return &api.QAResponse{
		Question:   payload.Question,
		Answer:     payload.Answer,
		Citations:  citations,
		Cited:      payload.Cited,
		Confidence: payload.Confidence,
		Sources:    sources,
	}
}

func ToIngestResponse(payload jobModel.JobPayload) *api.IngestResponse {
	if len(payload.Indexed) == 0 && len(payload.FileErrors) == 0 {
		return nil
	}

	res := &api.IngestResponse{
		IndexId: payload.IndexId,
		Files:   make([]api.IndexedFileResponse, 0, len(payload.Indexed)),
	}
	for _, f := range payload.Indexed {
		res.Files = append(res.Files, api.IndexedFileResponse{
			Name:   f.Name,
			Id:     f.Id,
			Kind:   f.Kind,
			Pages:  f.Pages,
			Chunks: f.Chunks,
		})
	}
	for _, f := range payload.FileErrors {
		res.Skipped = append(res.Skipped, api.SkippedFileResponse{
			Name:    f.Name,
			Code:    f.Code,
			Message: f.Message,
		})
	}
	return res
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
