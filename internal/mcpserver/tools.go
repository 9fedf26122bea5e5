package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/docqa/internal/adapter"
	"github.com/akolanti/docqa/internal/adapter/utils"
	"github.com/akolanti/docqa/internal/api"
	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/job"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type IndexFilesInput struct {
	Paths []string `json:"paths" jsonschema:"absolute paths of the PDF, DOCX or TXT files to index"`
}

type AskInput struct {
	IndexId   string `json:"index_id" jsonschema:"the index id returned by index_files"`
	Question  string `json:"question" jsonschema:"the question to answer from the indexed files"`
	ReturnAll bool   `json:"return_all,omitempty" jsonschema:"return every retrieved chunk instead of only the cited ones"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_files",
		Description: "Index local documents so questions can be asked about them. Returns an index id.",
	}, s.handleIndexFiles)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from an index built by index_files, citing the chunks used as page-chunk keys.",
	}, s.handleAsk)
}

func (s *Server) handleIndexFiles(ctx context.Context, _ *mcp.CallToolRequest, input IndexFilesInput) (*mcp.CallToolResult, api.IngestResponse, error) {
	if len(input.Paths) == 0 {
		return nil, api.IngestResponse{}, errors.New("at least one path is required")
	}

	files := make([]jobModel.UploadedFile, 0, len(input.Paths))
	for _, p := range input.Paths {
		files = append(files, jobModel.UploadedFile{Name: filepath.Base(p), Path: p})
	}
	ingest := job.NewIngestJob(utils.GetNewUUID(), traceOf(ctx), utils.GetNewUUID(), files)

	ingest = s.service.IngestFiles(traced(ctx, ingest), ingest)
	if err := jobErr(ingest); err != nil {
		return nil, api.IngestResponse{}, err
	}

	res := adapter.ToIngestResponse(ingest.JobPayload)
	if res == nil {
		res = &api.IngestResponse{IndexId: ingest.JobPayload.IndexId, Files: []api.IndexedFileResponse{}}
	}
	return nil, *res, nil
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, api.QAResponse, error) {
	if strings.TrimSpace(input.IndexId) == "" || strings.TrimSpace(input.Question) == "" {
		return nil, api.QAResponse{}, errors.New("index_id and question are required")
	}

	query := job.NewQueryJob(utils.GetNewUUID(), traceOf(ctx), strings.TrimSpace(input.IndexId),
		strings.TrimSpace(input.Question), input.ReturnAll)

	query = s.service.ProcessRequest(traced(ctx, query), query)
	if err := jobErr(query); err != nil {
		return nil, api.QAResponse{}, err
	}

	res := adapter.ToQAResponse(query.JobPayload)
	if res == nil {
		res = &api.QAResponse{Question: query.JobPayload.Question, Citations: []string{}, Sources: []api.SourceResponse{}}
	}
	return nil, *res, nil
}

// traceOf reuses the caller's trace id or starts a new one per tool call.
func traceOf(ctx context.Context) string {
	if trace, _ := ctx.Value(config.TRACE_ID_KEY).(string); trace != "" {
		return trace
	}
	return utils.GetNewUUID()
}

func traced(ctx context.Context, j jobModel.Job) context.Context {
	return context.WithValue(ctx, config.TRACE_ID_KEY, j.TraceId)
}

func jobErr(j jobModel.Job) error {
	if j.Status != jobModel.JobStatusError {
		return nil
	}
	logger.Warn("tool call failed", "jobId", j.Id, "code", j.Error.Code, "message", j.Error.Message)
	if len(j.JobPayload.FileErrors) > 0 {
		names := make([]string, len(j.JobPayload.FileErrors))
		for i, f := range j.JobPayload.FileErrors {
			names[i] = fmt.Sprintf("%s: %s", f.Name, f.Message)
		}
		return fmt.Errorf("%s (code %d): %s", j.Error.Message, j.Error.Code, strings.Join(names, "; "))
	}
	return fmt.Errorf("%s (code %d)", j.Error.Message, j.Error.Code)
}
