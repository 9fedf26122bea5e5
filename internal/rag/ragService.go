package rag

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/domain/commonModels"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/metrics"
	"github.com/akolanti/docqa/internal/rag/chunking"
	"github.com/akolanti/docqa/internal/rag/index"
	"github.com/akolanti/docqa/internal/rag/ingest"
	"github.com/akolanti/docqa/internal/rag/llm"
	"github.com/akolanti/docqa/internal/rag/qa"
	"github.com/akolanti/docqa/internal/rag/strategies"
	"github.com/akolanti/docqa/pkg/logger_i"
)

/*
Service is the only thing a worker sees. The private service struct holds the
pipeline config, the strategy registries and the index store, so workers stay
decoupled from which embedder, vector store or LLM is configured, and tests can
register stubs in the registries instead.
*/
type Service interface {
	IngestFiles(ctx context.Context, job jobModel.Job) jobModel.Job
	ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job
}

// IndexStore keeps built folder indexes between the ingest and query jobs.
type IndexStore interface {
	SaveIndex(ctx context.Context, id string, folder *index.FolderIndex) error
	GetIndex(ctx context.Context, id string) (*index.FolderIndex, bool)
}

type service struct {
	cfg        config.Pipeline
	strategies *strategies.Strategies
	indexes    IndexStore
	logger     *logger_i.Logger
}

func NewService(cfg config.Pipeline, s *strategies.Strategies, indexes IndexStore) Service {
	return &service{
		cfg:        cfg,
		strategies: s,
		indexes:    indexes,
		logger:     logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) IngestFiles(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.WithTrace(ctx).With("JobId", job.Id, "indexId", job.JobPayload.IndexId)
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	ingestCtx, cancel := context.WithTimeout(ctx, config.JobTimeout)
	defer cancel()
	defer removeUploads(job.JobPayload.Files, log)

	job = logOutput(job, jobModel.IngestProcessing, log)
	files, err := s.executeReadStep(ingestCtx, log, &job)
	if err != nil {
		return s.jobError(job, err, "INGESTION_FAILURE", log)
	}

	job = logOutput(job, jobModel.ChunkingStep, log)
	chunked := s.executeChunkStep(files, &job)

	job = logOutput(job, jobModel.EmbeddingAPICall, log)
	folder, err := s.executeIndexStep(ingestCtx, chunked)
	if err != nil {
		return s.jobError(job, err, "INDEXING_FAILURE", log)
	}

	job = logOutput(job, jobModel.IndexStoreCall, log)
	if err := s.indexes.SaveIndex(ctx, job.JobPayload.IndexId, folder); err != nil {
		return s.jobError(job, err, "INDEX_STORE_FAILURE", log)
	}

	job.CurrentStep = jobModel.Complete
	metrics.CaptureIngestMetrics(len(chunked), len(job.JobPayload.FileErrors))
	log.Info("ingest complete", "files", len(chunked), "skipped", len(job.JobPayload.FileErrors))
	return job
}

func (s *service) ProcessRequest(ctx context.Context, job jobModel.Job) jobModel.Job {
	log := s.logger.WithTrace(ctx).With("JobId", job.Id, "indexId", job.JobPayload.IndexId)

	processContext, cancel := context.WithTimeout(ctx, config.QueryTimeout)
	defer cancel()

	job = logOutput(job, jobModel.IndexLookup, log)
	folder, found := s.indexes.GetIndex(processContext, job.JobPayload.IndexId)
	if !found {
		return s.jobError(job, commonModels.ErrIndexNotFound, "INDEX_NOT_FOUND", log)
	}

	job = logOutput(job, jobModel.LLMCall, log)
	provider, err := s.strategies.LLM(processContext, s.cfg.LLM)
	if err != nil {
		return s.jobError(job, err, "LLM_INIT_FAILURE", log)
	}

	job = logOutput(job, jobModel.RAGCall, log)
	answer, err := s.executeQAStep(processContext, &job, folder, provider)
	if err != nil {
		return s.jobError(job, err, "LLM_GENERATION_FAILURE", log)
	}
	if answer.CannotAnswer() {
		log.Info("model could not answer from the documents")
	}
	if !job.JobPayload.ReturnAll {
		metrics.CaptureCitationMetrics(len(answer.Citations), resolvedKeys(answer))
	}

	return returnOutput(job, answer)
}

// executeReadStep reads every upload. Files of an unsupported format or
// without text are skipped when the pipeline allows it.
func (s *service) executeReadStep(ctx context.Context, log *logger_i.Logger, job *jobModel.Job) ([]*commonModels.File, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_read", time.Since(start)) }()

	files := make([]*commonModels.File, 0, len(job.JobPayload.Files))
	for _, upload := range job.JobPayload.Files {
		file, err := ingest.ReadPath(ctx, upload.Path, upload.Name)
		if err != nil {
			if !s.cfg.SkipFailedFiles || !isFileError(err) {
				return nil, err
			}
			log.Warn("skipping file", "file", upload.Name, "error", err)
			job.JobPayload.FileErrors = append(job.JobPayload.FileErrors, jobModel.FileError{
				Name:    upload.Name,
				Code:    classifyError(err).Code,
				Message: err.Error(),
			})
			continue
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return nil, &commonModels.UnreadableContentError{Name: fmt.Sprintf("%d uploaded files", len(job.JobPayload.Files))}
	}
	return files, nil
}

func (s *service) executeChunkStep(files []*commonModels.File, job *jobModel.Job) []*commonModels.File {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("chunking", time.Since(start)) }()

	chunked := make([]*commonModels.File, len(files))
	for i, f := range files {
		chunked[i] = chunking.ChunkFile(f, s.cfg.ChunkSize, s.cfg.ChunkOverlap)
		job.JobPayload.Indexed = append(job.JobPayload.Indexed, jobModel.IndexedFile{
			Name:   f.Name,
			Id:     f.Id,
			Kind:   string(f.Kind),
			Pages:  len(f.Docs),
			Chunks: len(chunked[i].Docs),
		})
	}
	return chunked
}

func (s *service) executeIndexStep(ctx context.Context, files []*commonModels.File) (*index.FolderIndex, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.strategies.Index.EmbedFiles(ctx, files, s.cfg.Embedding, s.cfg.VectorStore)
}

func (s *service) executeQAStep(ctx context.Context, job *jobModel.Job, folder *index.FolderIndex, provider llm.Provider) (*qa.AnswerWithSources, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("question_answering", time.Since(start)) }()

	return qa.GetAnswer(ctx, job.JobPayload.Question, folder, provider, qa.Options{
		K:               s.cfg.K,
		ReturnAll:       job.JobPayload.ReturnAll,
		MaxPromptLength: s.cfg.MaxPromptLength,
	})
}

func removeUploads(files []jobModel.UploadedFile, log *logger_i.Logger) {
	for _, f := range files {
		if !f.Temporary {
			continue
		}
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			log.Warn("could not remove upload", "path", f.Path, "error", err)
		}
	}
}

// resolvedKeys counts the claimed keys that matched at least one chunk.
func resolvedKeys(answer *qa.AnswerWithSources) int {
	found := make(map[string]bool, len(answer.Sources))
	for _, d := range answer.Sources {
		found[d.Source()] = true
	}
	n := 0
	for _, key := range answer.Citations {
		if found[key] {
			n++
		}
	}
	return n
}
