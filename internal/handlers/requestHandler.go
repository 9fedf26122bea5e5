package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/docqa/internal/adapter"
	"github.com/akolanti/docqa/internal/adapter/utils"
	"github.com/akolanti/docqa/internal/api"
	"github.com/akolanti/docqa/internal/config"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/job"
	"github.com/akolanti/docqa/pkg/logger_i"
)

var logRH = logger_i.NewLogger("RequestHandler")

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// PostQueryHandler godoc
// @Summary      Ask a question about indexed documents
// @Description  Queues a question against a folder index built by /ingest. The answer cites the chunks it is based on.
// @Tags         Question Answering
// @Accept       json
// @Produce      json
// @Param        request  body      api.QueryRequest     true  "Index id and question"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Failure      503      {object}  api.JobResponse      "Job queue unavailable"
// @Router       /query [post]
func PostQueryHandler(w http.ResponseWriter, request *http.Request) {
	if !validateContext(request.Context()) {
		logRH.Warn("Invalid Context by request", "remote", request.RemoteAddr)
		return
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the query handler reader", "err", err)
		}
	}(request.Body)

	var requestData api.QueryRequest
	if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !validateQueryRequest(requestData) {
		logRH.Warn("Bad Query Request", "error", err, "indexId", requestData.IndexId)
		WriteErrorResponse(w, http.StatusBadRequest, requestData.IndexId, "index_id and question are required")
		return
	}

	newJob := job.NewQueryJob(utils.GetNewUUID(), traceId(request), requestData.IndexId,
		strings.TrimSpace(requestData.Question), requestData.ReturnAll)
	if err := CreateNewJob(request.Context(), newJob); err != nil {
		WriteErrorResponse(w, http.StatusServiceUnavailable, newJob.Id, "Could not queue job")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.Id, requestData.IndexId))
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse   "The current status of the job"
// @Failure      404  {object}  api.JobResponse   "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	result, isFound := validateId(idString, traceId(r))
	if !isFound {
		WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}

// PostIngestHandler godoc
// @Summary      Upload documents and build a folder index
// @Description  Receives one or more files under the document field, saves them to a temporary directory and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document  formData  file  true  "PDF, DOCX or TXT file, repeat the field for several files"
// @Success      202  {object}  api.InitJobResponse "Job successfully created"
// @Failure      400  {object}  api.JobResponse "Missing files or upload too large"
// @Failure      500  {object}  api.JobResponse "Storage or write error"
// @Failure      503  {object}  api.JobResponse "Job queue unavailable"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request", "remote", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File["document"]
	if len(headers) == 0 {
		WriteErrorResponse(w, http.StatusBadRequest, "", "at least one document is required")
		return
	}

	files := make([]jobModel.UploadedFile, 0, len(headers))
	for _, header := range headers {
		uploaded, err := saveUpload(targetDir, header)
		if err != nil {
			logRH.Error("Could not store upload", "file", header.Filename, "err", err)
			removeSaved(files)
			WriteErrorResponse(w, http.StatusInternalServerError, header.Filename, "Storage error")
			return
		}
		files = append(files, uploaded)
	}

	indexId := utils.GetNewUUID()
	newJob := job.NewIngestJob(utils.GetNewUUID(), traceId(r), indexId, files)
	if err := CreateNewJob(r.Context(), newJob); err != nil {
		removeSaved(files)
		WriteErrorResponse(w, http.StatusServiceUnavailable, newJob.Id, "Could not queue job")
		return
	}
	writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(newJob.Id, indexId))
}

// saveUpload copies one multipart file into dir under a unique name. The
// original base name is kept for display and format detection.
func saveUpload(dir string, header *multipart.FileHeader) (jobModel.UploadedFile, error) {
	name := filepath.Base(header.Filename)
	reader, err := header.Open()
	if err != nil {
		return jobModel.UploadedFile{}, err
	}
	defer reader.Close()

	path := filepath.Join(dir, fmt.Sprintf("%s-%s", utils.GetNewUUID(), name))
	writer, err := os.Create(path)
	if err != nil {
		return jobModel.UploadedFile{}, err
	}
	defer writer.Close()

	if _, err := io.Copy(writer, reader); err != nil {
		_ = os.Remove(path)
		return jobModel.UploadedFile{}, err
	}
	return jobModel.UploadedFile{Name: name, Path: path, Temporary: true}, nil
}
