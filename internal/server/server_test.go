package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/docqa/internal/adapter/utils"
	"github.com/akolanti/docqa/internal/data/store"
	"github.com/akolanti/docqa/internal/domain/jobModel"
	"github.com/akolanti/docqa/internal/handlers"
	"github.com/akolanti/docqa/internal/job"
)

func TestRegisterRoutes(t *testing.T) {
	handlers.InitJobHandler(job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 1),
		DispatcherChannel: make(chan bool, 1),
		JobStore:          store.InitInMemoryJobStore(),
	}))
	r := utils.NewRouter()
	RegisterRoutes(r)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/status/unknown", "", http.StatusNotFound},
		{http.MethodPost, "/query", `{}`, http.StatusBadRequest},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/chat", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
		req.RemoteAddr = "192.0.2.10:1234"
		r.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}
