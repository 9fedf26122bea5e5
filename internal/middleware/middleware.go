package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/docqa/internal/handlers"
	"github.com/akolanti/docqa/internal/metrics"
	"github.com/akolanti/docqa/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var logger = logger_i.NewLogger("middleware")

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)

var PostQueryHandler = Wrap(handlers.PostQueryHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var PostIngestHandler = Wrap(handlers.PostIngestHandler)

// Wrap runs trace injection, auth and the per-IP rate limit in front of next.
// A request failing any step gets exactly one error response.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := metrics.NewHttpStatusRecorder(w)
		re := processRequest(requestResponseStruct{req: r, writer: rec, logger: logger})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
		} else {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(routePattern(r), strconv.Itoa(rec.Status)).Inc()
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	steps := []func(requestResponseStruct) requestResponseStruct{injectTrace, authenticate, rateLimiter}
	for _, step := range steps {
		re = step(re)
		if re.badRequest.isBadRequest {
			return re
		}
	}
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	return re
}

// routePattern keeps the metric label bounded, "/status/{id}" and not every job id.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
