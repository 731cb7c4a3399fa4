// Package http serves the operational endpoints of the price list server.
package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/pricelist-backend/internal/metrics"
)

// Deps are the collaborators of the ops router
type Deps struct {
	Log     *logrus.Entry
	Metrics *metrics.Metrics
	// Records reports the current number of records for /healthz
	Records func() int
}

// NewRouter returns the ops router: GET /healthz and GET /metrics
func NewRouter(deps *Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(deps.Log))

	r.Get("/healthz", healthz(deps.Records))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{}))
	return r
}

type healthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

func healthz(records func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		if records != nil {
			resp.Records = records()
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// requestLogger logs each request with its chi request id
func requestLogger(log *logrus.Entry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.WithFields(logrus.Fields{
				"request_id": chimiddleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"duration":   time.Since(start),
			}).Debug("http request")
		})
	}
}
