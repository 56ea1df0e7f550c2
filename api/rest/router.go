package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/igodwin/campaign-mailer/internal/domain"
	"github.com/igodwin/campaign-mailer/internal/logging"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(service domain.PublishService, logger *logging.Logger) *mux.Router {
	if logger == nil {
		logger = logging.Discard()
	}

	handler := NewHandler(service)
	router := mux.NewRouter()

	// API v1 routes
	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/campaigns/{key}/reports", handler.PublishReport).Methods(http.MethodPost)
	v1.HandleFunc("/stats", handler.GetStats).Methods(http.MethodGet)
	v1.HandleFunc("/publishers", handler.ListPublishers).Methods(http.MethodGet)

	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	router.Use(loggingMiddleware(logger.Named("http")))
	router.Use(corsMiddleware)

	return router
}

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs every request with its status and latency
func loggingMiddleware(logger *logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			logger.Debugf("%s %s %d %s", r.Method, r.URL.Path, recorder.status, time.Since(start))
		})
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
