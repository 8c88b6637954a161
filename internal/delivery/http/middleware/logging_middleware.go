package middleware

import (
	"net/http"
	"strconv"
	"time"

	"hospital-appointment/internal/infrastructure/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// AccessLogMiddleware logs every request and records it in the HTTP metrics.
type AccessLogMiddleware struct {
	log     *logrus.Logger
	metrics *metrics.BookingMetrics
}

func NewAccessLogMiddleware(log *logrus.Logger, bookingMetrics *metrics.BookingMetrics) *AccessLogMiddleware {
	return &AccessLogMiddleware{log: log, metrics: bookingMetrics}
}

func (m *AccessLogMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		// route template keeps metric cardinality bounded
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.metrics.ObserveHTTP(r.Method, route, strconv.Itoa(rec.status), elapsed.Seconds())

		m.log.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": elapsed.Milliseconds(),
		}).Info("HTTP request")
	})
}
