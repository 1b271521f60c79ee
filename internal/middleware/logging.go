package middleware

import (
	"fmt"
	"net/http"
	"time"

	"farm-advisor/internal/infra/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const RequestIDHeader = "X-Request-ID"

func LoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			wrappedWriter := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()
			reqLog := log.WithFields(logrus.Fields{"request_id": requestID})

			reqLog.Info(fmt.Sprintf("Request: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr))

			next.ServeHTTP(wrappedWriter, r)

			reqLog.Info(fmt.Sprintf("Response: %s %s %d", r.Method, r.URL.Path, wrappedWriter.statusCode), logrus.Fields{
				"status":      wrappedWriter.statusCode,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
