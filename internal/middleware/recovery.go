package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"farm-advisor/internal/infra/logger"
)

// RecoveryMiddleware turns a panicking handler into a 500 JSON error.
func RecoveryMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error(fmt.Sprintf("Recovered from panic: %v", rec))
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprint(rec)})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
