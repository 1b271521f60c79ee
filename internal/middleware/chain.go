package middleware

import (
	"farm-advisor/internal/infra/logger"

	"github.com/gorilla/mux"
)

// RequestMiddlewares returns the per-request stack in router.Use order.
// Logging is outermost so a recovered panic is still logged with its 500.
func RequestMiddlewares(log *logger.Logger) []mux.MiddlewareFunc {
	return []mux.MiddlewareFunc{
		LoggingMiddleware(log),
		RecoveryMiddleware(log),
	}
}
