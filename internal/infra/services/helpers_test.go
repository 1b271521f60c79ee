package services

import (
	"context"
	"io"

	"farm-advisor/internal/infra/logger"
)

func newTestLogger() *logger.Logger {
	log := logger.NewLogger(context.Background(), "debug", true)
	log.SetOutput(io.Discard)
	return log
}
