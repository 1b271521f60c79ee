package Iservices

import (
	"context"
	"farm-advisor/internal/domain/dto"
)

type IAdvisoryService interface {
	Advise(ctx context.Context, req dto.AdvisoryRequest) (string, error)
	AskWithFallback(ctx context.Context, req dto.AdvisoryRequest) string
}
