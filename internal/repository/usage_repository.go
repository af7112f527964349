package repository

import (
	"context"

	"logintel-backend/internal/dto"
	"logintel-backend/internal/model"
)

type UsageRepository interface {
	RecordUsage(ctx context.Context, events []model.UsageEvent) error
	GetSummary(ctx context.Context, req dto.UsageSummaryRequest) (*dto.UsageSummaryResponse, error)
	GetTimeseries(ctx context.Context, req dto.UsageTimeseriesRequest) (*dto.UsageTimeseriesResponse, error)
}
