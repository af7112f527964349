package service

import (
	"context"
	"errors"
	"fmt"

	"logintel-backend/internal/dto"
	"logintel-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

type UsageQueryService interface {
	GetSummary(ctx context.Context, req dto.UsageSummaryRequest) (*dto.UsageSummaryResponse, error)
	GetTimeseries(ctx context.Context, req dto.UsageTimeseriesRequest) (*dto.UsageTimeseriesResponse, error)
}

type usageQueryService struct {
	usageRepo repository.UsageRepository
}

func NewUsageQueryService(usageRepo repository.UsageRepository) UsageQueryService {
	return &usageQueryService{
		usageRepo: usageRepo,
	}
}

func (s *usageQueryService) GetSummary(ctx context.Context, req dto.UsageSummaryRequest) (*dto.UsageSummaryResponse, error) {
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, errors.New("startTime and endTime are required")
	}
	if req.EndTime.Before(req.StartTime) {
		return nil, errors.New("endTime cannot be before startTime")
	}
	log.Info().Time("start", req.StartTime).Time("end", req.EndTime).Str("query_type", req.QueryType).Msg("Getting usage summary")
	return s.usageRepo.GetSummary(ctx, req)
}

func (s *usageQueryService) GetTimeseries(ctx context.Context, req dto.UsageTimeseriesRequest) (*dto.UsageTimeseriesResponse, error) {
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, errors.New("startTime and endTime are required")
	}
	if req.EndTime.Before(req.StartTime) {
		return nil, errors.New("endTime cannot be before startTime")
	}

	if req.Interval == "" {
		req.Interval = "1 hour"
	}
	allowedIntervals := map[string]bool{
		"1 minute": true, "5 minute": true, "10 minute": true,
		"30 minute": true, "1 hour": true, "1 day": true,
	}
	if !allowedIntervals[req.Interval] {
		return nil, fmt.Errorf("invalid interval: %s", req.Interval)
	}

	if req.GroupBy == "" {
		req.GroupBy = "total"
	}
	allowedGroupBy := map[string]bool{
		"query_type": true, "status": true, "index_pattern": true, "total": true,
	}
	if !allowedGroupBy[req.GroupBy] {
		return nil, fmt.Errorf("invalid groupBy: %s", req.GroupBy)
	}

	log.Info().
		Time("start", req.StartTime).
		Time("end", req.EndTime).
		Str("interval", req.Interval).
		Str("group_by", req.GroupBy).
		Str("query_type", req.QueryType).
		Msg("Getting usage timeseries")

	return s.usageRepo.GetTimeseries(ctx, req)
}
