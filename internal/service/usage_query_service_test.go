package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logintel-backend/internal/dto"
	"logintel-backend/internal/model"
)

type usageRepoSpy struct {
	gotSummary    *dto.UsageSummaryRequest
	gotTimeseries *dto.UsageTimeseriesRequest
}

func (s *usageRepoSpy) RecordUsage(ctx context.Context, events []model.UsageEvent) error {
	return nil
}

func (s *usageRepoSpy) GetSummary(ctx context.Context, req dto.UsageSummaryRequest) (*dto.UsageSummaryResponse, error) {
	s.gotSummary = &req
	return &dto.UsageSummaryResponse{TotalQueries: 10, OKQueries: 8, ErrorQueries: 2}, nil
}

func (s *usageRepoSpy) GetTimeseries(ctx context.Context, req dto.UsageTimeseriesRequest) (*dto.UsageTimeseriesResponse, error) {
	s.gotTimeseries = &req
	return &dto.UsageTimeseriesResponse{}, nil
}

func usageWindow() (time.Time, time.Time) {
	start := time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}

func TestUsageSummaryValidation(t *testing.T) {
	ctx := context.Background()
	start, end := usageWindow()

	t.Run("valid window reaches the repository", func(t *testing.T) {
		repo := &usageRepoSpy{}
		svc := NewUsageQueryService(repo)

		resp, err := svc.GetSummary(ctx, dto.UsageSummaryRequest{StartTime: start, EndTime: end, QueryType: "count"})
		require.NoError(t, err)

		assert.Equal(t, int64(10), resp.TotalQueries)
		require.NotNil(t, repo.gotSummary)
		assert.Equal(t, "count", repo.gotSummary.QueryType)
	})

	t.Run("missing bounds are rejected", func(t *testing.T) {
		svc := NewUsageQueryService(&usageRepoSpy{})

		_, err := svc.GetSummary(ctx, dto.UsageSummaryRequest{EndTime: end})
		assert.Error(t, err)

		_, err = svc.GetSummary(ctx, dto.UsageSummaryRequest{StartTime: start})
		assert.Error(t, err)
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		svc := NewUsageQueryService(&usageRepoSpy{})

		_, err := svc.GetSummary(ctx, dto.UsageSummaryRequest{StartTime: end, EndTime: start})
		assert.Error(t, err)
	})
}

func TestUsageTimeseriesValidation(t *testing.T) {
	ctx := context.Background()
	start, end := usageWindow()

	t.Run("defaults fill interval and grouping", func(t *testing.T) {
		repo := &usageRepoSpy{}
		svc := NewUsageQueryService(repo)

		_, err := svc.GetTimeseries(ctx, dto.UsageTimeseriesRequest{StartTime: start, EndTime: end})
		require.NoError(t, err)

		require.NotNil(t, repo.gotTimeseries)
		assert.Equal(t, "1 hour", repo.gotTimeseries.Interval)
		assert.Equal(t, "total", repo.gotTimeseries.GroupBy)
	})

	t.Run("explicit interval and grouping pass through", func(t *testing.T) {
		repo := &usageRepoSpy{}
		svc := NewUsageQueryService(repo)

		_, err := svc.GetTimeseries(ctx, dto.UsageTimeseriesRequest{
			StartTime: start, EndTime: end,
			Interval: "5 minute", GroupBy: "query_type",
		})
		require.NoError(t, err)

		assert.Equal(t, "5 minute", repo.gotTimeseries.Interval)
		assert.Equal(t, "query_type", repo.gotTimeseries.GroupBy)
	})

	t.Run("unknown interval is rejected", func(t *testing.T) {
		svc := NewUsageQueryService(&usageRepoSpy{})

		_, err := svc.GetTimeseries(ctx, dto.UsageTimeseriesRequest{
			StartTime: start, EndTime: end, Interval: "2 fortnight",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid interval")
	})

	t.Run("unknown grouping is rejected", func(t *testing.T) {
		svc := NewUsageQueryService(&usageRepoSpy{})

		_, err := svc.GetTimeseries(ctx, dto.UsageTimeseriesRequest{
			StartTime: start, EndTime: end, GroupBy: "user_id",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid groupBy")
	})

	t.Run("missing bounds are rejected", func(t *testing.T) {
		svc := NewUsageQueryService(&usageRepoSpy{})

		_, err := svc.GetTimeseries(ctx, dto.UsageTimeseriesRequest{})
		assert.Error(t, err)
	})
}
