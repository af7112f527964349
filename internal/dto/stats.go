package dto

import "time"

type UsageSummaryRequest struct {
	StartTime time.Time
	EndTime   time.Time
	QueryType string // optional filter, e.g. "count"
}

type UsageSummaryResponse struct {
	TotalQueries int64 `json:"totalQueries"`
	OKQueries    int64 `json:"okQueries"`
	ErrorQueries int64 `json:"errorQueries"`
}

type UsageTimeseriesRequest struct {
	StartTime time.Time
	EndTime   time.Time
	Interval  string // bucket width, e.g. "5 minute", "1 hour"
	GroupBy   string // "query_type", "status" or "index_pattern"
	QueryType string // optional filter
}

// TimeseriesDataPoint
type TimeseriesDataPoint struct {
	Timestamp int64 `json:"timestamp"` // Epoch Milliseconds
	Value     int64 `json:"value"`
}

// TimeseriesSeries
type TimeseriesSeries struct {
	Name string                `json:"name"` // series key, e.g. "count" or "ok"
	Data []TimeseriesDataPoint `json:"data"`
}

type UsageTimeseriesResponse struct {
	Series []TimeseriesSeries `json:"series"`
}
