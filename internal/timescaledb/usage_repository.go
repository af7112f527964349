package timescaledb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"logintel-backend/internal/dto"
	"logintel-backend/internal/model"
	"logintel-backend/internal/repository"
)

type timescaleUsageRepository struct {
	pool       *pgxpool.Pool
	eventTable string
}

func NewUsageRepository(pool *pgxpool.Pool) (repository.UsageRepository, error) {
	if pool == nil {
		log.Warn().Msg("TimescaleDB pool is nil in NewUsageRepository.")
		return nil, errors.New("TimescaleDB connection pool is required for UsageRepository")
	}
	return &timescaleUsageRepository{
		pool:       pool,
		eventTable: usageEventsTableName,
	}, nil
}

// RecordUsage bulk-inserts usage events via the Postgres COPY protocol.
func (r *timescaleUsageRepository) RecordUsage(ctx context.Context, events []model.UsageEvent) error {
	if len(events) == 0 {
		return nil
	}

	columns := []string{colTime, colQueryType, colStatus, colIndexPattern, colDurationMs, colTags}

	source := pgx.CopyFromSlice(len(events), func(i int) ([]interface{}, error) {
		e := events[i]
		tagsJSON, err := json.Marshal(e.Tags)
		if err != nil {
			log.Error().Err(err).Interface("tags", e.Tags).Msg("Failed to marshal usage tags to JSON, inserting null")
			tagsJSON = nil
		}
		return []interface{}{e.Time, e.QueryType, e.Status, e.IndexPattern, e.DurationMs, tagsJSON}, nil
	})

	copyCount, err := r.pool.CopyFrom(ctx, pgx.Identifier{r.eventTable}, columns, source)
	if err != nil {
		log.Error().Err(err).Msg("Failed to bulk insert usage events into TimescaleDB")
		return fmt.Errorf("timescaledb copyfrom failed: %w", err)
	}

	if int(copyCount) != len(events) {
		log.Warn().Int64("inserted", copyCount).Int("expected", len(events)).Msg("TimescaleDB CopyFrom event count mismatch")
	} else {
		log.Debug().Int64("count", copyCount).Msg("Successfully inserted usage events into TimescaleDB")
	}
	return nil
}

func (r *timescaleUsageRepository) GetSummary(ctx context.Context, req dto.UsageSummaryRequest) (*dto.UsageSummaryResponse, error) {
	whereClauses := []string{"time >= $1", "time < $2"}
	args := []interface{}{req.StartTime, req.EndTime}
	argCounter := 3

	if req.QueryType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("query_type = $%d", argCounter))
		args = append(args, req.QueryType)
		argCounter++
	}
	whereSQL := strings.Join(whereClauses, " AND ")

	summarySQL := fmt.Sprintf(`
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status = 'ok'),
            COUNT(*) FILTER (WHERE status = 'error')
        FROM %s WHERE %s`, r.eventTable, whereSQL)

	resp := &dto.UsageSummaryResponse{}
	err := r.pool.QueryRow(ctx, summarySQL, args...).Scan(&resp.TotalQueries, &resp.OKQueries, &resp.ErrorQueries)
	if err != nil {
		log.Error().Err(err).Str("query", summarySQL).Msg("Failed to get usage summary")
		return nil, fmt.Errorf("failed to get usage summary: %w", err)
	}

	return resp, nil
}

func (r *timescaleUsageRepository) GetTimeseries(ctx context.Context, req dto.UsageTimeseriesRequest) (*dto.UsageTimeseriesResponse, error) {
	allowedGroupBy := map[string]string{
		"query_type":    "query_type",
		"status":        "status",
		"index_pattern": "index_pattern",
	}
	groupBySQL, ok := allowedGroupBy[req.GroupBy]
	isGroupByTotal := false
	if !ok {
		groupBySQL = "'total'"
		isGroupByTotal = true
	}

	validIntervals := map[string]bool{"1 minute": true, "5 minute": true, "10 minute": true, "30 minute": true, "1 hour": true, "1 day": true}
	if !validIntervals[req.Interval] {
		return nil, fmt.Errorf("invalid interval: %s", req.Interval)
	}

	var queryBuilder strings.Builder
	args := []interface{}{}
	argCounter := 1

	queryBuilder.WriteString(fmt.Sprintf("SELECT time_bucket($%d::interval, time) AS bucket, ", argCounter))
	args = append(args, req.Interval)
	argCounter++

	queryBuilder.WriteString(fmt.Sprintf("%s AS group_key, ", groupBySQL))
	queryBuilder.WriteString(fmt.Sprintf("COUNT(*) AS value FROM %s WHERE time >= $%d AND time < $%d ", r.eventTable, argCounter, argCounter+1))
	args = append(args, req.StartTime, req.EndTime)
	argCounter += 2

	if req.QueryType != "" {
		queryBuilder.WriteString(fmt.Sprintf("AND query_type = $%d ", argCounter))
		args = append(args, req.QueryType)
		argCounter++
	}

	queryBuilder.WriteString("GROUP BY bucket")
	if !isGroupByTotal {
		queryBuilder.WriteString(", group_key")
	}
	queryBuilder.WriteString(" ORDER BY bucket ASC")

	querySQL := queryBuilder.String()

	log.Debug().Str("query", querySQL).Interface("args", args).Msg("Executing TimescaleDB usage timeseries query")

	rows, err := r.pool.Query(ctx, querySQL, args...)
	if err != nil {
		log.Error().Err(err).Str("query", querySQL).Interface("args", args).Msg("Failed to execute usage timeseries query")
		return nil, fmt.Errorf("usage timeseries query failed: %w", err)
	}
	defer rows.Close()

	seriesMap := make(map[string][]dto.TimeseriesDataPoint)

	for rows.Next() {
		var bucket time.Time
		var groupKey *string
		var value int64

		if err := rows.Scan(&bucket, &groupKey, &value); err != nil {
			log.Error().Err(err).Msg("Failed to scan usage timeseries row")
			continue
		}

		key := "total"
		if !isGroupByTotal {
			if groupKey != nil {
				key = *groupKey
			} else {
				key = fmt.Sprintf("%s_NULL", req.GroupBy)
			}
		}

		seriesMap[key] = append(seriesMap[key], dto.TimeseriesDataPoint{
			Timestamp: bucket.UnixMilli(),
			Value:     value,
		})
	}

	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Error iterating usage timeseries rows")
		return nil, fmt.Errorf("failed iterating query results: %w", err)
	}

	response := &dto.UsageTimeseriesResponse{
		Series: make([]dto.TimeseriesSeries, 0, len(seriesMap)),
	}
	for name, data := range seriesMap {
		response.Series = append(response.Series, dto.TimeseriesSeries{
			Name: name,
			Data: data,
		})
	}
	// Map iteration order is random; keep the payload stable.
	sort.Slice(response.Series, func(i, j int) bool { return response.Series[i].Name < response.Series[j].Name })

	return response, nil
}
