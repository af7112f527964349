package elasticsearch

import (
	"context"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/rs/zerolog/log"

	"logintel-backend/config"
	"logintel-backend/internal/dsl"
	"logintel-backend/internal/model"
	"logintel-backend/internal/repository"
)

type elasticsearchQueryExecutor struct {
	esTypedClient *elasticsearch.TypedClient
	builder       *dsl.Builder
}

func NewQueryExecutor(cfg *config.Config, builder *dsl.Builder) (repository.QueryExecutor, error) {
	typedClient, err := NewTypedClient(cfg)
	if err != nil {
		return nil, err
	}

	return &elasticsearchQueryExecutor{
		esTypedClient: typedClient,
		builder:       builder,
	}, nil
}

func (r *elasticsearchQueryExecutor) ExecuteCount(ctx context.Context, indexPattern string, searchRequest *search.Request) (*model.QueryResult, error) {
	// Re-clamp at the boundary in case the request was built elsewhere.
	r.builder.EnforceCap(searchRequest)

	res, err := r.esTypedClient.Search().
		Index(indexPattern).
		Request(searchRequest).
		Do(ctx)
	if err != nil {
		log.Error().Err(err).Str("index_pattern", indexPattern).Msg("Error executing Elasticsearch search via TypedClient")
		return nil, &repository.SearchExecutionError{IndexPattern: indexPattern, Err: err}
	}

	result := parseCountResponse(res)

	log.Debug().
		Int64("total_count", result.TotalCount).
		Int("channel_buckets", len(result.ByChannel)).
		Int("outcome_buckets", len(result.ByOutcome)).
		Msg("Elasticsearch count query successful")
	return result, nil
}

func parseCountResponse(res *search.Response) *model.QueryResult {
	result := &model.QueryResult{TotalCount: res.Hits.Total.Value}

	if res.Aggregations == nil {
		return result
	}
	if agg, ok := res.Aggregations[dsl.AggTotalCount]; ok {
		result.TotalCount = extractValueCount(agg)
	}
	if agg, ok := res.Aggregations[dsl.AggByChannel]; ok {
		result.ByChannel = extractTermsBuckets(agg)
	}
	if agg, ok := res.Aggregations[dsl.AggByOutcome]; ok {
		result.ByOutcome = extractTermsBuckets(agg)
	}
	return result
}

// termsAggPayload is the wire shape of a terms aggregation result.
type termsAggPayload struct {
	Buckets []struct {
		Key      string `json:"key"`
		DocCount int64  `json:"doc_count"`
	} `json:"buckets"`
}

// valueAggPayload is the wire shape of a single-value metric aggregation.
type valueAggPayload struct {
	Value float64 `json:"value"`
}

// extractTermsBuckets passes a decoded aggregate back through its JSON form
// so the executor does not depend on the concrete aggregate struct layout.
// Bucket order from the response is preserved.
func extractTermsBuckets(agg types.Aggregate) []model.Bucket {
	data, err := json.Marshal(agg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to re-encode terms aggregation")
		return nil
	}
	var payload termsAggPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Error().Err(err).Msg("Failed to decode terms aggregation payload")
		return nil
	}
	buckets := make([]model.Bucket, 0, len(payload.Buckets))
	for _, b := range payload.Buckets {
		buckets = append(buckets, model.Bucket{Key: b.Key, Count: b.DocCount})
	}
	return buckets
}

func extractValueCount(agg types.Aggregate) int64 {
	data, err := json.Marshal(agg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to re-encode value_count aggregation")
		return 0
	}
	var payload valueAggPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Error().Err(err).Msg("Failed to decode value_count aggregation payload")
		return 0
	}
	return int64(payload.Value)
}
