package dsl

import (
	"time"

	"logintel-backend/config"
	"logintel-backend/internal/model"
	"logintel-backend/internal/timerange"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// Aggregation names every count document carries, in this order of
// meaning: the exact total plus the two fixed breakdowns.
const (
	AggTotalCount = "total_count"
	AggByChannel  = "by_channel"
	AggByOutcome  = "by_outcome"
)

const (
	channelField = "app.channel"
	outcomeField = "event.outcome"
)

// Builder assembles bounded search documents from normalized queries.
// It performs no I/O and reads no clocks; identical inputs produce
// byte-identical documents.
type Builder struct {
	timestampField string
	maxResultSize  int
}

func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		timestampField: cfg.Query.TimestampField,
		maxResultSize:  cfg.Query.MaxResultSize,
	}
}

// Build produces the search document for a count query: one term clause
// per scalar filter, one range clause per range filter, the time window
// on the timestamp field, zero hits, and the three fixed aggregations.
// Non-countable intents have no document at all and return nil.
func (b *Builder) Build(q *model.StructuredQuery, rng *timerange.Resolved) *search.Request {
	if q == nil || q.QueryType != model.QueryTypeCount {
		return nil
	}

	must := make([]types.Query, 0, len(q.Filters)+1)
	for _, f := range q.Filters {
		must = append(must, filterClause(f))
	}
	if rng != nil {
		gte := rng.From.Format(time.RFC3339)
		lt := rng.To.Format(time.RFC3339)
		must = append(must, types.Query{
			Range: map[string]types.RangeQuery{
				b.timestampField: types.DateRangeQuery{
					Gte: &gte,
					Lt:  &lt,
				},
			},
		})
	}

	size := 0
	tsField := b.timestampField
	channel := channelField
	outcome := outcomeField

	return &search.Request{
		Size: &size,
		Query: &types.Query{
			Bool: &types.BoolQuery{
				Must: must,
			},
		},
		Aggregations: map[string]types.Aggregations{
			AggTotalCount: {
				ValueCount: &types.ValueCountAggregation{Field: &tsField},
			},
			AggByChannel: {
				Terms: &types.TermsAggregation{Field: &channel},
			},
			AggByOutcome: {
				Terms: &types.TermsAggregation{Field: &outcome},
			},
		},
	}
}

func filterClause(f model.Filter) types.Query {
	if f.Range != nil {
		nr := types.NumberRangeQuery{}
		if f.Range.Gte != nil {
			v := types.Float64(*f.Range.Gte)
			nr.Gte = &v
		}
		if f.Range.Gt != nil {
			v := types.Float64(*f.Range.Gt)
			nr.Gt = &v
		}
		if f.Range.Lte != nil {
			v := types.Float64(*f.Range.Lte)
			nr.Lte = &v
		}
		if f.Range.Lt != nil {
			v := types.Float64(*f.Range.Lt)
			nr.Lt = &v
		}
		return types.Query{
			Range: map[string]types.RangeQuery{f.Field: nr},
		}
	}
	return types.Query{
		Term: map[string]types.TermQuery{f.Field: {Value: f.Value}},
	}
}

// CapSize clamps a requested result size to the configured ceiling.
// Negative and absent (-1) requests fall back to the ceiling itself.
func (b *Builder) CapSize(requested int) int {
	if requested < 0 || requested > b.maxResultSize {
		return b.maxResultSize
	}
	return requested
}

// EnforceCap rewrites an oversized document in place. The executor runs
// every document through this, whatever its origin, so the ceiling holds
// even for documents that did not come from Build.
func (b *Builder) EnforceCap(req *search.Request) {
	if req == nil {
		return
	}
	if req.Size == nil {
		size := b.maxResultSize
		req.Size = &size
		return
	}
	*req.Size = b.CapSize(*req.Size)
}
