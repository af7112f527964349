package dsl

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logintel-backend/config"
	"logintel-backend/internal/model"
	"logintel-backend/internal/timerange"
)

func testBuilder() *Builder {
	cfg := &config.Config{}
	cfg.Query.TimestampField = "@timestamp"
	cfg.Query.MaxResultSize = 200
	return NewBuilder(cfg)
}

func TestBuildCountDocument(t *testing.T) {
	b := testBuilder()

	// "failed mobile logins today", filters already normalized and sorted.
	q := &model.StructuredQuery{
		QueryType: model.QueryTypeCount,
		TimeRange: "today",
		Filters: []model.Filter{
			{Field: "app.channel", Value: "mobile"},
			{Field: "event.action", Value: "user_login"},
			{Field: "event.outcome", Value: "failure"},
		},
		Description: "Count of failed mobile login events today",
	}
	rng := &timerange.Resolved{
		Token: "today",
		From:  time.Date(2025, 8, 22, 0, 0, 0, 0, time.UTC),
		To:    time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC),
	}

	req := b.Build(q, rng)
	require.NotNil(t, req)

	t.Run("zero hits requested", func(t *testing.T) {
		require.NotNil(t, req.Size)
		assert.Equal(t, 0, *req.Size)
	})

	t.Run("one must clause per filter plus the time window", func(t *testing.T) {
		require.NotNil(t, req.Query)
		require.NotNil(t, req.Query.Bool)
		must := req.Query.Bool.Must
		require.Len(t, must, 4)

		assert.Equal(t, "mobile", must[0].Term["app.channel"].Value)
		assert.Equal(t, "user_login", must[1].Term["event.action"].Value)
		assert.Equal(t, "failure", must[2].Term["event.outcome"].Value)

		window, ok := must[3].Range["@timestamp"].(types.DateRangeQuery)
		require.True(t, ok)
		require.NotNil(t, window.Gte)
		require.NotNil(t, window.Lt)
		assert.Equal(t, "2025-08-22T00:00:00Z", *window.Gte)
		assert.Equal(t, "2025-08-23T00:00:00Z", *window.Lt)
		assert.Nil(t, window.Lte)
	})

	t.Run("exactly the three fixed aggregations", func(t *testing.T) {
		require.Len(t, req.Aggregations, 3)

		total := req.Aggregations[AggTotalCount]
		require.NotNil(t, total.ValueCount)
		assert.Equal(t, "@timestamp", *total.ValueCount.Field)

		channel := req.Aggregations[AggByChannel]
		require.NotNil(t, channel.Terms)
		assert.Equal(t, "app.channel", *channel.Terms.Field)

		outcome := req.Aggregations[AggByOutcome]
		require.NotNil(t, outcome.Terms)
		assert.Equal(t, "event.outcome", *outcome.Terms.Field)
	})

	t.Run("identical inputs give byte-identical documents", func(t *testing.T) {
		first, err := json.Marshal(req)
		require.NoError(t, err)
		second, err := json.Marshal(b.Build(q, rng))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

func TestBuildRangeFilter(t *testing.T) {
	b := testBuilder()
	gte, lt := 100.0, 500.0

	q := &model.StructuredQuery{
		QueryType: model.QueryTypeCount,
		Filters: []model.Filter{
			{Field: "transaction.amount", Range: &model.RangeBounds{Gte: &gte, Lt: &lt}},
		},
	}

	req := b.Build(q, nil)
	require.NotNil(t, req)
	must := req.Query.Bool.Must
	require.Len(t, must, 1)

	bounds, ok := must[0].Range["transaction.amount"].(types.NumberRangeQuery)
	require.True(t, ok)
	require.NotNil(t, bounds.Gte)
	require.NotNil(t, bounds.Lt)
	assert.Equal(t, types.Float64(100), *bounds.Gte)
	assert.Equal(t, types.Float64(500), *bounds.Lt)
	assert.Nil(t, bounds.Gt)
	assert.Nil(t, bounds.Lte)
}

func TestBuildWithoutTimeRange(t *testing.T) {
	b := testBuilder()

	q := &model.StructuredQuery{
		QueryType: model.QueryTypeCount,
		Filters:   []model.Filter{{Field: "event.outcome", Value: "failure"}},
	}

	req := b.Build(q, nil)
	require.NotNil(t, req)
	assert.Len(t, req.Query.Bool.Must, 1)
}

func TestBuildNonCountIntents(t *testing.T) {
	b := testBuilder()

	for _, qt := range []model.QueryType{model.QueryTypeGreeting, model.QueryTypeHelp, model.QueryTypeUnsupported} {
		assert.Nil(t, b.Build(&model.StructuredQuery{QueryType: qt}, nil), string(qt))
	}
	assert.Nil(t, b.Build(nil, nil))
}

func TestCapSize(t *testing.T) {
	b := testBuilder()

	assert.Equal(t, 50, b.CapSize(50))
	assert.Equal(t, 0, b.CapSize(0))
	assert.Equal(t, 200, b.CapSize(200))
	assert.Equal(t, 200, b.CapSize(201))
	assert.Equal(t, 200, b.CapSize(-1))
}

func TestEnforceCap(t *testing.T) {
	b := testBuilder()

	t.Run("oversized document is clamped in place", func(t *testing.T) {
		size := 5000
		req := &search.Request{Size: &size}
		b.EnforceCap(req)
		assert.Equal(t, 200, *req.Size)
	})

	t.Run("absent size gets the ceiling", func(t *testing.T) {
		req := &search.Request{}
		b.EnforceCap(req)
		require.NotNil(t, req.Size)
		assert.Equal(t, 200, *req.Size)
	})

	t.Run("compliant size is untouched", func(t *testing.T) {
		size := 10
		req := &search.Request{Size: &size}
		b.EnforceCap(req)
		assert.Equal(t, 10, *req.Size)
	})

	t.Run("nil document is a no-op", func(t *testing.T) {
		b.EnforceCap(nil)
	})
}
