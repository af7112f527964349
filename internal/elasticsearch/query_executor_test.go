package elasticsearch

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logintel-backend/internal/model"
)

func TestParseCountResponse(t *testing.T) {
	t.Run("count with both dimensions", func(t *testing.T) {
		raw := `{
			"took": 3,
			"timed_out": false,
			"_shards": {"total": 1, "successful": 1, "skipped": 0, "failed": 0},
			"hits": {"total": {"value": 49, "relation": "eq"}, "hits": []},
			"aggregations": {
				"value_count#total_count": {"value": 49},
				"sterms#by_channel": {
					"doc_count_error_upper_bound": 0,
					"sum_other_doc_count": 0,
					"buckets": [
						{"key": "mobile", "doc_count": 42},
						{"key": "online", "doc_count": 7}
					]
				},
				"sterms#by_outcome": {
					"doc_count_error_upper_bound": 0,
					"sum_other_doc_count": 0,
					"buckets": [{"key": "failure", "doc_count": 49}]
				}
			}
		}`

		var res search.Response
		require.NoError(t, json.Unmarshal([]byte(raw), &res))

		result := parseCountResponse(&res)

		assert.Equal(t, int64(49), result.TotalCount)
		assert.Equal(t, []model.Bucket{{Key: "mobile", Count: 42}, {Key: "online", Count: 7}}, result.ByChannel)
		assert.Equal(t, []model.Bucket{{Key: "failure", Count: 49}}, result.ByOutcome)
	})

	t.Run("falls back to hits total without aggregations", func(t *testing.T) {
		raw := `{
			"took": 1,
			"timed_out": false,
			"_shards": {"total": 1, "successful": 1, "skipped": 0, "failed": 0},
			"hits": {"total": {"value": 12, "relation": "eq"}, "hits": []}
		}`

		var res search.Response
		require.NoError(t, json.Unmarshal([]byte(raw), &res))

		result := parseCountResponse(&res)

		assert.Equal(t, int64(12), result.TotalCount)
		assert.Empty(t, result.ByChannel)
		assert.Empty(t, result.ByOutcome)
	})

	t.Run("empty buckets", func(t *testing.T) {
		raw := `{
			"took": 1,
			"timed_out": false,
			"_shards": {"total": 1, "successful": 1, "skipped": 0, "failed": 0},
			"hits": {"total": {"value": 0, "relation": "eq"}, "hits": []},
			"aggregations": {
				"value_count#total_count": {"value": 0},
				"sterms#by_channel": {"doc_count_error_upper_bound": 0, "sum_other_doc_count": 0, "buckets": []},
				"sterms#by_outcome": {"doc_count_error_upper_bound": 0, "sum_other_doc_count": 0, "buckets": []}
			}
		}`

		var res search.Response
		require.NoError(t, json.Unmarshal([]byte(raw), &res))

		result := parseCountResponse(&res)

		assert.Equal(t, int64(0), result.TotalCount)
		assert.Empty(t, result.ByChannel)
		assert.Empty(t, result.ByOutcome)
	})
}

func TestFlattenProperties(t *testing.T) {
	raw := map[string]json.RawMessage{
		"@timestamp": json.RawMessage(`{"type": "date"}`),
		"event": json.RawMessage(`{
			"properties": {
				"action":  {"type": "keyword"},
				"outcome": {"type": "keyword"}
			}
		}`),
		"app": json.RawMessage(`{
			"properties": {
				"channel": {"type": "keyword"}
			}
		}`),
		"message": json.RawMessage(`{"type": "text"}`),
	}

	out := map[string]string{}
	flattenProperties("", raw, out)

	assert.Equal(t, map[string]string{
		"@timestamp":    "date",
		"event.action":  "keyword",
		"event.outcome": "keyword",
		"app.channel":   "keyword",
		"message":       "text",
	}, out)
}

func TestEventStoreIndexName(t *testing.T) {
	store := &elasticEventStore{indexPrefix: "logs"}
	ts := time.Date(2025, 8, 25, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "logs-auth-2025.08.25", store.indexName("auth", ts))
	assert.Equal(t, "logs-2025.08.25", store.indexName("", ts))

	// Zero timestamps fall back to the current day rather than year one.
	assert.NotContains(t, store.indexName("auth", time.Time{}), "0001")
}
