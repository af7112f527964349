package kibana

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"logintel-backend/config"
	"logintel-backend/internal/model"
)

func testLinkBuilder() *Builder {
	cfg := &config.Config{}
	cfg.Kibana.BaseURL = "http://localhost:5601"
	cfg.Kibana.DataViewID = "banking-logs"
	return NewBuilder(cfg)
}

func TestTimeBounds(t *testing.T) {
	tests := []struct {
		token string
		from  string
		to    string
	}{
		{"today", "now/d", "now/d+1d"},
		{"yesterday", "now-1d/d", "now/d"},
		{"last_hour", "now-1h", "now"},
		{"last_24h", "now-24h", "now"},
		{"all_time", "now-90d", "now"},
		{"", "now-90d", "now"},
		{"last_week", "now-1h", "now"},
	}

	for _, tt := range tests {
		t.Run("token "+tt.token, func(t *testing.T) {
			from, to := TimeBounds(tt.token)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestKQL(t *testing.T) {
	t.Run("no filters matches everything", func(t *testing.T) {
		assert.Equal(t, "*", KQL(nil))
		assert.Equal(t, "*", KQL([]model.Filter{}))
	})

	t.Run("terms are quoted and conjoined", func(t *testing.T) {
		filters := []model.Filter{
			{Field: "app.channel", Value: "mobile"},
			{Field: "event.outcome", Value: "failure"},
		}
		assert.Equal(t, `app.channel:"mobile" AND event.outcome:"failure"`, KQL(filters))
	})

	t.Run("range bounds render as comparisons", func(t *testing.T) {
		gte, lt := 100.0, 500.0
		filters := []model.Filter{
			{Field: "transaction.amount", Range: &model.RangeBounds{Gte: &gte, Lt: &lt}},
		}
		assert.Equal(t, "transaction.amount >= 100 AND transaction.amount < 500", KQL(filters))
	})

	t.Run("terms and ranges mix", func(t *testing.T) {
		gt := 1000.0
		filters := []model.Filter{
			{Field: "event.outcome", Value: "failure"},
			{Field: "transaction.amount", Range: &model.RangeBounds{Gt: &gt}},
		}
		assert.Equal(t, `event.outcome:"failure" AND transaction.amount > 1000`, KQL(filters))
	})
}

func TestDiscoverLink(t *testing.T) {
	b := testLinkBuilder()

	link := b.DiscoverLink([]model.Filter{{Field: "event.outcome", Value: "failure"}}, "today")

	expected := "http://localhost:5601/app/discover#/?_g=(time:(from:'now/d',to:'now/d+1d'))" +
		"&_a=(index:'banking-logs'," +
		"query:(language:kql,query:'event.outcome:%22failure%22')," +
		"columns:!('@timestamp','event.action','event.outcome','app.channel','source.ip')," +
		"sort:!(!('@timestamp',desc)))"
	assert.Equal(t, expected, link)
}

func TestDiscoverLinkWithoutFilters(t *testing.T) {
	b := testLinkBuilder()

	link := b.DiscoverLink(nil, "")

	assert.Contains(t, link, "query:'%2A'")
	assert.Contains(t, link, "from:'now-90d'")
}

func TestLensLink(t *testing.T) {
	b := testLinkBuilder()

	link := b.LensLink("last_24h")

	assert.Equal(t, "http://localhost:5601/app/lens#/?_g=(time:(from:'now-24h',to:'now'))", link)
}
