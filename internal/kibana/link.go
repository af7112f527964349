package kibana

import (
	"fmt"
	"net/url"
	"strings"

	"logintel-backend/config"
	"logintel-backend/internal/model"
	"logintel-backend/internal/timerange"
)

// Columns shown in Discover links, the fields an analyst checks first.
var discoverColumns = []string{"@timestamp", "event.action", "event.outcome", "app.channel", "source.ip"}

// Builder assembles Kibana deep links. This is pure string assembly over
// the rison-style state Kibana reads from the URL fragment; the result
// is never validated or fetched.
type Builder struct {
	baseURL    string
	dataViewID string
}

func NewBuilder(cfg *config.Config) *Builder {
	return &Builder{
		baseURL:    cfg.Kibana.BaseURL,
		dataViewID: cfg.Kibana.DataViewID,
	}
}

// TimeBounds maps a canonical token to Kibana relative time expressions.
// Absent and all_time windows show the last 90 days, the retention
// window for banking logs. Unknown tokens get the same last-hour bias
// the resolver applies.
func TimeBounds(token string) (from, to string) {
	switch token {
	case timerange.TokenToday:
		return "now/d", "now/d+1d"
	case timerange.TokenYesterday:
		return "now-1d/d", "now/d"
	case timerange.TokenLast24h:
		return "now-24h", "now"
	case "", timerange.TokenAllTime:
		return "now-90d", "now"
	default:
		return "now-1h", "now"
	}
}

// KQL renders the filter list as a Kibana query expression: quoted term
// matches and unquoted range comparisons joined with AND, or "*" when
// there is nothing to filter on.
func KQL(filters []model.Filter) string {
	if len(filters) == 0 {
		return "*"
	}

	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if f.Range != nil {
			if f.Range.Gte != nil {
				parts = append(parts, fmt.Sprintf("%s >= %v", f.Field, *f.Range.Gte))
			}
			if f.Range.Gt != nil {
				parts = append(parts, fmt.Sprintf("%s > %v", f.Field, *f.Range.Gt))
			}
			if f.Range.Lte != nil {
				parts = append(parts, fmt.Sprintf("%s <= %v", f.Field, *f.Range.Lte))
			}
			if f.Range.Lt != nil {
				parts = append(parts, fmt.Sprintf("%s < %v", f.Field, *f.Range.Lt))
			}
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%q", f.Field, fmt.Sprintf("%v", f.Value)))
	}
	return strings.Join(parts, " AND ")
}

// DiscoverLink builds the Discover view link with the query, time range,
// default columns and newest-first sort applied.
func (b *Builder) DiscoverLink(filters []model.Filter, timeToken string) string {
	from, to := TimeBounds(timeToken)
	kql := url.PathEscape(KQL(filters))

	g := fmt.Sprintf("(time:(from:'%s',to:'%s'))", from, to)
	a := fmt.Sprintf(
		"(index:'%s',query:(language:kql,query:'%s'),columns:!('%s'),sort:!(!('@timestamp',desc)))",
		b.dataViewID,
		kql,
		strings.Join(discoverColumns, "','"),
	)
	return fmt.Sprintf("%s/app/discover#/?_g=%s&_a=%s", b.baseURL, g, a)
}

// LensLink builds the Lens view link with only the time range applied.
func (b *Builder) LensLink(timeToken string) string {
	from, to := TimeBounds(timeToken)
	return fmt.Sprintf("%s/app/lens#/?_g=(time:(from:'%s',to:'%s'))", b.baseURL, from, to)
}
