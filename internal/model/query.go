package model

import "strings"

// QueryType is the closed set of intents the pipeline understands. Raw
// interpreter output never crosses into the pipeline without passing
// through ParseQueryType first.
type QueryType string

const (
	QueryTypeCount       QueryType = "count"
	QueryTypeGreeting    QueryType = "greeting"
	QueryTypeHelp        QueryType = "help"
	QueryTypeUnsupported QueryType = "unsupported"
)

// ParseQueryType maps a raw intent string onto the closed set. Unknown or
// empty values coerce to QueryTypeUnsupported, never to an error.
func ParseQueryType(raw string) QueryType {
	switch qt := QueryType(strings.ToLower(strings.TrimSpace(raw))); qt {
	case QueryTypeCount, QueryTypeGreeting, QueryTypeHelp, QueryTypeUnsupported:
		return qt
	default:
		return QueryTypeUnsupported
	}
}

// RangeBounds is a numeric range constraint, e.g. {"gte": 100, "lt": 500}
// on transaction.amount. Only the set bounds are emitted.
type RangeBounds struct {
	Gte *float64 `json:"gte,omitempty"`
	Gt  *float64 `json:"gt,omitempty"`
	Lte *float64 `json:"lte,omitempty"`
	Lt  *float64 `json:"lt,omitempty"`
}

// Filter is one field constraint. Exactly one of Value (scalar term) or
// Range is set.
type Filter struct {
	Field string       `json:"field"`
	Value interface{}  `json:"value,omitempty"`
	Range *RangeBounds `json:"range,omitempty"`
}

// StructuredQuery is the normalized interpretation of a user question.
// Filters are sorted by field name so that two identical questions always
// produce byte-identical search documents.
type StructuredQuery struct {
	QueryType   QueryType `json:"query_type"`
	TimeRange   string    `json:"time_range,omitempty"` // canonical token, "" when unconstrained
	Filters     []Filter  `json:"filters"`
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence,omitempty"`
}

// Bucket is one key/count pair from a terms aggregation, kept in the
// order the engine returned it.
type Bucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// QueryResult is the engine-independent summary handed to the formatter.
type QueryResult struct {
	TotalCount int64    `json:"total_count"`
	ByChannel  []Bucket `json:"by_channel,omitempty"`
	ByOutcome  []Bucket `json:"by_outcome,omitempty"`
}
