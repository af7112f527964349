package nlu

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"logintel-backend/internal/dto"
	"logintel-backend/internal/model"
)

// Interpreter turns a free-text question into a normalized StructuredQuery.
// Implementations call an external model; its output is untrusted until it
// has passed through Normalize.
type Interpreter interface {
	Interpret(ctx context.Context, question string, history []dto.ConversationTurn) (*model.StructuredQuery, error)
}

// ClassificationError means the interpreter's output could not be
// normalized into a StructuredQuery. The pipeline reports it instead of
// guessing an intent.
type ClassificationError struct {
	Reason string
	Err    error
}

func (e *ClassificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("query classification failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("query classification failed: %s", e.Reason)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}

// rawInterpretation mirrors the JSON contract the model is prompted to
// produce. Every field is untrusted.
type rawInterpretation struct {
	TimeRange   *string                `json:"time_range"`
	QueryType   string                 `json:"query_type"`
	Filters     map[string]interface{} `json:"filters"`
	Description string                 `json:"description"`
	Confidence  float64                `json:"confidence"`
}

// Normalize converts the untrusted interpretation into a StructuredQuery:
// the intent is coerced onto the closed set, filters are canonicalized
// into a sorted list, and a blank description falls back to the question
// itself. Structural garbage comes back as *ClassificationError.
func Normalize(question string, raw *rawInterpretation) (*model.StructuredQuery, error) {
	if raw == nil {
		return nil, &ClassificationError{Reason: "empty interpretation"}
	}

	q := &model.StructuredQuery{
		QueryType:  model.ParseQueryType(raw.QueryType),
		Confidence: raw.Confidence,
	}

	q.TimeRange = normalizeTimeToken(raw.TimeRange)

	filters, err := normalizeFilters(raw.Filters)
	if err != nil {
		return nil, err
	}
	q.Filters = filters

	q.Description = strings.TrimSpace(raw.Description)
	if q.Description == "" {
		q.Description = question
	}

	return q, nil
}

// normalizeTimeToken lowers the token and strips the model's habit of
// emitting the literal string "null".
func normalizeTimeToken(t *string) string {
	if t == nil {
		return ""
	}
	token := strings.ToLower(strings.TrimSpace(*t))
	if token == "null" || token == "none" {
		return ""
	}
	return token
}

// normalizeFilters sorts the filter map by field name so equal questions
// yield byte-identical documents downstream. Values must be scalars or
// range objects; anything else fails classification.
func normalizeFilters(raw map[string]interface{}) ([]model.Filter, error) {
	if len(raw) == 0 {
		return []model.Filter{}, nil
	}

	fields := make([]string, 0, len(raw))
	for field := range raw {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	filters := make([]model.Filter, 0, len(fields))
	for _, field := range fields {
		f, err := normalizeFilterValue(field, raw[field])
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func normalizeFilterValue(field string, value interface{}) (model.Filter, error) {
	switch v := value.(type) {
	case string, bool, float64:
		return model.Filter{Field: field, Value: v}, nil
	case map[string]interface{}:
		bounds, err := normalizeRange(field, v)
		if err != nil {
			return model.Filter{}, err
		}
		return model.Filter{Field: field, Range: bounds}, nil
	default:
		return model.Filter{}, &ClassificationError{
			Reason: fmt.Sprintf("filter %q has unsupported value type %T", field, value),
		}
	}
}

func normalizeRange(field string, v map[string]interface{}) (*model.RangeBounds, error) {
	if len(v) == 0 {
		return nil, &ClassificationError{Reason: fmt.Sprintf("filter %q has an empty range object", field)}
	}

	bounds := &model.RangeBounds{}
	for key, bound := range v {
		num, ok := bound.(float64)
		if !ok {
			return nil, &ClassificationError{
				Reason: fmt.Sprintf("filter %q range bound %q is not numeric", field, key),
			}
		}
		n := num
		switch key {
		case "gte":
			bounds.Gte = &n
		case "gt":
			bounds.Gt = &n
		case "lte":
			bounds.Lte = &n
		case "lt":
			bounds.Lt = &n
		default:
			return nil, &ClassificationError{
				Reason: fmt.Sprintf("filter %q has unknown range key %q", field, key),
			}
		}
	}
	return bounds, nil
}
