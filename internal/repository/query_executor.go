package repository

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"

	"logintel-backend/internal/model"
)

// QueryExecutor runs a built count request against a validated index pattern.
// Execution is single-shot; failures are not retried.
type QueryExecutor interface {
	ExecuteCount(ctx context.Context, indexPattern string, req *search.Request) (*model.QueryResult, error)
}

// SearchExecutionError wraps a search transport or cluster failure. The cause
// is kept for logs; callers show the user a generic message.
type SearchExecutionError struct {
	IndexPattern string
	Err          error
}

func (e *SearchExecutionError) Error() string {
	return fmt.Sprintf("search against %q failed: %v", e.IndexPattern, e.Err)
}

func (e *SearchExecutionError) Unwrap() error {
	return e.Err
}
