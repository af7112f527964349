package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logintel-backend/config"
	"logintel-backend/internal/dsl"
	"logintel-backend/internal/dto"
	"logintel-backend/internal/kibana"
	"logintel-backend/internal/model"
	"logintel-backend/internal/nlu"
	"logintel-backend/internal/schema"
	"logintel-backend/internal/store"
	"logintel-backend/internal/timerange"
)

type stubInterpreter struct {
	q          *model.StructuredQuery
	err        error
	calls      int
	gotHistory []dto.ConversationTurn
}

func (s *stubInterpreter) Interpret(ctx context.Context, question string, history []dto.ConversationTurn) (*model.StructuredQuery, error) {
	s.calls++
	s.gotHistory = history
	return s.q, s.err
}

type stubExecutor struct {
	result   *model.QueryResult
	err      error
	calls    int
	gotIndex string
	gotReq   *search.Request
}

func (s *stubExecutor) ExecuteCount(ctx context.Context, indexPattern string, req *search.Request) (*model.QueryResult, error) {
	s.calls++
	s.gotIndex = indexPattern
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubAuditRepo struct {
	records  []*model.TranslationRecord
	recent   []model.TranslationRecord
	gotLimit int
}

func (s *stubAuditRepo) Save(ctx context.Context, record *model.TranslationRecord) error {
	s.records = append(s.records, record)
	return nil
}

func (s *stubAuditRepo) ListRecent(ctx context.Context, limit int) ([]model.TranslationRecord, error) {
	s.gotLimit = limit
	return s.recent, nil
}

type stubUsageRepo struct {
	events []model.UsageEvent
}

func (s *stubUsageRepo) RecordUsage(ctx context.Context, events []model.UsageEvent) error {
	s.events = append(s.events, events...)
	return nil
}

func (s *stubUsageRepo) GetSummary(ctx context.Context, req dto.UsageSummaryRequest) (*dto.UsageSummaryResponse, error) {
	return nil, nil
}

func (s *stubUsageRepo) GetTimeseries(ctx context.Context, req dto.UsageTimeseriesRequest) (*dto.UsageTimeseriesResponse, error) {
	return nil, nil
}

type stubSchemaProvider struct {
	snap *schema.Snapshot
}

func (s *stubSchemaProvider) Snapshot() *schema.Snapshot        { return s.snap }
func (s *stubSchemaProvider) Refresh(ctx context.Context) error { return nil }

type translateEnv struct {
	interpreter   *stubInterpreter
	executor      *stubExecutor
	audit         *stubAuditRepo
	usage         *stubUsageRepo
	conversations store.ConversationStore
	svc           TranslationService
}

func defaultTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Query.TimestampField = "@timestamp"
	cfg.Query.MaxResultSize = 200
	cfg.Query.DefaultIndexPattern = "logs-*"
	cfg.Query.AllowedIndexPatterns = []string{"logs-*"}
	cfg.Kibana.BaseURL = "http://localhost:5601"
	cfg.Kibana.DataViewID = "banking-logs"
	return cfg
}

func newTranslateEnv(t *testing.T, cfg *config.Config, policy timerange.FallbackPolicy) *translateEnv {
	t.Helper()

	clock := func() time.Time { return time.Date(2025, 8, 22, 10, 30, 0, 0, time.UTC) }
	resolver, err := timerange.NewResolver("UTC", policy, clock)
	require.NoError(t, err)

	env := &translateEnv{
		interpreter: &stubInterpreter{},
		executor: &stubExecutor{result: &model.QueryResult{
			TotalCount: 42,
			ByChannel:  []model.Bucket{{Key: "mobile", Count: 30}, {Key: "online", Count: 12}},
			ByOutcome:  []model.Bucket{{Key: "failure", Count: 42}},
		}},
		audit:         &stubAuditRepo{},
		usage:         &stubUsageRepo{},
		conversations: store.NewInMemoryConversationStore(),
	}
	env.svc = NewTranslationService(
		env.interpreter,
		&stubSchemaProvider{snap: schema.BaselineSnapshot()},
		resolver,
		dsl.NewBuilder(cfg),
		kibana.NewBuilder(cfg),
		env.executor,
		NewAnswerFormatter(),
		env.conversations,
		env.audit,
		env.usage,
		cfg,
	)
	return env
}

func countQuery() *model.StructuredQuery {
	return &model.StructuredQuery{
		QueryType: model.QueryTypeCount,
		TimeRange: "today",
		Filters: []model.Filter{
			{Field: "event.action", Value: "user_login"},
			{Field: "event.outcome", Value: "failure"},
		},
		Description: "Count of failed login events today",
		Confidence:  0.95,
	}
}

func TestTranslateCount(t *testing.T) {
	ctx := context.Background()
	env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
	env.interpreter.q = countQuery()

	resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "failed logins today"})
	require.NoError(t, err)
	require.NotNil(t, resp)

	t.Run("response carries the answer and the query artifacts", func(t *testing.T) {
		assert.Equal(t, "count", resp.ResultType)
		assert.Contains(t, resp.Answer, "Found 42 events today.")
		assert.Contains(t, resp.Answer, "By channel:\n- mobile: 30\n- online: 12")
		assert.Equal(t, "logs-auth-*", resp.IndexPattern)
		assert.NotNil(t, resp.DSL)
		require.NotNil(t, resp.Kibana)
		assert.Contains(t, resp.Kibana.Discover, "from:'now/d'")
		assert.Contains(t, resp.Kibana.Lens, "/app/lens")
		assert.Nil(t, resp.ErrorMessage)
		assert.NotEmpty(t, resp.ConversationId)
	})

	t.Run("executor saw the sniffed pattern and a zero-size document", func(t *testing.T) {
		assert.Equal(t, 1, env.executor.calls)
		assert.Equal(t, "logs-auth-*", env.executor.gotIndex)
		require.NotNil(t, env.executor.gotReq)
		require.NotNil(t, env.executor.gotReq.Size)
		assert.Equal(t, 0, *env.executor.gotReq.Size)
	})

	t.Run("audit record and usage event are written", func(t *testing.T) {
		require.Len(t, env.audit.records, 1)
		record := env.audit.records[0]
		assert.Equal(t, "count", record.QueryType)
		assert.Equal(t, "ok", record.Status)
		assert.Empty(t, record.ErrorKind)
		assert.Equal(t, "logs-auth-*", record.IndexPattern)
		assert.Contains(t, record.DSL, "total_count")

		require.Len(t, env.usage.events, 1)
		event := env.usage.events[0]
		assert.Equal(t, "ok", event.Status)
		assert.Equal(t, "count", event.QueryType)
		assert.Equal(t, "count", event.Tags["result_type"])
		assert.NotContains(t, event.Tags, "error_kind")
	})

	t.Run("conversation holds the question and the interpretation", func(t *testing.T) {
		history, err := env.conversations.GetHistory(ctx, resp.ConversationId)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "user", history[0].Role)
		assert.Equal(t, "failed logins today", history[0].Content)
		assert.Equal(t, "model", history[1].Role)
		assert.Contains(t, history[1].Content, `"query_type":"count"`)
	})
}

func TestTranslateShortCircuits(t *testing.T) {
	ctx := context.Background()

	t.Run("greeting never reaches the executor", func(t *testing.T) {
		env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
		env.interpreter.q = &model.StructuredQuery{QueryType: model.QueryTypeGreeting, Description: "Greeting"}

		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "hello"})
		require.NoError(t, err)

		assert.Equal(t, "greeting", resp.ResultType)
		assert.Contains(t, resp.Answer, "Hello!")
		assert.Equal(t, 0, env.executor.calls)
		assert.Nil(t, resp.DSL)
		assert.Nil(t, resp.Kibana)
		assert.Empty(t, resp.IndexPattern)
	})

	t.Run("help lists the primary facets", func(t *testing.T) {
		env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
		env.interpreter.q = &model.StructuredQuery{QueryType: model.QueryTypeHelp}

		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "help"})
		require.NoError(t, err)

		assert.Equal(t, "help", resp.ResultType)
		assert.Contains(t, resp.Answer, "You can filter on: event.outcome, event.action, app.channel.")
		assert.Equal(t, 0, env.executor.calls)
		assert.Nil(t, resp.Kibana)
	})

	t.Run("unsupported echoes the interpreted description", func(t *testing.T) {
		env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
		env.interpreter.q = &model.StructuredQuery{QueryType: model.QueryTypeUnsupported, Description: "Show me a graph of logins"}

		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "graph logins"})
		require.NoError(t, err)

		assert.Equal(t, "unsupported", resp.ResultType)
		assert.Contains(t, resp.Answer, "Show me a graph of logins")
		assert.Equal(t, 0, env.executor.calls)
		assert.Nil(t, resp.Kibana)
	})
}

func TestTranslateFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("classification failure is a chat-style error, not a Go error", func(t *testing.T) {
		env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
		env.interpreter.err = &nlu.ClassificationError{Reason: "model returned no candidates"}

		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "gibberish"})
		require.NoError(t, err)

		assert.Equal(t, "error", resp.ResultType)
		require.NotNil(t, resp.ErrorMessage)
		assert.Contains(t, *resp.ErrorMessage, "could not understand that question")
		assert.Nil(t, resp.InterpretedQuery)
		assert.Equal(t, 0, env.executor.calls)

		require.Len(t, env.audit.records, 1)
		assert.Equal(t, "unknown", env.audit.records[0].QueryType)
		assert.Equal(t, "error", env.audit.records[0].Status)
		assert.Equal(t, "classification", env.audit.records[0].ErrorKind)

		require.Len(t, env.usage.events, 1)
		assert.Equal(t, "classification", env.usage.events[0].Tags["error_kind"])
	})

	t.Run("misspelled field aborts with suggestions before any search", func(t *testing.T) {
		env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
		env.interpreter.q = &model.StructuredQuery{
			QueryType: model.QueryTypeCount,
			Filters:   []model.Filter{{Field: "chanel", Value: "mobile"}},
		}

		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "events by chanel"})
		require.NoError(t, err)

		assert.Equal(t, "error", resp.ResultType)
		require.NotNil(t, resp.ErrorMessage)
		assert.Contains(t, *resp.ErrorMessage, `"chanel"`)
		assert.Contains(t, *resp.ErrorMessage, "app.channel")
		assert.Equal(t, 0, env.executor.calls)
		assert.Nil(t, resp.DSL)
		assert.Nil(t, resp.Kibana)
		assert.Equal(t, "unknown_field", env.audit.records[0].ErrorKind)
	})

	t.Run("unknown field without suggestions points at help", func(t *testing.T) {
		env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
		env.interpreter.q = &model.StructuredQuery{
			QueryType: model.QueryTypeCount,
			Filters:   []model.Filter{{Field: "frobnicate", Value: "x"}},
		}

		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "events by frobnicate"})
		require.NoError(t, err)

		require.NotNil(t, resp.ErrorMessage)
		assert.Contains(t, *resp.ErrorMessage, "help")
	})

	t.Run("unrecognized time token under the reject policy", func(t *testing.T) {
		env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackReject)
		env.interpreter.q = &model.StructuredQuery{QueryType: model.QueryTypeCount, TimeRange: "last_fortnight"}

		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "events last fortnight"})
		require.NoError(t, err)

		assert.Equal(t, "error", resp.ResultType)
		require.NotNil(t, resp.ErrorMessage)
		assert.Contains(t, *resp.ErrorMessage, "time range")
		assert.Equal(t, 0, env.executor.calls)
		assert.Equal(t, "unrecognized_time_range", env.audit.records[0].ErrorKind)
	})

	t.Run("search failure stays generic for the user", func(t *testing.T) {
		env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
		env.interpreter.q = countQuery()
		env.executor.err = errors.New("connection refused")

		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "failed logins today"})
		require.NoError(t, err)

		assert.Equal(t, "error", resp.ResultType)
		require.NotNil(t, resp.ErrorMessage)
		assert.Equal(t, "Could not complete the query against the log store.", *resp.ErrorMessage)
		assert.Nil(t, resp.Kibana)
		assert.Equal(t, "search_execution", env.audit.records[0].ErrorKind)
		assert.Equal(t, "error", env.usage.events[0].Status)
	})
}

func TestTranslateIndexPatterns(t *testing.T) {
	ctx := context.Background()

	sniffed := []struct {
		question string
		pattern  string
	}{
		{"failed logins today", "logs-auth-*"},
		{"payment failures yesterday", "logs-payment-*"},
		{"mobile sessions today", "logs-mobile-*"},
		{"mobile login failures", "logs-auth-*"},
		{"events today", "logs-*"},
	}

	for _, tt := range sniffed {
		t.Run(tt.question, func(t *testing.T) {
			env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
			env.interpreter.q = &model.StructuredQuery{QueryType: model.QueryTypeCount}

			_, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: tt.question})
			require.NoError(t, err)
			assert.Equal(t, tt.pattern, env.executor.gotIndex)
		})
	}

	t.Run("disallowed sniffed pattern falls back to the default", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.Query.DefaultIndexPattern = "logs-auth-*"
		cfg.Query.AllowedIndexPatterns = []string{"logs-auth-*"}
		env := newTranslateEnv(t, cfg, timerange.FallbackLastHour)
		env.interpreter.q = &model.StructuredQuery{QueryType: model.QueryTypeCount}

		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "payment failures"})
		require.NoError(t, err)

		assert.Equal(t, "count", resp.ResultType)
		assert.Equal(t, "logs-auth-*", env.executor.gotIndex)
	})

	t.Run("nothing allowed means an error response before any search", func(t *testing.T) {
		cfg := defaultTestConfig()
		cfg.Query.AllowedIndexPatterns = []string{"secure-*"}
		env := newTranslateEnv(t, cfg, timerange.FallbackLastHour)
		env.interpreter.q = &model.StructuredQuery{QueryType: model.QueryTypeCount}

		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "events today"})
		require.NoError(t, err)

		assert.Equal(t, "error", resp.ResultType)
		assert.Equal(t, 0, env.executor.calls)
		assert.Equal(t, "index_pattern", env.audit.records[0].ErrorKind)
	})
}

func TestPatternAllowed(t *testing.T) {
	allowed := []string{"logs-*", "audit-2025"}

	assert.True(t, patternAllowed("logs-auth-*", allowed))
	assert.True(t, patternAllowed("logs-*", allowed))
	assert.True(t, patternAllowed("audit-2025", allowed))
	assert.False(t, patternAllowed("audit-2024", allowed))
	assert.False(t, patternAllowed("metrics-*", allowed))
	assert.False(t, patternAllowed("logs-auth-*", nil))
}

func TestTranslateSizeHint(t *testing.T) {
	ctx := context.Background()

	t.Run("caller size is applied when under the cap", func(t *testing.T) {
		env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
		env.interpreter.q = countQuery()
		size := 50

		_, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "failed logins today", Size: &size})
		require.NoError(t, err)

		require.NotNil(t, env.executor.gotReq.Size)
		assert.Equal(t, 50, *env.executor.gotReq.Size)
	})

	t.Run("oversized caller size is clamped", func(t *testing.T) {
		env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
		env.interpreter.q = countQuery()
		size := 5000

		_, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "failed logins today", Size: &size})
		require.NoError(t, err)

		assert.Equal(t, 200, *env.executor.gotReq.Size)
	})
}

func TestTranslateConversationContinuity(t *testing.T) {
	ctx := context.Background()
	env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
	env.interpreter.q = countQuery()

	first, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "failed logins today"})
	require.NoError(t, err)
	require.NotEmpty(t, first.ConversationId)
	assert.Empty(t, env.interpreter.gotHistory)

	second, err := env.svc.Translate(ctx, dto.TranslateRequest{
		Question:       "what about yesterday",
		ConversationId: &first.ConversationId,
	})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationId, second.ConversationId)
	require.Len(t, env.interpreter.gotHistory, 2)
	assert.Equal(t, "user", env.interpreter.gotHistory[0].Role)
	assert.Equal(t, "model", env.interpreter.gotHistory[1].Role)

	t.Run("stale conversation id mints a fresh conversation", func(t *testing.T) {
		stale := "not-a-conversation"
		resp, err := env.svc.Translate(ctx, dto.TranslateRequest{Question: "failed logins today", ConversationId: &stale})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.ConversationId)
		assert.NotEqual(t, stale, resp.ConversationId)
	})
}

func TestRecentTranslations(t *testing.T) {
	env := newTranslateEnv(t, defaultTestConfig(), timerange.FallbackLastHour)
	env.audit.recent = []model.TranslationRecord{
		{Question: "failed logins today", QueryType: "count", Status: "ok"},
		{Question: "what is this", QueryType: "unsupported", Status: "ok"},
	}

	records, err := env.svc.RecentTranslations(context.Background(), 20)
	require.NoError(t, err)

	assert.Equal(t, 20, env.audit.gotLimit)
	require.Len(t, records, 2)
	assert.Equal(t, "failed logins today", records[0].Question)
}
