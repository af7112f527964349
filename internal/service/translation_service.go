package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"logintel-backend/config"
	"logintel-backend/internal/dsl"
	"logintel-backend/internal/dto"
	"logintel-backend/internal/kibana"
	"logintel-backend/internal/model"
	"logintel-backend/internal/nlu"
	"logintel-backend/internal/repository"
	"logintel-backend/internal/schema"
	"logintel-backend/internal/store"
	"logintel-backend/internal/timerange"

	"github.com/rs/zerolog/log"
)

// Index patterns the orchestrator may pick by keyword sniffing. The sniff
// stays at this boundary; the DSL builder never sees index names.
const (
	authIndexPattern    = "logs-auth-*"
	paymentIndexPattern = "logs-payment-*"
	mobileIndexPattern  = "logs-mobile-*"
)

type TranslationService interface {
	Translate(ctx context.Context, req dto.TranslateRequest) (*dto.TranslateResponse, error)
	RecentTranslations(ctx context.Context, limit int) ([]model.TranslationRecord, error)
}

type translationService struct {
	interpreter   nlu.Interpreter
	schemas       schema.Provider
	timeRanges    *timerange.Resolver
	dslBuilder    *dsl.Builder
	links         *kibana.Builder
	executor      repository.QueryExecutor
	formatter     AnswerFormatter
	conversations store.ConversationStore
	auditRepo     repository.TranslationRepository
	usageRepo     repository.UsageRepository

	defaultPattern  string
	allowedPatterns []string
}

func NewTranslationService(
	interpreter nlu.Interpreter,
	schemas schema.Provider,
	timeRanges *timerange.Resolver,
	dslBuilder *dsl.Builder,
	links *kibana.Builder,
	executor repository.QueryExecutor,
	formatter AnswerFormatter,
	conversations store.ConversationStore,
	auditRepo repository.TranslationRepository,
	usageRepo repository.UsageRepository,
	cfg *config.Config,
) TranslationService {
	return &translationService{
		interpreter:     interpreter,
		schemas:         schemas,
		timeRanges:      timeRanges,
		dslBuilder:      dslBuilder,
		links:           links,
		executor:        executor,
		formatter:       formatter,
		conversations:   conversations,
		auditRepo:       auditRepo,
		usageRepo:       usageRepo,
		defaultPattern:  cfg.Query.DefaultIndexPattern,
		allowedPatterns: cfg.Query.AllowedIndexPatterns,
	}
}

func (s *translationService) Translate(ctx context.Context, req dto.TranslateRequest) (*dto.TranslateResponse, error) {
	started := time.Now()
	log.Info().Str("question", req.Question).Msg("Processing translate request")

	conversationID, history := s.loadHistory(ctx, req.ConversationId)

	interpreted, err := s.interpreter.Interpret(ctx, req.Question, history)
	if err != nil {
		log.Error().Err(err).Str("question", req.Question).Msg("Interpretation failed")
		resp := createErrorResponse(conversationID, req.Question, nil,
			"Sorry, I could not understand that question. Try something like \"failed logins today\".")
		s.recordOutcome(ctx, conversationID, req.Question, nil, resp, "classification", time.Since(started))
		return resp, nil
	}

	var resp *dto.TranslateResponse
	var errorKind string
	switch interpreted.QueryType {
	case model.QueryTypeCount:
		resp, errorKind = s.handleCountQuery(ctx, conversationID, req, interpreted)
	case model.QueryTypeGreeting:
		resp = s.respond(conversationID, req.Question, interpreted, s.formatter.FormatGreeting())
	case model.QueryTypeHelp:
		resp = s.respond(conversationID, req.Question, interpreted, s.formatter.FormatHelp(s.schemas.Snapshot()))
	default:
		// ParseQueryType admits nothing outside the closed set, so this is
		// QueryTypeUnsupported.
		resp = s.respond(conversationID, req.Question, interpreted, s.formatter.FormatUnsupported(interpreted.Description))
	}

	s.recordOutcome(ctx, conversationID, req.Question, interpreted, resp, errorKind, time.Since(started))
	return resp, nil
}

// RecentTranslations lists the latest audit records, newest first.
func (s *translationService) RecentTranslations(ctx context.Context, limit int) ([]model.TranslationRecord, error) {
	return s.auditRepo.ListRecent(ctx, limit)
}

// handleCountQuery runs the full pipeline: field resolution, time range,
// DSL, index pattern, execution, formatting, deep links. The second return
// value names the failure class for the audit trail, "" on success.
func (s *translationService) handleCountQuery(ctx context.Context, conversationID string, req dto.TranslateRequest, q *model.StructuredQuery) (*dto.TranslateResponse, string) {
	snapshot := s.schemas.Snapshot()

	for _, f := range q.Filters {
		res := snapshot.ResolveField(f.Field)
		if res.Status == schema.FieldValid {
			continue
		}
		fieldErr := &schema.UnknownFieldError{Field: f.Field, Suggestions: res.Suggestions}
		log.Warn().Err(fieldErr).Str("question", req.Question).Msg("Filter field not in schema")
		return createErrorResponse(conversationID, req.Question, q, unknownFieldMessage(f.Field, res.Suggestions)), "unknown_field"
	}

	rng, err := s.timeRanges.Resolve(q.TimeRange)
	if err != nil {
		log.Warn().Err(err).Str("token", q.TimeRange).Msg("Unrecognized time range token")
		return createErrorResponse(conversationID, req.Question, q, "Could not understand the time range in your question."), "unrecognized_time_range"
	}

	searchReq := s.dslBuilder.Build(q, rng)
	if req.Size != nil {
		capped := s.dslBuilder.CapSize(*req.Size)
		searchReq.Size = &capped
	}

	indexPattern, err := s.resolveIndexPattern(req.Question)
	if err != nil {
		log.Error().Err(err).Msg("No allowed index pattern for question")
		return createErrorResponse(conversationID, req.Question, q, "The log indices for this question are not available."), "index_pattern"
	}

	result, err := s.executor.ExecuteCount(ctx, indexPattern, searchReq)
	if err != nil {
		// No retries; the cause stays in the logs, the user gets a generic line.
		log.Error().Err(err).Str("index_pattern", indexPattern).Msg("Search execution failed")
		return createErrorResponse(conversationID, req.Question, q, "Could not complete the query against the log store."), "search_execution"
	}

	// rng carries the effective token after any fallback, so the answer and
	// links describe the window that actually applied.
	timeToken := q.TimeRange
	if rng != nil {
		timeToken = rng.Token
	}

	resp := s.respond(conversationID, req.Question, q, s.formatter.FormatCount(q.Description, result, timeToken))
	resp.IndexPattern = indexPattern
	resp.DSL = searchReq
	resp.Kibana = &dto.KibanaLinks{
		Discover: s.links.DiscoverLink(q.Filters, timeToken),
		Lens:     s.links.LensLink(timeToken),
	}
	return resp, ""
}

// loadHistory resolves the conversation id, minting a fresh conversation
// when none was supplied or the given one is gone.
func (s *translationService) loadHistory(ctx context.Context, requested *string) (string, []dto.ConversationTurn) {
	if requested != nil && *requested != "" {
		history, err := s.conversations.GetHistory(ctx, *requested)
		if err == nil {
			return *requested, history
		}
		if !errors.Is(err, store.ErrConversationNotFound) {
			log.Warn().Err(err).Str("conversation_id", *requested).Msg("Failed to load conversation history")
		}
	}

	id, err := s.conversations.CreateConversation(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create conversation, proceeding without history")
		return "", nil
	}
	return id, nil
}

// resolveIndexPattern picks the target indices by keyword sniffing the raw
// question. auth/login wins over mobile so a "mobile login" question lands
// on the auth dataset that records logins.
func (s *translationService) resolveIndexPattern(question string) (string, error) {
	lowered := strings.ToLower(question)
	pattern := s.defaultPattern
	switch {
	case strings.Contains(lowered, "auth") || strings.Contains(lowered, "login"):
		pattern = authIndexPattern
	case strings.Contains(lowered, "payment"):
		pattern = paymentIndexPattern
	case strings.Contains(lowered, "mobile"):
		pattern = mobileIndexPattern
	}

	if patternAllowed(pattern, s.allowedPatterns) {
		return pattern, nil
	}
	log.Warn().Str("pattern", pattern).Strs("allowed", s.allowedPatterns).Msg("Sniffed index pattern not in allowlist, trying default")
	if pattern != s.defaultPattern && patternAllowed(s.defaultPattern, s.allowedPatterns) {
		return s.defaultPattern, nil
	}
	return "", fmt.Errorf("default index pattern %q rejected by allowlist", s.defaultPattern)
}

// patternAllowed accepts an exact allowlist entry or a trailing-* entry
// whose literal prefix covers the candidate.
func patternAllowed(candidate string, allowed []string) bool {
	for _, a := range allowed {
		if a == candidate {
			return true
		}
		if strings.HasSuffix(a, "*") && strings.HasPrefix(candidate, strings.TrimSuffix(a, "*")) {
			return true
		}
	}
	return false
}

// recordOutcome persists the conversation turns, the audit record, and the
// usage event. All of it is best-effort: a dead MySQL or TimescaleDB must
// never fail a request that already has its answer.
func (s *translationService) recordOutcome(ctx context.Context, conversationID, question string, q *model.StructuredQuery, resp *dto.TranslateResponse, errorKind string, duration time.Duration) {
	status := "ok"
	if resp.ResultType == "error" {
		status = "error"
	}

	queryType := "unknown"
	timeToken := ""
	if q != nil {
		queryType = string(q.QueryType)
		timeToken = q.TimeRange
	}

	if conversationID != "" {
		if err := s.conversations.AddTurn(ctx, conversationID, dto.ConversationTurn{Role: "user", Content: question}); err != nil {
			log.Warn().Err(err).Str("conversation_id", conversationID).Msg("Failed to append user turn")
		}
		// The model turn stores the interpretation JSON; follow-up prompts
		// replay it so the model can amend its own previous output.
		if q != nil {
			if payload, err := json.Marshal(q); err == nil {
				if err := s.conversations.AddTurn(ctx, conversationID, dto.ConversationTurn{Role: "model", Content: string(payload)}); err != nil {
					log.Warn().Err(err).Str("conversation_id", conversationID).Msg("Failed to append model turn")
				}
			}
		}
	}

	dslJSON := ""
	if resp.DSL != nil {
		if b, err := json.Marshal(resp.DSL); err == nil {
			dslJSON = string(b)
		}
	}

	record := &model.TranslationRecord{
		ConversationID: conversationID,
		Question:       question,
		QueryType:      queryType,
		TimeToken:      timeToken,
		IndexPattern:   resp.IndexPattern,
		DSL:            dslJSON,
		Answer:         resp.Answer,
		Status:         status,
		ErrorKind:      errorKind,
		DurationMs:     duration.Milliseconds(),
	}
	if err := s.auditRepo.Save(ctx, record); err != nil {
		log.Warn().Err(err).Msg("Failed to write translation audit record")
	}

	usage := model.UsageEvent{
		Time:         time.Now().UTC(),
		QueryType:    queryType,
		Status:       status,
		IndexPattern: resp.IndexPattern,
		DurationMs:   duration.Milliseconds(),
		Tags:         map[string]string{"result_type": resp.ResultType},
	}
	if errorKind != "" {
		usage.Tags["error_kind"] = errorKind
	}
	if err := s.usageRepo.RecordUsage(ctx, []model.UsageEvent{usage}); err != nil {
		log.Warn().Err(err).Msg("Failed to record usage event")
	}
}

// --- Helper Functions ---

func (s *translationService) respond(conversationID, question string, q *model.StructuredQuery, answer string) *dto.TranslateResponse {
	return &dto.TranslateResponse{
		ConversationId:   conversationID,
		OriginalQuestion: question,
		InterpretedQuery: q,
		ResultType:       string(q.QueryType),
		Answer:           answer,
	}
}

func createErrorResponse(conversationID, question string, q *model.StructuredQuery, message string) *dto.TranslateResponse {
	errMsg := message
	return &dto.TranslateResponse{
		ConversationId:   conversationID,
		OriginalQuestion: question,
		InterpretedQuery: q,
		ResultType:       "error",
		ErrorMessage:     &errMsg,
	}
}

func unknownFieldMessage(field string, suggestions []string) string {
	if len(suggestions) > 0 {
		return fmt.Sprintf("I don't recognize the field %q. Did you mean: %s?", field, strings.Join(suggestions, ", "))
	}
	return fmt.Sprintf("I don't recognize the field %q. Ask for \"help\" to see the available fields.", field)
}
