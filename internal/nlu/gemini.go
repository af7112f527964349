package nlu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"logintel-backend/config"
	"logintel-backend/internal/dto"
	"logintel-backend/internal/model"
	"logintel-backend/internal/schema"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

type GeminiPart struct {
	Text string `json:"text"`
}
type GeminiContent struct {
	Parts []GeminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}
type GeminiRequestBody struct {
	Contents []GeminiContent `json:"contents"`
}

type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
	Index        int           `json:"index"`
}

type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

type geminiInterpreter struct {
	apiKey      string
	modelID     string
	httpClient  *http.Client
	breaker     *gobreaker.CircuitBreaker
	schemas     schema.Provider
	fallback    *FallbackParser
	useFallback bool
}

// NewGeminiInterpreter builds the production interpreter: Gemini over
// HTTP behind a circuit breaker, with the keyword parser standing in when
// the model is unreachable (if enabled).
func NewGeminiInterpreter(cfg *config.Config, schemas schema.Provider) Interpreter {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "gemini",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state changed")
		},
	})

	return &geminiInterpreter{
		apiKey: cfg.Gemini.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		modelID:     cfg.Gemini.Model,
		breaker:     breaker,
		schemas:     schemas,
		fallback:    NewFallbackParser(),
		useFallback: cfg.Gemini.UseFallback,
	}
}

func (s *geminiInterpreter) Interpret(ctx context.Context, question string, history []dto.ConversationTurn) (*model.StructuredQuery, error) {
	log.Info().Str("question", question).Int("history_len", len(history)).Msg("Interpreting question")

	snapshot := s.schemas.Snapshot()
	contents := buildGeminiContents(history, question, buildSchemaContext(snapshot))

	requestBody := GeminiRequestBody{Contents: contents}
	bodyBytes, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	respBodyBytes, err := s.callGeminiAPI(ctx, bodyBytes)
	if err != nil {
		// The model being unreachable is an availability problem, not a
		// malformed interpretation. The keyword parser can still serve.
		if s.useFallback {
			log.Warn().Err(err).Msg("Gemini unavailable, using keyword fallback parser")
			return Normalize(question, s.fallback.Parse(question))
		}
		return nil, &ClassificationError{Reason: "interpreter unavailable", Err: err}
	}

	raw, err := decodeInterpretation(respBodyBytes)
	if err != nil {
		return nil, err
	}

	structured, err := Normalize(question, raw)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("query_type", string(structured.QueryType)).
		Str("time_range", structured.TimeRange).
		Int("filters", len(structured.Filters)).
		Msg("Question interpreted")
	return structured, nil
}

// decodeInterpretation unwraps the Gemini envelope and parses the model's
// JSON. A response that arrives but cannot be parsed is a classification
// failure and is never guessed around.
func decodeInterpretation(respBodyBytes []byte) (*rawInterpretation, error) {
	var geminiResp GeminiResponse
	if err := json.Unmarshal(respBodyBytes, &geminiResp); err != nil {
		return nil, &ClassificationError{Reason: "unparseable model envelope", Err: err}
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, &ClassificationError{Reason: "model returned no candidates"}
	}

	generatedText := geminiResp.Candidates[0].Content.Parts[0].Text
	cleanedJSON := cleanModelJSONOutput(generatedText)
	if cleanedJSON == "" {
		log.Error().Str("raw_text", generatedText).Msg("No JSON object found in model response")
		return nil, &ClassificationError{Reason: "model response contained no JSON object"}
	}

	var raw rawInterpretation
	decoder := json.NewDecoder(strings.NewReader(cleanedJSON))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		log.Error().Err(err).Str("cleaned_json", cleanedJSON).Msg("Model JSON does not match the interpretation contract")
		return nil, &ClassificationError{Reason: "interpretation did not match contract", Err: err}
	}
	return &raw, nil
}

func (s *geminiInterpreter) callGeminiAPI(ctx context.Context, bodyBytes []byte) ([]byte, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.doRequest(ctx, bodyBytes)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Warn().Msg("Gemini circuit breaker is open")
		}
		return nil, err
	}
	return result.([]byte), nil
}

func (s *geminiInterpreter) doRequest(ctx context.Context, bodyBytes []byte) ([]byte, error) {
	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", s.modelID, s.apiKey)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("Gemini HTTP request failed")
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status_code", resp.StatusCode).Bytes("response_body", respBodyBytes).Msg("Gemini API returned non-OK status")
		return nil, fmt.Errorf("gemini API error: status code %d", resp.StatusCode)
	}

	return respBodyBytes, nil
}

// cleanModelJSONOutput extracts the outermost JSON object from the model
// text, tolerating markdown fences and prose around it.
func cleanModelJSONOutput(raw string) string {
	startIndex := strings.Index(raw, "{")
	if startIndex == -1 {
		return ""
	}

	endIndex := strings.LastIndex(raw, "}")
	if endIndex == -1 || endIndex < startIndex {
		return ""
	}

	potentialJSON := raw[startIndex : endIndex+1]

	var js map[string]interface{}
	if json.Unmarshal([]byte(potentialJSON), &js) == nil {
		return potentialJSON
	}

	log.Warn().Str("potential_json", potentialJSON).Msg("Could not validate potential JSON extracted from model response")
	return ""
}

func buildGeminiContents(history []dto.ConversationTurn, question string, schemaContext string) []GeminiContent {
	contents := make([]GeminiContent, 0, len(history)+1)

	if len(history) == 0 {
		contents = append(contents, GeminiContent{
			Role:  "user",
			Parts: []GeminiPart{{Text: buildInitialPrompt(question, schemaContext)}},
		})
	} else {
		for _, turn := range history {
			contents = append(contents, GeminiContent{
				Role:  turn.Role,
				Parts: []GeminiPart{{Text: turn.Content}},
			})
		}
		contents = append(contents, GeminiContent{
			Role:  "user",
			Parts: []GeminiPart{{Text: buildFollowUpPrompt(question)}},
		})
	}

	return contents
}

// buildSchemaContext renders the current snapshot for the prompt: fields
// with types and descriptions, synonyms, valid values, and the query
// patterns the model should imitate.
func buildSchemaContext(snapshot *schema.Snapshot) string {
	var b strings.Builder

	b.WriteString("Available Elasticsearch fields:\n")
	for _, f := range snapshot.Fields {
		b.WriteString(fmt.Sprintf("- %s (%s): %s\n", f.Name, f.Type, f.Description))
	}

	b.WriteString("\nField synonyms/aliases:\n")
	for _, f := range snapshot.Fields {
		if len(f.Synonyms) > 0 {
			b.WriteString(fmt.Sprintf("- %s: %s\n", f.Name, strings.Join(f.Synonyms, ", ")))
		}
	}

	b.WriteString("\nAllowed values:\n")
	for _, f := range snapshot.Fields {
		if len(f.ValidValues) > 0 {
			b.WriteString(fmt.Sprintf("- %s: %s\n", f.Name, strings.Join(f.ValidValues, ", ")))
		}
	}

	b.WriteString(`
Common query patterns:
- "failed logins today" -> time_range: "today", filters: {"event.outcome": "failure", "event.action": "user_login"}
- "mobile login failures in last 24 hours" -> time_range: "last_24h", filters: {"event.outcome": "failure", "app.channel": "mobile", "event.action": "user_login"}
- "total failed payments" -> time_range: null (all time), filters: {"event.outcome": "failure", "event.action": "payment_initiated"}
- "successful logins on ivr yesterday" -> time_range: "yesterday", filters: {"event.outcome": "success", "app.channel": "ivr", "event.action": "user_login"}
`)

	return b.String()
}

func buildInitialPrompt(question string, schemaContext string) string {
	return fmt.Sprintf(`
You are an expert at interpreting banking system log queries. Convert the user's natural language question into structured search parameters. Respond *ONLY* with a valid JSON object matching the specified format, without any introductory text or markdown formatting.

Context:
%s

Instructions:
1. Identify the time range (today, yesterday, last_hour, last_24h, or null for all time)
2. Identify any filters (channel, outcome, action, etc.), using only fields from the context
3. Classify the question: "count" for countable log questions, "greeting" for greetings, "help" for help requests, "unsupported" for anything this system cannot answer
4. Write a short human readable description of the query

Desired JSON Output Format:
{
  "time_range": "today|yesterday|last_hour|last_24h|null",
  "query_type": "count|greeting|help|unsupported",
  "filters": {"field": "value", ...},
  "description": "human readable description",
  "confidence": 0.0-1.0
}

Examples:
Input: "failed logins today"
Output: {"time_range": "today", "query_type": "count", "filters": {"event.outcome": "failure", "event.action": "user_login"}, "description": "Count of failed login events today", "confidence": 0.95}

Input: "mobile login failures in last 24 hours"
Output: {"time_range": "last_24h", "query_type": "count", "filters": {"event.outcome": "failure", "app.channel": "mobile", "event.action": "user_login"}, "description": "Count of failed mobile login events in last 24 hours", "confidence": 0.9}

Input: "hello there"
Output: {"time_range": null, "query_type": "greeting", "filters": {}, "description": "Greeting", "confidence": 0.95}

User Question: "%s"

JSON Output:`, schemaContext, question)
}

func buildFollowUpPrompt(question string) string {
	return fmt.Sprintf(`Follow-up User Question: "%s"

Based on the previous context and this new question, update the *entire* previous JSON analysis. For example, if the user asks about "yesterday instead", only change the "time_range" field, keeping the filters the same unless the new question changes them. Respond ONLY with the complete, updated, valid JSON object.

Updated JSON Output:`, question)
}
