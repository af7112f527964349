package nlu

import (
	"fmt"
	"strings"
)

var greetingWords = map[string]bool{
	"hi": true, "hello": true, "hey": true, "greetings": true,
	"good morning": true, "good afternoon": true, "good evening": true,
	"howdy": true, "sup": true, "yo": true,
}

var helpWords = map[string]bool{
	"?": true, "help": true, "what": true, "how": true, "can you": true,
}

// FallbackParser is the keyword interpreter used when the model is
// unreachable. It only knows the handful of patterns the demo data
// supports and marks its answers with low confidence.
type FallbackParser struct{}

func NewFallbackParser() *FallbackParser {
	return &FallbackParser{}
}

// Parse classifies the question by keywords alone. It never fails; the
// worst case is a filterless count across all time.
func (p *FallbackParser) Parse(question string) *rawInterpretation {
	q := strings.ToLower(strings.TrimSpace(question))

	if isGreeting(q) {
		return &rawInterpretation{
			QueryType:   "greeting",
			Filters:     map[string]interface{}{},
			Description: fmt.Sprintf("Greeting: %s", question),
			Confidence:  0.9,
		}
	}

	if len(q) < 3 || helpWords[q] {
		return &rawInterpretation{
			QueryType:   "help",
			Filters:     map[string]interface{}{},
			Description: fmt.Sprintf("Help request: %s", question),
			Confidence:  0.8,
		}
	}

	timeToken := keywordTimeToken(q)

	// Keyword filters, insertion order kept for the description.
	type pair struct{ field, value string }
	var ordered []pair
	add := func(field, value string) {
		for i := range ordered {
			if ordered[i].field == field {
				ordered[i].value = value
				return
			}
		}
		ordered = append(ordered, pair{field, value})
	}

	if strings.Contains(q, "failed") || strings.Contains(q, "failure") {
		add("event.outcome", "failure")
	}
	if strings.Contains(q, "success") {
		add("event.outcome", "success")
	}
	if strings.Contains(q, "mobile") {
		add("app.channel", "mobile")
	}
	if strings.Contains(q, "online") {
		add("app.channel", "online")
	}
	if strings.Contains(q, "ivr") {
		add("app.channel", "ivr")
	}
	if strings.Contains(q, "login") {
		add("event.action", "user_login")
	}

	filters := make(map[string]interface{}, len(ordered))
	filterParts := make([]string, 0, len(ordered))
	for _, p := range ordered {
		filters[p.field] = p.value
		filterParts = append(filterParts, fmt.Sprintf("%s=%s", p.field, p.value))
	}

	timeDesc := "all time"
	if timeToken != "" {
		timeDesc = strings.ReplaceAll(timeToken, "_", " ")
	}
	description := fmt.Sprintf("Count of all events in %s", timeDesc)
	if len(filterParts) > 0 {
		description = fmt.Sprintf("Count of events with %s in %s", strings.Join(filterParts, ", "), timeDesc)
	}

	var tr *string
	if timeToken != "" {
		tr = &timeToken
	}
	return &rawInterpretation{
		TimeRange:   tr,
		QueryType:   "count",
		Filters:     filters,
		Description: description,
		Confidence:  0.3,
	}
}

func isGreeting(q string) bool {
	if greetingWords[q] {
		return true
	}
	words := strings.Fields(q)
	if len(words) > 2 {
		return false
	}
	for _, w := range words {
		if greetingWords[w] {
			return true
		}
	}
	return false
}

func keywordTimeToken(q string) string {
	switch {
	case strings.Contains(q, "today"):
		return "today"
	case strings.Contains(q, "yesterday"):
		return "yesterday"
	case strings.Contains(q, "24 hour"), strings.Contains(q, "24 hr"), strings.Contains(q, "last 24"):
		return "last_24h"
	case strings.Contains(q, "hour"):
		return "last_hour"
	case strings.Contains(q, "week"):
		// Not a canonical token; the resolver's fallback policy decides.
		return "last_week"
	default:
		return ""
	}
}
