package service

import (
	"fmt"
	"strings"

	"logintel-backend/internal/model"
	"logintel-backend/internal/schema"
	"logintel-backend/internal/timerange"
)

// AnswerFormatter renders query results and canned replies as plain text for
// a chat-style client. It performs no I/O.
type AnswerFormatter interface {
	FormatCount(description string, result *model.QueryResult, timeToken string) string
	FormatGreeting() string
	FormatHelp(snapshot *schema.Snapshot) string
	FormatUnsupported(description string) string
}

type answerFormatter struct{}

func NewAnswerFormatter() AnswerFormatter {
	return &answerFormatter{}
}

// timeLabel maps a canonical time token to the phrase used in answers.
// Unrecognized tokens read as the last hour, matching the resolver's bias.
func timeLabel(token string) string {
	switch token {
	case timerange.TokenToday:
		return "today"
	case timerange.TokenYesterday:
		return "yesterday"
	case timerange.TokenLastHour:
		return "in the last hour"
	case timerange.TokenLast24h:
		return "in the last 24 hours"
	case timerange.TokenAllTime, "":
		return "across all time"
	default:
		return "in the last hour"
	}
}

func (f *answerFormatter) FormatCount(description string, result *model.QueryResult, timeToken string) string {
	var sb strings.Builder
	sb.WriteString(description)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Found %d events %s.", result.TotalCount, timeLabel(timeToken))

	writeBucketList(&sb, "By channel:", result.ByChannel)
	writeBucketList(&sb, "By outcome:", result.ByOutcome)

	return sb.String()
}

// writeBucketList appends one bullet list per dimension, preserving the
// bucket order returned by the search. Empty dimensions are omitted.
func writeBucketList(sb *strings.Builder, heading string, buckets []model.Bucket) {
	if len(buckets) == 0 {
		return
	}
	sb.WriteString("\n\n")
	sb.WriteString(heading)
	for _, b := range buckets {
		fmt.Fprintf(sb, "\n- %s: %d", b.Key, b.Count)
	}
}

func (f *answerFormatter) FormatGreeting() string {
	return "Hello! I can answer counting questions about the banking logs. " +
		"Try something like \"failed logins today\" or \"mobile payments in the last 24 hours\"."
}

func (f *answerFormatter) FormatHelp(snapshot *schema.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("I translate plain-English questions into counts over the banking logs.\n\n")
	sb.WriteString("Try questions like:\n")
	sb.WriteString("- \"how many failed logins today?\"\n")
	sb.WriteString("- \"mobile payment failures in the last 24 hours\"\n")
	sb.WriteString("- \"count of events yesterday\"")
	if snapshot != nil && len(snapshot.PrimaryFacets) > 0 {
		fmt.Fprintf(&sb, "\n\nYou can filter on: %s.", strings.Join(snapshot.PrimaryFacets, ", "))
	}
	return sb.String()
}

func (f *answerFormatter) FormatUnsupported(description string) string {
	msg := "Sorry, I can only answer counting questions about the logs right now."
	if description != "" {
		msg += fmt.Sprintf(" I understood your question as: %s.", description)
	}
	return msg + " Try something like \"failed logins today\"."
}
