package schema

import (
	"fmt"
	"strings"
)

// FieldStatus is the outcome of resolving one requested field name.
type FieldStatus string

const (
	FieldValid     FieldStatus = "valid"
	FieldSuggested FieldStatus = "suggested"
	FieldUnknown   FieldStatus = "unknown"
)

const maxSuggestions = 3

type FieldResolution struct {
	Requested   string      `json:"requested"`
	Status      FieldStatus `json:"status"`
	Suggestions []string    `json:"suggestions,omitempty"`
}

// UnknownFieldError aborts query construction for a field outside the
// schema. Suggestions carry the closest schema fields, schema order.
type UnknownFieldError struct {
	Field       string
	Suggestions []string
}

func (e *UnknownFieldError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("unknown field %q, did you mean: %s", e.Field, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("unknown field %q", e.Field)
}

// ResolveField checks one requested field name against the snapshot. An
// exact name is valid as-is and never rewritten. Otherwise a single pass
// over the schema collects up to three suggestions, in schema order,
// where the requested name reads as part of the field name or one of its
// synonyms. Doubled-letter misspellings ("chanel") still match because
// both sides are also compared with letter runs collapsed. Anything
// smarter than that belongs in the interpreter, not here.
func (s *Snapshot) ResolveField(requested string) FieldResolution {
	if _, ok := s.byName[requested]; ok {
		return FieldResolution{Requested: requested, Status: FieldValid}
	}

	req := strings.ToLower(strings.TrimSpace(requested))
	reqCollapsed := collapseRuns(req)

	var suggestions []string
	for _, f := range s.Fields {
		if len(suggestions) == maxSuggestions {
			break
		}
		if matchesField(f, req, reqCollapsed) {
			suggestions = append(suggestions, f.Name)
		}
	}

	if len(suggestions) > 0 {
		return FieldResolution{Requested: requested, Status: FieldSuggested, Suggestions: suggestions}
	}
	return FieldResolution{Requested: requested, Status: FieldUnknown}
}

func matchesField(f FieldInfo, req, reqCollapsed string) bool {
	if req == "" {
		return false
	}
	if lexicalMatch(f.Name, req, reqCollapsed) {
		return true
	}
	for _, syn := range f.Synonyms {
		if lexicalMatch(syn, req, reqCollapsed) {
			return true
		}
	}
	return false
}

func lexicalMatch(candidate, req, reqCollapsed string) bool {
	cand := strings.ToLower(candidate)
	if strings.Contains(cand, req) {
		return true
	}
	return strings.Contains(collapseRuns(cand), reqCollapsed)
}

// collapseRuns squeezes repeated characters ("channel" -> "chanel") so a
// dropped double letter still lines up.
func collapseRuns(s string) string {
	var b strings.Builder
	prev := rune(-1)
	for _, r := range s {
		if r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}
