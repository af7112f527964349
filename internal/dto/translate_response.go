package dto

import "logintel-backend/internal/model"

type KibanaLinks struct {
	Discover string `json:"discover"`
	Lens     string `json:"lens"`
}

type TranslateResponse struct {
	ConversationId   string                 `json:"conversationId"`
	OriginalQuestion string                 `json:"originalQuestion"`
	InterpretedQuery *model.StructuredQuery `json:"interpretedQuery,omitempty"`
	ResultType       string                 `json:"resultType"` // "count", "greeting", "help", "unsupported", "error"
	Answer           string                 `json:"answer,omitempty"`
	IndexPattern     string                 `json:"indexPattern,omitempty"`
	DSL              interface{}            `json:"dsl,omitempty"` // the Elasticsearch search body that was (or would be) executed
	Kibana           *KibanaLinks           `json:"kibana,omitempty"`
	ErrorMessage     *string                `json:"errorMessage,omitempty"`
}

type ConversationTurn struct {
	Role    string `json:"role"`    // "user" | "model"
	Content string `json:"content"` // question | JSON interpretation
}
