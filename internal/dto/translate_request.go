package dto

type TranslateRequest struct {
	Question       string  `json:"question" binding:"required"`
	ConversationId *string `json:"conversationId,omitempty"`
	Size           *int    `json:"size,omitempty"` // optional result-size hint, clamped server-side
}
