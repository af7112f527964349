package model

import "time"

// TranslationRecord is the persisted audit trail of one translate call.
// Banking operations want to know who asked what and which query ran.
type TranslationRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	ConversationID string    `gorm:"size:64;index" json:"conversationId"`
	Question       string    `gorm:"type:text" json:"question"`
	QueryType      string    `gorm:"size:32;index" json:"queryType"`
	TimeToken      string    `gorm:"size:32" json:"timeToken"`
	IndexPattern   string    `gorm:"size:128" json:"indexPattern"`
	DSL            string    `gorm:"type:text" json:"dsl,omitempty"`
	Answer         string    `gorm:"type:text" json:"answer,omitempty"`
	Status         string    `gorm:"size:32;index" json:"status"`
	ErrorKind      string    `gorm:"size:64" json:"errorKind,omitempty"`
	DurationMs     int64     `json:"durationMs"`
}

func (TranslationRecord) TableName() string {
	return "translation_records"
}
