package repository

import (
	"context"

	"logintel-backend/internal/model"
)

type TranslationRepository interface {
	Save(ctx context.Context, record *model.TranslationRecord) error
	ListRecent(ctx context.Context, limit int) ([]model.TranslationRecord, error)
}
