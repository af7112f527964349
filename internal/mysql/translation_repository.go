package mysql

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"logintel-backend/internal/model"
	"logintel-backend/internal/repository"
)

type mysqlTranslationRepository struct {
	db *gorm.DB
}

func NewTranslationRepository(db *gorm.DB) repository.TranslationRepository {
	return &mysqlTranslationRepository{db: db}
}

func (r *mysqlTranslationRepository) Save(ctx context.Context, record *model.TranslationRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		log.Error().Err(err).Msg("Failed to save translation record")
		return err
	}
	return nil
}

func (r *mysqlTranslationRepository) ListRecent(ctx context.Context, limit int) ([]model.TranslationRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []model.TranslationRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		log.Error().Err(err).Msg("Failed to list translation records")
		return nil, err
	}
	return records, nil
}
