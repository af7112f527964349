package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"logintel-backend/config"
	"logintel-backend/internal/model"
)

// NewDB opens the MySQL connection backing the translation audit trail and
// migrates its tables.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MySQL")
		return nil, err
	}

	if err := db.AutoMigrate(&model.TranslationRecord{}); err != nil {
		log.Error().Err(err).Msg("Failed to migrate audit tables")
		return nil, err
	}

	log.Info().Msg("MySQL connection established and audit tables migrated")
	return db, nil
}
