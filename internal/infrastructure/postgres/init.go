package postgres

import (
	"fmt"
	"log"

	"github.com/LavaJover/safelink-deal-service/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the deal database. The schema is owned by the SQL
// migrations, not by AutoMigrate.
func InitDB(cfg *config.DealConfig) (*gorm.DB, error) {
	if cfg.DealDB.Dsn == "" {
		return nil, fmt.Errorf("deal db dsn is not set")
	}
	db, err := gorm.Open(postgres.Open(cfg.DealDB.Dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}
	return db, nil
}

func MustInitDB(cfg *config.DealConfig) *gorm.DB {
	db, err := InitDB(cfg)
	if err != nil {
		log.Fatalf("%v\n", err)
	}
	return db
}
