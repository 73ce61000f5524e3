package database

import (
	"fmt"

	"github.com/ewill123/nec-callcenter/internal/config"
	"github.com/ewill123/nec-callcenter/internal/store"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.IsDevelopment() {
		level = logger.Info
	}
	return Open(cfg.DatabaseURL, level)
}

// Open connects with an explicit gorm log level. The CLI uses it with
// logger.Silent.
func Open(dsn string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&store.ReportRow{}); err != nil {
		return err
	}

	return createIndexes(db)
}

func createIndexes(db *gorm.DB) error {
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_reports_status ON call_center_reports(status)").Error; err != nil {
		return fmt.Errorf("create index idx_reports_status: %w", err)
	}
	return nil
}
