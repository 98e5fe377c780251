package client

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"aecom-checkout/internal/model"
)

// InitSqliteClient opens the local ledger database and migrates its
// single table. The ledger is an audit trail, not the system of record;
// orders and stock live in the content store.
func InitSqliteClient(databasePath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(databasePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	if err := db.AutoMigrate(&model.WebhookEvent{}); err != nil {
		return nil, fmt.Errorf("migrate ledger database: %w", err)
	}

	return db, nil
}
