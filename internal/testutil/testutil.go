// Package testutil provides an in-memory database and configuration for tests.
package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/lshigami/mockexam/config"
	"github.com/lshigami/mockexam/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every model migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Config returns the defaults used in production, without reading the environment.
func Config() *config.Config {
	return &config.Config{
		Evaluation: config.Evaluation{MaxAttempts: 3, RetryBase: 2 * time.Second, MinCompletion: 0.70},
		Scoring:    config.Scoring{ListeningFallback: "percentage", ReadingFallback: "percentage"},
		AI:         config.AI{Timeout: time.Second},
		Speech:     config.Speech{Language: "en", Timeout: time.Second, ConvertTimeout: time.Second},
	}
}

// Create inserts value or fails the test.
func Create(t testing.TB, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func Band(v float64) *float64 { return &v }
