package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectSQLite opens a SQLite database. LIKE is switched to case-sensitive
// matching so substring search behaves the same as on PostgreSQL.
func ConnectSQLite(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("sqlite dsn must not be empty")
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite pool: %w", err)
	}
	// pragmas are per connection and in-memory databases vanish with their last connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA case_sensitive_like = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable case sensitive like: %w", err)
	}

	return db, nil
}
