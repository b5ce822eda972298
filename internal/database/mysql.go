package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// mysqlDatetimePrecision keeps microseconds so stored timestamps read back
// exactly as the service wrote them.
const mysqlDatetimePrecision = 6

// ConnectMySQL opens a MySQL connection. The DSN must enable parseTime so
// create_time and modify_time scan into time.Time.
func ConnectMySQL(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("mysql dsn must not be empty")
	}

	db, err := gorm.Open(mysql.New(mysqlConfig(dsn)), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	return db, nil
}

func mysqlConfig(dsn string) mysql.Config {
	precision := mysqlDatetimePrecision
	return mysql.Config{
		DSN:                      dsn,
		DefaultDatetimePrecision: &precision,
	}
}
