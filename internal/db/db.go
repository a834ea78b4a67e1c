// Package db opens the legacy blog database. The production store is MySQL;
// sqlite3 is supported for local snapshots and tests.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects with the given driver name and verifies the connection
// before returning it. The migration holds this single connection for the
// whole run.
func Open(driver, dsn string) (*sql.DB, error) {
	database, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", driver, err)
	}

	return database, nil
}
