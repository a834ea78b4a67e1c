package db

import (
	"path/filepath"
	"testing"
)

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.db")

	database, err := Open("sqlite3", path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec("CREATE TABLE t (x INTEGER)"); err != nil {
		t.Errorf("connection not usable: %v", err)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("no-such-driver", "dsn"); err == nil {
		t.Error("expected error for unregistered driver")
	}
}
