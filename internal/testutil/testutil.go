// Package testutil provides helpers for tests that need a populated legacy
// database or compare rendered documents.
package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pmezard/go-difflib/difflib"
)

const legacySchema = `
CREATE TABLE __0Db_Notes (
	ID          INTEGER PRIMARY KEY,
	Title       BLOB NOT NULL,
	Text        BLOB NOT NULL,
	IsPublished INTEGER NOT NULL,
	Stamp       INTEGER NOT NULL
);
CREATE TABLE __0Db_Keywords (
	ID   INTEGER PRIMARY KEY,
	Name BLOB NOT NULL
);
CREATE TABLE __0Db_NotesKeywords (
	NoteID    INTEGER NOT NULL,
	KeywordID INTEGER NOT NULL
);
CREATE TABLE __0Db_Comments (
	ID         INTEGER PRIMARY KEY,
	NoteID     INTEGER NOT NULL,
	AuthorName BLOB NOT NULL,
	Text       BLOB NOT NULL,
	Reply      BLOB NOT NULL,
	IsVisible  INTEGER NOT NULL,
	Stamp      INTEGER NOT NULL,
	ReplyStamp INTEGER NOT NULL
);
`

// TempLegacyDB creates a throwaway SQLite database carrying the legacy blog
// schema. Returns the connection and the database file path.
func TempLegacyDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "legacy.db")
	database, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if _, err := database.Exec(legacySchema); err != nil {
		database.Close()
		t.Fatalf("Failed to create legacy schema: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database, dbPath
}

// InsertNote adds a post row.
func InsertNote(t *testing.T, db *sql.DB, id int64, title, body []byte, published bool, stamp int64) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO __0Db_Notes (ID, Title, Text, IsPublished, Stamp) VALUES (?, ?, ?, ?, ?)",
		id, title, body, published, stamp,
	)
	if err != nil {
		t.Fatalf("Failed to insert note %d: %v", id, err)
	}
}

// InsertKeyword adds a keyword row.
func InsertKeyword(t *testing.T, db *sql.DB, id int64, name []byte) {
	t.Helper()
	_, err := db.Exec("INSERT INTO __0Db_Keywords (ID, Name) VALUES (?, ?)", id, name)
	if err != nil {
		t.Fatalf("Failed to insert keyword %d: %v", id, err)
	}
}

// TagNote associates a keyword with a note.
func TagNote(t *testing.T, db *sql.DB, noteID, keywordID int64) {
	t.Helper()
	_, err := db.Exec("INSERT INTO __0Db_NotesKeywords (NoteID, KeywordID) VALUES (?, ?)", noteID, keywordID)
	if err != nil {
		t.Fatalf("Failed to tag note %d with keyword %d: %v", noteID, keywordID, err)
	}
}

// InsertComment adds a comment row. Pass an empty reply for comments the
// owner never answered.
func InsertComment(t *testing.T, db *sql.DB, id, noteID int64, author, text, reply []byte, visible bool, stamp, replyStamp int64) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO __0Db_Comments (ID, NoteID, AuthorName, Text, Reply, IsVisible, Stamp, ReplyStamp) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		id, noteID, author, text, reply, visible, stamp, replyStamp,
	)
	if err != nil {
		t.Fatalf("Failed to insert comment %d: %v", id, err)
	}
}

// AssertEqualDiff fails with a unified diff when got differs from want.
func AssertEqualDiff(t *testing.T, got, want string) {
	t.Helper()
	if got == want {
		return
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		t.Fatalf("Failed to build diff: %v", err)
	}
	t.Errorf("Output mismatch:\n%s", text)
}
