// Package legacy is the read model over the old blog's database tables.
// It only ever reads; the legacy store is treated as a frozen snapshot.
package legacy

import (
	"database/sql"
	"fmt"
)

// Store reads post, keyword and comment rows from the legacy tables.
type Store struct {
	db *sql.DB
}

// New creates a Store over an open database connection.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// PostsByStamp returns every post ordered by creation timestamp ascending.
// This ordering is what makes permalink numbering reproducible across runs.
func (s *Store) PostsByStamp() ([]Post, error) {
	rows, err := s.db.Query(`
		SELECT ID, Title, Text, IsPublished, Stamp
		FROM __0Db_Notes
		ORDER BY Stamp
	`)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.Published, &p.Stamp); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}

	return posts, nil
}

// TagNames returns the raw keyword names attached to a post, in join order.
func (s *Store) TagNames(noteID int64) ([][]byte, error) {
	rows, err := s.db.Query(`
		SELECT k.Name
		FROM __0Db_NotesKeywords nk
		INNER JOIN __0Db_Keywords k ON nk.KeywordID = k.ID
		WHERE nk.NoteID = ?
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("querying keywords for note %d: %w", noteID, err)
	}
	defer rows.Close()

	var names [][]byte
	for rows.Next() {
		var name []byte
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning keyword: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating keywords: %w", err)
	}

	return names, nil
}

// Comments returns every comment on a post in fetch order, hidden ones
// included. Visibility filtering happens in the migration driver.
func (s *Store) Comments(noteID int64) ([]Comment, error) {
	rows, err := s.db.Query(`
		SELECT ID, AuthorName, Text, Reply, IsVisible, Stamp, ReplyStamp
		FROM __0Db_Comments
		WHERE NoteID = ?
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("querying comments for note %d: %w", noteID, err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.AuthorName, &c.Text, &c.Reply, &c.Visible, &c.Stamp, &c.ReplyStamp); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating comments: %w", err)
	}

	return comments, nil
}
