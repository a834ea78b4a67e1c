// Package migrate drives the post-by-post conversion of the legacy blog
// into Jekyll documents.
package migrate

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/mgorelik/blogmig/internal/legacy"
	"github.com/mgorelik/blogmig/internal/permalink"
	"github.com/mgorelik/blogmig/internal/render"
	"github.com/mgorelik/blogmig/internal/textenc"
)

// Sink receives rendered documents. Write returns the full path written.
type Sink interface {
	Write(name string, data []byte) (string, error)
}

// Migrator runs a single full pass over the legacy store. Construct a fresh
// one per run: it owns the permalink registry, whose numbering depends on
// processing every post of the run in chronological order.
type Migrator struct {
	store      *legacy.Store
	codec      *textenc.Codec
	sink       Sink
	permalinks *permalink.Registry
}

// New creates a Migrator with an empty permalink registry.
func New(store *legacy.Store, codec *textenc.Codec, sink Sink) *Migrator {
	return &Migrator{
		store:      store,
		codec:      codec,
		sink:       sink,
		permalinks: permalink.NewRegistry(),
	}
}

// Run migrates every published post in chronological order. A failing post
// is recorded in the report and the run moves on to the next one; only the
// initial posts query is fatal, since nothing can proceed without it.
func (m *Migrator) Run() (*Report, error) {
	posts, err := m.store.PostsByStamp()
	if err != nil {
		return nil, fmt.Errorf("loading posts: %w", err)
	}

	report := &Report{RunID: uuid.New().String()}
	for _, p := range posts {
		if !p.Published {
			report.add(Result{PostID: p.ID, Skipped: true})
			continue
		}
		path, err := m.migratePost(p)
		if err != nil {
			report.add(Result{PostID: p.ID, Err: fmt.Errorf("post %d: %w", p.ID, err)})
			continue
		}
		report.add(Result{PostID: p.ID, Path: path})
	}

	return report, nil
}

func (m *Migrator) migratePost(p legacy.Post) (string, error) {
	created := time.Unix(p.Stamp, 0).UTC()
	url := m.permalinks.Allocate(created)

	title, err := m.codec.Decode(p.Title, textenc.FieldTitle)
	if err != nil {
		return "", err
	}
	body, err := m.codec.Decode(p.Body, textenc.FieldBody)
	if err != nil {
		return "", err
	}
	tags, err := m.resolveTags(p.ID)
	if err != nil {
		return "", err
	}
	comments, err := m.collectComments(p.ID)
	if err != nil {
		return "", err
	}

	doc := render.Document(render.Post{
		Title:     title,
		Date:      created,
		Permalink: url,
		Tags:      tags,
		Body:      body,
		Comments:  comments,
	})

	return m.sink.Write(render.Filename(created, p.ID), []byte(doc))
}

// resolveTags decodes the post's keyword names, keeping join order.
func (m *Migrator) resolveTags(noteID int64) ([]string, error) {
	raw, err := m.store.TagNames(noteID)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(raw))
	for _, name := range raw {
		tag, err := m.codec.Decode(name, textenc.FieldTag)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// collectComments keeps visible comments only and orders them by stamp
// ascending. Hidden comments are dropped entirely, replies included. The
// sort is stable so same-second comments keep their fetch order.
func (m *Migrator) collectComments(noteID int64) ([]render.Comment, error) {
	rows, err := m.store.Comments(noteID)
	if err != nil {
		return nil, err
	}

	comments := make([]render.Comment, 0, len(rows))
	for _, c := range rows {
		if !c.Visible {
			continue
		}
		author, err := m.codec.Decode(c.AuthorName, textenc.FieldAuthor)
		if err != nil {
			return nil, err
		}
		text, err := m.codec.Decode(c.Text, textenc.FieldComment)
		if err != nil {
			return nil, err
		}
		reply, err := m.codec.Decode(c.Reply, textenc.FieldReply)
		if err != nil {
			return nil, err
		}
		comments = append(comments, render.Comment{
			Author:     author,
			Stamp:      time.Unix(c.Stamp, 0).UTC(),
			Text:       text,
			Reply:      reply,
			ReplyStamp: time.Unix(c.ReplyStamp, 0).UTC(),
		})
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Stamp.Before(comments[j].Stamp)
	})

	return comments, nil
}
