package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mgorelik/blogmig/internal/legacy"
	"github.com/mgorelik/blogmig/internal/sink"
	"github.com/mgorelik/blogmig/internal/testutil"
	"github.com/mgorelik/blogmig/internal/textenc"
)

func newMigrator(t *testing.T, store *legacy.Store, out Sink) *Migrator {
	t.Helper()
	codec, err := textenc.NewCodec("utf-8")
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return New(store, codec, out)
}

func stamp(year int, month time.Month, day, hour int) int64 {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC).Unix()
}

func TestRunMigratesPublishedPost(t *testing.T) {
	db, _ := testutil.TempLegacyDB(t)
	outDir := t.TempDir()

	testutil.InsertNote(t, db, 7, []byte(`He said "hi"`), []byte("Hello world"), true, stamp(2021, 3, 5, 10))
	testutil.InsertKeyword(t, db, 1, []byte("life"))
	testutil.InsertKeyword(t, db, 2, []byte("code"))
	testutil.TagNote(t, db, 7, 1)
	testutil.TagNote(t, db, 7, 2)
	testutil.InsertComment(t, db, 1, 7, []byte("Ann"), []byte("Nice!"), []byte(""), true, stamp(2021, 3, 6, 8), 0)

	out, err := sink.NewDir(outDir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	report, err := newMigrator(t, legacy.New(db), out).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Written != 1 || report.Failed != 0 || report.Skipped != 0 {
		t.Fatalf("report = %d written, %d failed, %d skipped", report.Written, report.Failed, report.Skipped)
	}
	if report.RunID == "" {
		t.Error("report should carry a run id")
	}

	data, err := os.ReadFile(filepath.Join(outDir, "2021-03-05-7.md"))
	if err != nil {
		t.Fatalf("expected document 2021-03-05-7.md: %v", err)
	}

	want := `---
layout: post
title:  "He said hi"
date:   "2021-03-05 10:00:00"
permalink: /2021/03/05/1/
categories: life code
---

Hello world

#### Комментарии из старого блога

**06.03.2021 Ann:** Nice!
`
	testutil.AssertEqualDiff(t, string(data), want)
}

func TestRunSkipsUnpublishedWithoutConsumingCounter(t *testing.T) {
	db, _ := testutil.TempLegacyDB(t)
	outDir := t.TempDir()

	// Unpublished post comes first on the same date; the published one must
	// still get counter 1.
	testutil.InsertNote(t, db, 1, []byte("draft"), []byte("d"), false, stamp(2021, 3, 5, 8))
	testutil.InsertNote(t, db, 2, []byte("public"), []byte("p"), true, stamp(2021, 3, 5, 9))

	out, err := sink.NewDir(outDir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	report, err := newMigrator(t, legacy.New(db), out).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Skipped != 1 || report.Written != 1 {
		t.Fatalf("report = %d written, %d skipped", report.Written, report.Skipped)
	}

	if _, err := os.Stat(filepath.Join(outDir, "2021-03-05-1.md")); !os.IsNotExist(err) {
		t.Error("unpublished post must not produce a document")
	}

	data, err := os.ReadFile(filepath.Join(outDir, "2021-03-05-2.md"))
	if err != nil {
		t.Fatalf("published post missing: %v", err)
	}
	if !strings.Contains(string(data), "permalink: /2021/03/05/1/") {
		t.Errorf("published post should get counter 1:\n%s", data)
	}
}

func TestRunSameDateCountersFollowRunOrder(t *testing.T) {
	db, _ := testutil.TempLegacyDB(t)
	outDir := t.TempDir()

	testutil.InsertNote(t, db, 10, []byte("morning"), []byte("a"), true, stamp(2021, 3, 5, 9))
	testutil.InsertNote(t, db, 11, []byte("evening"), []byte("b"), true, stamp(2021, 3, 5, 18))

	out, err := sink.NewDir(outDir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if _, err := newMigrator(t, legacy.New(db), out).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	first, err := os.ReadFile(filepath.Join(outDir, "2021-03-05-10.md"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(filepath.Join(outDir, "2021-03-05-11.md"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(first), "permalink: /2021/03/05/1/") {
		t.Errorf("post 10 should get counter 1:\n%s", first)
	}
	if !strings.Contains(string(second), "permalink: /2021/03/05/2/") {
		t.Errorf("post 11 should get counter 2:\n%s", second)
	}
}

func TestRunOmitsHiddenComments(t *testing.T) {
	db, _ := testutil.TempLegacyDB(t)
	outDir := t.TempDir()

	testutil.InsertNote(t, db, 1, []byte("t"), []byte("b"), true, stamp(2021, 1, 1, 0))
	testutil.InsertComment(t, db, 1, 1, []byte("Troll"), []byte("spam"), []byte("banned, goodbye"), false, stamp(2021, 1, 2, 0), stamp(2021, 1, 3, 0))

	out, err := sink.NewDir(outDir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if _, err := newMigrator(t, legacy.New(db), out).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "2021-01-01-1.md"))
	if err != nil {
		t.Fatal(err)
	}

	doc := string(data)
	// A hidden comment disappears reply and all, so the comments section must
	// not exist at all.
	for _, fragment := range []string{"####", "Troll", "spam", "banned"} {
		if strings.Contains(doc, fragment) {
			t.Errorf("hidden comment leaked %q into the document:\n%s", fragment, doc)
		}
	}
}

func TestRunOrdersCommentsByStampStable(t *testing.T) {
	db, _ := testutil.TempLegacyDB(t)
	outDir := t.TempDir()

	testutil.InsertNote(t, db, 1, []byte("t"), []byte("b"), true, stamp(2021, 1, 1, 0))
	tie := stamp(2021, 1, 2, 12)
	// Fetch order is ID order; the two tied comments must keep it, and the
	// later-inserted earlier comment must sort first.
	testutil.InsertComment(t, db, 1, 1, []byte("First"), []byte("tie a"), []byte(""), true, tie, 0)
	testutil.InsertComment(t, db, 2, 1, []byte("Second"), []byte("tie b"), []byte(""), true, tie, 0)
	testutil.InsertComment(t, db, 3, 1, []byte("Early"), []byte("earliest"), []byte(""), true, stamp(2021, 1, 2, 6), 0)

	out, err := sink.NewDir(outDir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if _, err := newMigrator(t, legacy.New(db), out).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "2021-01-01-1.md"))
	if err != nil {
		t.Fatal(err)
	}

	doc := string(data)
	early := strings.Index(doc, "Early")
	first := strings.Index(doc, "First")
	second := strings.Index(doc, "Second")
	if early < 0 || first < 0 || second < 0 {
		t.Fatalf("missing comments:\n%s", doc)
	}
	if !(early < first && first < second) {
		t.Errorf("comment order wrong (early=%d first=%d second=%d):\n%s", early, first, second, doc)
	}
}

func TestRunContinuesPastDecodeFailure(t *testing.T) {
	db, _ := testutil.TempLegacyDB(t)
	outDir := t.TempDir()

	testutil.InsertNote(t, db, 1, []byte("broken"), []byte("b"), true, stamp(2021, 1, 1, 0))
	testutil.InsertComment(t, db, 1, 1, []byte("Ann"), []byte{0xff, 0xfe}, []byte(""), true, stamp(2021, 1, 2, 0), 0)
	testutil.InsertNote(t, db, 2, []byte("fine"), []byte("all good"), true, stamp(2021, 2, 1, 0))

	out, err := sink.NewDir(outDir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	report, err := newMigrator(t, legacy.New(db), out).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Failed != 1 || report.Written != 1 {
		t.Fatalf("report = %d written, %d failed", report.Written, report.Failed)
	}

	var failure Result
	for _, res := range report.Results {
		if res.Err != nil {
			failure = res
		}
	}
	if failure.PostID != 1 {
		t.Fatalf("failed post id = %d, want 1", failure.PostID)
	}
	var decodeErr *textenc.DecodeError
	if !errors.As(failure.Err, &decodeErr) {
		t.Errorf("expected a decode error, got %v", failure.Err)
	}
	if !strings.Contains(failure.Err.Error(), "post 1") {
		t.Errorf("error should name the post: %v", failure.Err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "2021-01-01-1.md")); !os.IsNotExist(err) {
		t.Error("failed post must not leave a document")
	}
	if _, err := os.Stat(filepath.Join(outDir, "2021-02-01-2.md")); err != nil {
		t.Errorf("post after the failure should still be written: %v", err)
	}
}

// failSink rejects every write.
type failSink struct{}

func (failSink) Write(name string, data []byte) (string, error) {
	return "", fmt.Errorf("writing %s: disk full", name)
}

func TestRunRecordsSinkFailure(t *testing.T) {
	db, _ := testutil.TempLegacyDB(t)

	testutil.InsertNote(t, db, 1, []byte("t"), []byte("b"), true, stamp(2021, 1, 1, 0))

	report, err := newMigrator(t, legacy.New(db), failSink{}).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if report.Failed != 1 {
		t.Fatalf("report.Failed = %d, want 1", report.Failed)
	}
	if !strings.Contains(report.Results[0].Err.Error(), "2021-01-01-1.md") {
		t.Errorf("sink error should name the file: %v", report.Results[0].Err)
	}
}

func TestRunFatalWhenPostsQueryFails(t *testing.T) {
	db, _ := testutil.TempLegacyDB(t)
	if _, err := db.Exec("DROP TABLE __0Db_Notes"); err != nil {
		t.Fatal(err)
	}

	_, err := newMigrator(t, legacy.New(db), failSink{}).Run()
	if err == nil {
		t.Fatal("missing posts table must abort the run")
	}
}
