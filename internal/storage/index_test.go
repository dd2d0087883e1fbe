/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"goshotdesigner/internal/domain"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE name = ?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("sqlite_master lookup for %s: %v", name, err)
	}
	return n > 0
}

func TestInitOrOpenIndexCreatesSchema(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index file missing: %v", err)
	}

	var mode string
	if err := db.QueryRow(`PRAGMA journal_mode;`).Scan(&mode); err != nil {
		t.Fatalf("journal_mode query: %v", err)
	}
	if mode != "wal" {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}

	for _, tbl := range []string{"meta", "version", "documents", "fts_documents", "previews", "snapshots"} {
		if !tableExists(t, db, tbl) {
			t.Fatalf("expected table %s to exist", tbl)
		}
	}

	var schema int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read schema version: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("schema = %d, want %d", schema, schemaVersion)
	}
}

func TestFTSTriggersMirrorDocuments(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer db.Close()
	ctx := testCtx(t)

	if _, err := db.ExecContext(ctx,
		`INSERT INTO documents(doc_id, type, path, page_no, text) VALUES(10001, 'caption', 'page:x/caption:y', 1, 'hello fts world')`); err != nil {
		t.Fatalf("insert document: %v", err)
	}
	var rowid int64
	err = db.QueryRowContext(ctx,
		`SELECT rowid FROM fts_documents WHERE fts_documents MATCH 'hello' LIMIT 1`).Scan(&rowid)
	if err != nil {
		t.Fatalf("fts match after insert: %v", err)
	}
	if rowid != 10001 {
		t.Fatalf("fts rowid = %d, want 10001", rowid)
	}

	if _, err := db.ExecContext(ctx,
		`UPDATE documents SET text = 'goodbye fts world' WHERE doc_id = 10001`); err != nil {
		t.Fatalf("update document: %v", err)
	}
	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fts_documents WHERE fts_documents MATCH 'hello'`).Scan(&n); err != nil {
		t.Fatalf("fts match after update: %v", err)
	}
	if n != 0 {
		t.Fatalf("stale fts row survived update, count = %d", n)
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = 10001`); err != nil {
		t.Fatalf("delete document: %v", err)
	}
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fts_documents WHERE fts_documents MATCH 'goodbye'`).Scan(&n); err != nil {
		t.Fatalf("fts match after delete: %v", err)
	}
	if n != 0 {
		t.Fatalf("stale fts row survived delete, count = %d", n)
	}
}

func TestReindexProjectMirrorsCaptions(t *testing.T) {
	root := t.TempDir()
	proj := domain.NewProject("Fitness App")
	proj.Pages[0].Name = "Hero"
	proj.Pages[0].Texts = append(proj.Pages[0].Texts, domain.NewTextElement("Track every run"))
	second := domain.NewPage()
	second.Name = "Social"
	second.Texts = append(second.Texts, domain.NewTextElement("Share with friends"))
	proj.Pages = append(proj.Pages, second)

	ph, err := InitProject(root, proj)
	if err != nil {
		t.Fatalf("InitProject error: %v", err)
	}
	ctx := testCtx(t)
	if err := ReindexProject(ctx, ph); err != nil {
		t.Fatalf("ReindexProject error: %v", err)
	}

	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("reopen index: %v", err)
	}
	defer db.Close()

	var captions int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE type = 'caption'`).Scan(&captions); err != nil {
		t.Fatalf("count captions: %v", err)
	}
	if captions != 2 {
		t.Fatalf("caption rows = %d, want 2", captions)
	}

	var pageNo int
	err = db.QueryRowContext(ctx,
		`SELECT page_no FROM documents WHERE type = 'caption' AND text = 'Share with friends'`).Scan(&pageNo)
	if err != nil {
		t.Fatalf("lookup second caption: %v", err)
	}
	if pageNo != 2 {
		t.Fatalf("page_no = %d, want 2", pageNo)
	}

	// Reindex after a caption edit replaces, not appends.
	ph.Project.Pages[0].Texts[0].Text = "Track every ride"
	if err := ReindexProject(ctx, ph); err != nil {
		t.Fatalf("second ReindexProject error: %v", err)
	}
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE type = 'caption'`).Scan(&captions); err != nil {
		t.Fatalf("recount captions: %v", err)
	}
	if captions != 2 {
		t.Fatalf("caption rows after reindex = %d, want 2", captions)
	}
}

func TestBuildIndexIfEmptyIsIdempotent(t *testing.T) {
	root := t.TempDir()
	proj := domain.NewProject("Idem")
	proj.Pages[0].Texts = append(proj.Pages[0].Texts, domain.NewTextElement("only once"))
	ctx := testCtx(t)

	if err := BuildIndexIfEmpty(ctx, root, proj); err != nil {
		t.Fatalf("first BuildIndexIfEmpty: %v", err)
	}
	// Second call must not duplicate rows.
	if err := BuildIndexIfEmpty(ctx, root, proj); err != nil {
		t.Fatalf("second BuildIndexIfEmpty: %v", err)
	}

	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE type = 'caption'`).Scan(&n); err != nil {
		t.Fatalf("count captions: %v", err)
	}
	if n != 1 {
		t.Fatalf("caption rows = %d, want 1", n)
	}
}
