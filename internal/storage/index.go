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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"goshotdesigner/internal/domain"
	applog "goshotdesigner/internal/log"
	"goshotdesigner/internal/version"
	"log/slog"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// IndexPath returns the full path to the project's embedded index database file.
func IndexPath(projectRoot string) string {
	return filepath.Join(projectRoot, SidecarDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-project SQLite index exists at .gsd/index.sqlite,
// opens the database, enables WAL mode, and ensures the meta/version tables exist.
// The returned *sql.DB is ready for use. Callers may close it when no longer needed.
func InitOrOpenIndex(projectRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", projectRoot),
	)
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Join(projectRoot, SidecarDirName), 0o755); err != nil {
		l.Error("create sidecar dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create sidecar dir: %w", err)
	}

	path := IndexPath(projectRoot)
	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Set reasonable connection pool limits for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Ensure WAL mode is active.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	// Enforce foreign keys just in case future schema uses them.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	// Ensure core index schema exists (documents, FTS, previews, snapshots)
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	// Run migrations to bring DB schema up to date
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	// Create tables if not exist
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	// Seed or update single-row version info
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Insert new row with current schemaVersion for a fresh DB
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Do not downgrade; just continue
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			// v1 documents lacked element_id/page_no; add them and the
			// ordering index, then refresh FTS storage.
			if err := ensureDocumentsColumns(ctx, db); err != nil {
				return fmt.Errorf("migration %d documents columns: %w", next, err)
			}
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_documents_page_no ON documents(page_no);`,
				`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
			// Best-effort FTS optimize (outside the tx)
			_, _ = db.ExecContext(ctx, `INSERT INTO fts_documents(fts_documents) VALUES('optimize')`)
		default:
			// Unknown future step; break
		}
		cur = next
	}
	return nil
}

// ensureDocumentsColumns adds columns introduced after v1 when they are
// missing. Safe to call on any schema revision.
func ensureDocumentsColumns(ctx context.Context, db *sql.DB) error {
	cols, err := tableColumns(ctx, db, "documents")
	if err != nil {
		return err
	}
	if !cols["element_id"] {
		if _, err := db.ExecContext(ctx, `ALTER TABLE documents ADD COLUMN element_id TEXT`); err != nil {
			return fmt.Errorf("add element_id: %w", err)
		}
	}
	if !cols["page_no"] {
		if _, err := db.ExecContext(ctx, `ALTER TABLE documents ADD COLUMN page_no INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("add page_no: %w", err)
		}
	}
	return nil
}

// tableColumns returns the set of column names of a table.
func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s);`, table))
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()
	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// ensureIndexSchema creates core index tables and FTS structures if they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// Core documents table: page names and caption texts mirrored from the manifest.
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id     INTEGER PRIMARY KEY,
			type       TEXT    NOT NULL,
			path       TEXT    NOT NULL,
			page_id    TEXT,
			element_id TEXT,
			page_no    INTEGER NOT NULL DEFAULT 0,
			text       TEXT
		);`,
		// Helpful indices for lookup
		`CREATE INDEX IF NOT EXISTS idx_documents_path ON documents(path);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_page ON documents(page_id);`,

		// External-content FTS5 index over documents.text, synced via
		// triggers. snippet() reads the text back through the content table.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_documents USING fts5(
			text,
			content='documents',
			content_rowid='doc_id',
			tokenize = 'unicode61'
		);`,

		// Previews cache (rendered page thumbnails at requested sizes)
		`CREATE TABLE IF NOT EXISTS previews (
			id          INTEGER PRIMARY KEY,
			page_id     TEXT    NOT NULL,
			kind        TEXT    NOT NULL DEFAULT 'thumb',
			w           INTEGER NOT NULL DEFAULT 0,
			h           INTEGER NOT NULL DEFAULT 0,
			blob        BLOB,
			size        INTEGER NOT NULL DEFAULT 0,
			updated_at  TEXT    NOT NULL,
			last_access TEXT
		);`,

		// Autosave snapshots (whole-project JSON blobs for crash recovery)
		`CREATE TABLE IF NOT EXISTS snapshots (
			id           INTEGER PRIMARY KEY,
			ts           TEXT NOT NULL,
			project_blob BLOB NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	// Triggers keep the FTS index in step with documents.text. The 'delete'
	// command needs the old row values, hence AFTER triggers.
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE OF text ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	// Column evolution must run before indexes over the newer columns, so
	// index files written by older builds upgrade cleanly.
	if err := ensureDocumentsColumns(ctx, db); err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_documents_page_no ON documents(page_no);`); err != nil {
		return fmt.Errorf("create page_no index: %w", err)
	}
	// Perform previews schema migration/additional indexes for caching variants and LRU
	if err := EnsurePreviewsMigrated(ctx, db); err != nil {
		return err
	}
	return nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds the index if needed.
// It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, projectRoot string, proj domain.Project) (bool, error) {
	path := IndexPath(projectRoot)
	// Try to open DB; if fails, attempt backup+delete+rebuild
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := RebuildIndex(ctx, projectRoot, proj); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	// quick_check for corruption
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	// Probe core table
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM documents LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	// Backup and remove existing DB file
	backupIndexFile(path)
	_ = os.Remove(path)
	// Rebuild
	if err := RebuildIndex(ctx, projectRoot, proj); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in .gsd/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), BackupsDirName)
	_ = os.MkdirAll(bdir, 0o755)
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), backupStamp()))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// BuildIndexIfEmpty populates the index from the manifest when the documents
// table has no rows yet. It ensures the DB exists first.
func BuildIndexIfEmpty(ctx context.Context, projectRoot string, proj domain.Project) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents;").Scan(&cnt); err != nil {
		return fmt.Errorf("check documents count: %w", err)
	}
	if cnt > 0 {
		return nil // already built
	}
	return rebuildDocumentsFromProject(ctx, db, proj)
}

// ReindexProject mirrors the handle's page names and caption texts into the
// index, replacing whatever was there. Call after Save to keep search fresh.
func ReindexProject(ctx context.Context, ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildDocumentsFromProject(ctx, db, ph.Project)
}

// RebuildIndex drops and recreates core index tables and rebuilds content from the manifest.
// It preserves meta/version tables. This is a safe operation; the index is derived from mockup.json.
func RebuildIndex(ctx context.Context, projectRoot string, proj domain.Project) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	// Drop core tables inside a transaction and recreate schema
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TABLE IF EXISTS previews;",
		"DROP TABLE IF EXISTS snapshots;",
		"DROP TRIGGER IF EXISTS documents_ai;",
		"DROP TRIGGER IF EXISTS documents_ad;",
		"DROP TRIGGER IF EXISTS documents_au;",
		"DROP TABLE IF EXISTS documents;",
		"DROP TABLE IF EXISTS fts_documents;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	// Recreate schema and populate
	if err := ensureIndexSchema(ctx, db); err != nil {
		return err
	}
	return rebuildDocumentsFromProject(ctx, db, proj)
}

// rebuildDocumentsFromProject replaces the documents table content from the given manifest.
func rebuildDocumentsFromProject(ctx context.Context, db *sql.DB, proj domain.Project) error {
	type row struct {
		typeStr   string
		path      string
		pageID    sql.NullString
		elementID sql.NullString
		pageNo    int
		text      string
	}
	rows := make([]row, 0, 64)
	if s := strings.TrimSpace(proj.Name); s != "" {
		rows = append(rows, row{typeStr: "project_name", path: "project:name", text: s})
	}
	for i := range proj.Pages {
		pg := &proj.Pages[i]
		pageNo := i + 1
		pid := sql.NullString{String: pg.ID, Valid: true}
		if s := strings.TrimSpace(pg.Name); s != "" {
			rows = append(rows, row{
				typeStr: "page_name",
				path:    fmt.Sprintf("page:%s:name", pg.ID),
				pageID:  pid,
				pageNo:  pageNo,
				text:    s,
			})
		}
		for j := range pg.Texts {
			el := &pg.Texts[j]
			s := strings.TrimSpace(el.Text)
			if s == "" {
				continue
			}
			rows = append(rows, row{
				typeStr:   "caption",
				path:      fmt.Sprintf("page:%s/caption:%s", pg.ID, el.ID),
				pageID:    pid,
				elementID: sql.NullString{String: el.ID, Valid: true},
				pageNo:    pageNo,
				text:      s,
			})
		}
	}
	// Write in a transaction: clear documents and insert new rows.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear documents: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO documents(type, path, page_id, element_id, page_no, text) VALUES(?,?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, r := range rows {
		if _, err := ins.ExecContext(ctx, r.typeStr, r.path, r.pageID, r.elementID, r.pageNo, r.text); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert document: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
