/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// PreviewKindThumb marks rendered page thumbnails (encoded PNG bytes). The
// kind column exists so future cached artifacts can share the table.
const PreviewKindThumb = "thumb"

// EnsurePreviewsMigrated guarantees the previews table has the columns needed
// for caching size variants and LRU tracking. It is safe to call multiple times;
// index files written by older builds gain the missing columns in place.
func EnsurePreviewsMigrated(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS previews (
		id          INTEGER PRIMARY KEY,
		page_id     TEXT    NOT NULL,
		kind        TEXT    NOT NULL DEFAULT 'thumb',
		w           INTEGER NOT NULL DEFAULT 0,
		h           INTEGER NOT NULL DEFAULT 0,
		blob        BLOB,
		size        INTEGER NOT NULL DEFAULT 0,
		updated_at  TEXT    NOT NULL,
		last_access TEXT
	);`); err != nil {
		return fmt.Errorf("ensure previews table: %w", err)
	}
	cols, err := tableColumns(ctx, db, "previews")
	if err != nil {
		return err
	}
	alter := func(sqlStmt string) error {
		_, err := db.ExecContext(ctx, sqlStmt)
		return err
	}
	if !cols["kind"] {
		if err := alter(`ALTER TABLE previews ADD COLUMN kind TEXT DEFAULT 'thumb'`); err != nil {
			return fmt.Errorf("add kind: %w", err)
		}
	}
	if !cols["w"] {
		if err := alter(`ALTER TABLE previews ADD COLUMN w INTEGER DEFAULT 0`); err != nil {
			return fmt.Errorf("add w: %w", err)
		}
	}
	if !cols["h"] {
		if err := alter(`ALTER TABLE previews ADD COLUMN h INTEGER DEFAULT 0`); err != nil {
			return fmt.Errorf("add h: %w", err)
		}
	}
	if !cols["size"] {
		if err := alter(`ALTER TABLE previews ADD COLUMN size INTEGER DEFAULT 0`); err != nil {
			return fmt.Errorf("add size: %w", err)
		}
	}
	if !cols["last_access"] {
		if err := alter(`ALTER TABLE previews ADD COLUMN last_access TEXT`); err != nil {
			return fmt.Errorf("add last_access: %w", err)
		}
	}
	// Unique index covering the cache key, plus an access index for LRU eviction
	if _, err := db.ExecContext(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS ux_previews_variant ON previews(page_id, kind, w, h)`); err != nil {
		return fmt.Errorf("create variant index: %w", err)
	}
	_, _ = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_previews_access ON previews(last_access)`)
	return nil
}

// GetPreview returns the cached preview bytes for (pageID, w, h) and touches
// last_access, or nil when the cache has no entry.
func GetPreview(ctx context.Context, projectRoot string, pageID string, w, h int) ([]byte, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	var blob []byte
	err = db.QueryRowContext(ctx,
		`SELECT blob FROM previews WHERE page_id=? AND kind=? AND w=? AND h=?`,
		pageID, PreviewKindThumb, w, h).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query preview: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, _ = db.ExecContext(ctx,
		`UPDATE previews SET last_access=? WHERE page_id=? AND kind=? AND w=? AND h=?`,
		now, pageID, PreviewKindThumb, w, h)
	return blob, nil
}

// PutPreview upserts a preview blob and enforces the cache size cap via LRU eviction.
func PutPreview(ctx context.Context, projectRoot string, pageID string, w, h int, blob []byte) error {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.ExecContext(ctx, `INSERT INTO previews(page_id,kind,w,h,blob,size,updated_at,last_access)
		VALUES(?,?,?,?,?,?,?,?)
		ON CONFLICT(page_id,kind,w,h) DO UPDATE SET blob=excluded.blob, size=excluded.size, updated_at=excluded.updated_at, last_access=excluded.last_access`,
		pageID, PreviewKindThumb, w, h, blob, len(blob), now, now)
	if err != nil {
		return fmt.Errorf("upsert preview: %w", err)
	}
	capBytes := MaxPreviewBytesFromEnv()
	if capBytes > 0 {
		if err := EvictPreviewsToFit(ctx, db, capBytes); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreatePreview fetches a preview or generates and stores it using the provided generator.
func GetOrCreatePreview(ctx context.Context, projectRoot string, pageID string, w, h int, gen func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := GetPreview(ctx, projectRoot, pageID, w, h); err != nil {
		return nil, err
	} else if b != nil {
		return b, nil
	}
	if gen == nil {
		return nil, nil
	}
	data, err := gen(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	if err := PutPreview(ctx, projectRoot, pageID, w, h, data); err != nil {
		return nil, err
	}
	return data, nil
}

// EvictPreviewsToFit deletes least-recently-used rows until total size <= capBytes.
func EvictPreviewsToFit(ctx context.Context, db *sql.DB, capBytes int64) error {
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM previews`).Scan(&total); err != nil {
		return fmt.Errorf("sum previews size: %w", err)
	}
	if total <= capBytes {
		return nil
	}
	// Select victim ids ordered by last_access asc (oldest first), NULLs first
	rows, err := db.QueryContext(ctx, `SELECT id, size FROM previews ORDER BY
		CASE WHEN last_access IS NULL THEN 0 ELSE 1 END ASC, last_access ASC`)
	if err != nil {
		return fmt.Errorf("select victims: %w", err)
	}
	toDelete := make([]int64, 0, 32)
	var cur = total
	for rows.Next() {
		var id int64
		var sz int64
		if err := rows.Scan(&id, &sz); err != nil {
			_ = rows.Close()
			return err
		}
		toDelete = append(toDelete, id)
		cur -= sz
		if cur <= capBytes {
			break
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	// Important: close the rows cursor before attempting to write
	if err := rows.Close(); err != nil {
		return err
	}
	if len(toDelete) == 0 {
		return nil
	}
	sqlBase := `DELETE FROM previews WHERE id IN (` + placeholders(len(toDelete)) + `)`
	args := make([]any, len(toDelete))
	for i, v := range toDelete {
		args[i] = v
	}
	if _, err := db.ExecContext(ctx, sqlBase, args...); err != nil {
		return fmt.Errorf("evict delete: %w", err)
	}
	return nil
}

// TotalPreviewBytes returns total bytes tracked by previews.size
func TotalPreviewBytes(ctx context.Context, projectRoot string) (int64, error) {
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	var total int64
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM previews`).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// MaxPreviewBytesFromEnv reads GSD_PREVIEW_CACHE_MAX_BYTES, defaulting to 256MB if unset.
func MaxPreviewBytesFromEnv() int64 {
	v := os.Getenv("GSD_PREVIEW_CACHE_MAX_BYTES")
	if v == "" {
		return 256 * 1024 * 1024 // 256MB
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 256 * 1024 * 1024
	}
	return n
}
