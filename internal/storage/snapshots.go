/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Autosave snapshots are whole-project JSON blobs kept in the sidecar index
// as a crash recovery source. They are distinct from in-memory undo, which
// stays process-local.

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(ts, project_blob) VALUES (?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT ts, project_blob FROM snapshots ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT ts, project_blob FROM snapshots ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneSnapshotsSQL = `DELETE FROM snapshots WHERE id NOT IN (
	SELECT id FROM snapshots ORDER BY ts DESC LIMIT ?
)`

// Snapshot is one autosaved project state.
type Snapshot struct {
	TS   time.Time
	Blob []byte
}

// SaveSnapshot persists a whole-project JSON blob with a timestamp.
// It opens the project's index database if needed and inserts the record.
func SaveSnapshot(ctx context.Context, ph *ProjectHandle, blob []byte, ts time.Time) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertSnapshotSQL, ts.UTC().Format(time.RFC3339Nano), blob)
	return err
}

// LatestSnapshot returns the newest snapshot blob, or nil if none exist.
func LatestSnapshot(ctx context.Context, ph *ProjectHandle) ([]byte, time.Time, error) {
	if ph == nil {
		return nil, time.Time{}, errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = db.Close() }()
	var tsStr string
	var blob []byte
	err = db.QueryRowContext(ctx, selectLatestSnapshotSQL).Scan(&tsStr, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		return blob, time.Time{}, nil // return blob even if ts parse fails
	}
	return blob, ts, nil
}

// ListSnapshots returns up to limit most recent snapshots, newest first.
func ListSnapshots(ctx context.Context, ph *ProjectHandle, limit int) ([]Snapshot, error) {
	if ph == nil {
		return nil, errors.New("nil ProjectHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Snapshot
	for rows.Next() {
		var tsStr string
		var blob []byte
		if err := rows.Scan(&tsStr, &blob); err != nil {
			return nil, err
		}
		ts, _ := time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, Snapshot{TS: ts, Blob: blob})
	}
	return out, rows.Err()
}

// PruneSnapshots keeps at most keepLast snapshots and deletes older ones.
func PruneSnapshots(ctx context.Context, ph *ProjectHandle, keepLast int) (int64, error) {
	if ph == nil {
		return 0, errors.New("nil ProjectHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneSnapshotsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
