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
	"strings"
)

// SearchQuery describes the in-app search request.
// Text uses SQLite FTS5 syntax (simple terms, phrases in quotes, AND/OR/NOT).
// Types can restrict to kinds like: caption, page_name, project_name.
// PageFrom/To are inclusive 1-based page numbers; 0 means unset.
// Limit/Offset implement pagination; reasonable defaults applied if zero.
type SearchQuery struct {
	Text     string
	Types    []string
	PageFrom int
	PageTo   int
	Limit    int
	Offset   int
}

// SearchResult represents a single match row.
// Snippet is a highlighted excerpt using [ ] markers when FTS text is used.
// ElementID is empty for page/project name matches; PageNo is 0 when the
// match is not bound to a page.
type SearchResult struct {
	DocID     int64
	Type      string
	Path      string
	PageID    string
	ElementID string
	PageNo    int
	Snippet   string
}

// Search performs full-text search with optional filters over the embedded index.
// When q.Text is empty, it falls back to a non-FTS scan over documents with filters applied.
func Search(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return searchDB(ctx, db, q)
}

// SearchCaptions is the common case: find caption and page name matches for
// a free-text query, ordered by page.
func SearchCaptions(ctx context.Context, projectRoot string, text string) ([]SearchResult, error) {
	return Search(ctx, projectRoot, SearchQuery{
		Text:  text,
		Types: []string{"caption", "page_name"},
	})
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	// Build dynamic SQL
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT d.doc_id, d.type, d.path, COALESCE(d.page_id,''), COALESCE(d.element_id,''), d.page_no, snippet(fts_documents, 0, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_documents JOIN documents d ON fts_documents.rowid = d.doc_id\n")
		sb.WriteString("WHERE fts_documents MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT d.doc_id, d.type, d.path, COALESCE(d.page_id,''), COALESCE(d.element_id,''), d.page_no, COALESCE(d.text,'')\n")
		sb.WriteString("FROM documents d\nWHERE 1=1\n")
	}
	// Types filter (IN list)
	if len(q.Types) > 0 {
		sb.WriteString(" AND d.type IN (" + placeholders(len(q.Types)) + ")\n")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	// Page range
	if q.PageFrom > 0 && q.PageTo > 0 && q.PageTo >= q.PageFrom {
		sb.WriteString(" AND d.page_no BETWEEN ? AND ?\n")
		args = append(args, q.PageFrom, q.PageTo)
	} else if q.PageFrom > 0 {
		sb.WriteString(" AND d.page_no >= ?\n")
		args = append(args, q.PageFrom)
	} else if q.PageTo > 0 {
		sb.WriteString(" AND d.page_no <= ?\n")
		args = append(args, q.PageTo)
	}
	// Order and pagination
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	sb.WriteString("ORDER BY d.page_no, d.doc_id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, q.Offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		var sn sql.NullString
		if err := rows.Scan(&r.DocID, &r.Type, &r.Path, &r.PageID, &r.ElementID, &r.PageNo, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if sn.Valid {
			r.Snippet = sn.String
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	b := strings.Builder{}
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("?")
	}
	return b.String()
}
