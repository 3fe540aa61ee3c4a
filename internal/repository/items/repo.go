// Package items reads the primary item rows mirrored in SQLite. It backs
// the text-only fallback path and the suggested-tags computation; the
// authoritative search surface for items is the Redis FT index.
package items

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"

	domsearch "github.com/canvashq/prism/internal/domain/search"
)

// Repo reads primary items from SQLite.
type Repo struct {
	db *sqlx.DB
}

// New creates an item repository.
func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

type itemRow struct {
	ID             string  `db:"id"`
	Title          string  `db:"title"`
	Description    string  `db:"description"`
	SearchableText string  `db:"searchable_text"`
	MimeType       string  `db:"mime_type"`
	StoragePath    string  `db:"storage_path"`
	Tags           string  `db:"tags"`
	Analysis       *string `db:"analysis"`
}

// SearchFallback runs a case-insensitive substring search over item
// title, description, and searchable text. Similarity is left at zero;
// the retriever assigns the fixed fallback weight.
func (r *Repo) SearchFallback(
	ctx context.Context, workspaceID, query string, limit int,
) ([]domsearch.Candidate, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var rows []itemRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, title, description, searchable_text, mime_type, storage_path, tags, analysis
		FROM items
		WHERE workspace_id = ?
		  AND (LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(searchable_text) LIKE ?)
		ORDER BY created_at DESC
		LIMIT ?`,
		workspaceID, pattern, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("fallback item search: %w", err)
	}

	out := make([]domsearch.Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCandidate())
	}
	return out, nil
}

func (row *itemRow) toCandidate() domsearch.Candidate {
	c := domsearch.Candidate{
		ID:             row.ID,
		DocumentID:     row.ID,
		Title:          row.Title,
		Description:    row.Description,
		SearchableText: row.SearchableText,
		MimeType:       row.MimeType,
		StoragePath:    row.StoragePath,
		SourceKind:     domsearch.SourceDocument,
		Mode:           domsearch.ModeText,
	}
	if row.Tags != "" {
		var tags []string
		if json.Unmarshal([]byte(row.Tags), &tags) == nil {
			c.Tags = tags
		}
	}
	if row.Analysis != nil && *row.Analysis != "" {
		var a domsearch.DetailedAnalysis
		if json.Unmarshal([]byte(*row.Analysis), &a) == nil && !a.IsEmpty() {
			c.Analysis = &a
		}
	}
	return c
}

// TopTags returns the most frequent tags across the workspace's items,
// counted in memory, most frequent first. Ties break alphabetically so
// the order is stable.
func (r *Repo) TopTags(ctx context.Context, workspaceID string, limit int) ([]string, error) {
	var rawTags []string
	err := r.db.SelectContext(ctx, &rawTags,
		`SELECT tags FROM items WHERE workspace_id = ? AND tags != '[]'`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("load item tags: %w", err)
	}

	counts := make(map[string]int)
	for _, raw := range rawTags {
		var tags []string
		if json.Unmarshal([]byte(raw), &tags) != nil {
			continue
		}
		for _, t := range tags {
			t = strings.TrimSpace(strings.ToLower(t))
			if t != "" {
				counts[t]++
			}
		}
	}

	ordered := make([]string, 0, len(counts))
	for t := range counts {
		ordered = append(ordered, t)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if counts[ordered[i]] != counts[ordered[j]] {
			return counts[ordered[i]] > counts[ordered[j]]
		}
		return ordered[i] < ordered[j]
	})

	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered, nil
}
