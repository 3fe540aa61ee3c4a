// Package scratches searches quick-sketch rows in SQLite.
package scratches

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	domsearch "github.com/canvashq/prism/internal/domain/search"
)

// Repo searches scratches.
type Repo struct {
	db *sqlx.DB
}

// New creates a scratch repository.
func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

type scratchRow struct {
	ID             string `db:"id"`
	Title          string `db:"title"`
	SearchableText string `db:"searchable_text"`
	PreviewPath    string `db:"preview_path"`
}

// Search runs a case-insensitive substring search over scratch titles and
// searchable text. Similarity is assigned by the retriever.
func (r *Repo) Search(
	ctx context.Context, workspaceID, query string, limit int,
) ([]domsearch.Candidate, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var rows []scratchRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, title, searchable_text, preview_path
		FROM scratches
		WHERE workspace_id = ?
		  AND (LOWER(title) LIKE ? OR LOWER(searchable_text) LIKE ?)
		ORDER BY created_at DESC
		LIMIT ?`,
		workspaceID, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("scratch search: %w", err)
	}

	out := make([]domsearch.Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, domsearch.Candidate{
			ID:             row.ID,
			DocumentID:     row.ID,
			Title:          row.Title,
			Description:    truncate(row.SearchableText, 200),
			SearchableText: row.SearchableText,
			StoragePath:    row.PreviewPath,
			SourceKind:     domsearch.SourceScratch,
			Mode:           domsearch.ModeText,
		})
	}
	return out, nil
}

// truncate shortens s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
