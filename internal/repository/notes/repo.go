// Package notes searches note rows in SQLite.
package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	domsearch "github.com/canvashq/prism/internal/domain/search"
)

// Repo searches notes.
type Repo struct {
	db *sqlx.DB
}

// New creates a note repository.
func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

type noteRow struct {
	ID             string `db:"id"`
	Title          string `db:"title"`
	SearchableText string `db:"searchable_text"`
}

// Search runs a case-insensitive substring search over note titles and
// searchable text. Similarity is assigned by the retriever.
func (r *Repo) Search(
	ctx context.Context, workspaceID, query string, limit int,
) ([]domsearch.Candidate, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var rows []noteRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, title, searchable_text
		FROM notes
		WHERE workspace_id = ?
		  AND (LOWER(title) LIKE ? OR LOWER(searchable_text) LIKE ?)
		ORDER BY created_at DESC
		LIMIT ?`,
		workspaceID, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("note search: %w", err)
	}

	out := make([]domsearch.Candidate, 0, len(rows))
	for _, row := range rows {
		desc := row.SearchableText
		if runes := []rune(desc); len(runes) > 200 {
			desc = string(runes[:200])
		}
		out = append(out, domsearch.Candidate{
			ID:             row.ID,
			DocumentID:     row.ID,
			Title:          row.Title,
			Description:    desc,
			SearchableText: row.SearchableText,
			SourceKind:     domsearch.SourceNote,
			Mode:           domsearch.ModeText,
		})
	}
	return out, nil
}
