// Package transcripts searches timestamped link-transcript segments in
// SQLite, joined to their parent link for title and media URLs.
package transcripts

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	domsearch "github.com/canvashq/prism/internal/domain/search"
)

// Repo searches link transcript segments.
type Repo struct {
	db *sqlx.DB
}

// New creates a transcript repository.
func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

type segmentRow struct {
	ID           string  `db:"id"`
	LinkID       string  `db:"link_id"`
	SegmentText  string  `db:"segment_text"`
	StartTime    float64 `db:"start_time"`
	LinkTitle    string  `db:"link_title"`
	ThumbnailURL string  `db:"thumbnail_url"`
	VideoURL     string  `db:"video_url"`
}

// Search finds segments whose text contains the query (case-insensitive
// substring). Similarity is assigned by the retriever.
func (r *Repo) Search(
	ctx context.Context, workspaceID, query string, limit int,
) ([]domsearch.Candidate, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var rows []segmentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.link_id, t.segment_text, t.start_time,
		       l.title AS link_title, l.thumbnail_url, l.video_url
		FROM link_transcripts t
		JOIN links l ON l.id = t.link_id
		WHERE t.workspace_id = ?
		  AND LOWER(t.segment_text) LIKE ?
		ORDER BY t.start_time
		LIMIT ?`,
		workspaceID, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("transcript search: %w", err)
	}

	out := make([]domsearch.Candidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, domsearch.Candidate{
			ID:           row.ID,
			DocumentID:   row.ID,
			Title:        row.LinkTitle,
			Description:  row.SegmentText,
			ThumbnailURL: row.ThumbnailURL,
			VideoURL:     row.VideoURL,
			StartTime:    row.StartTime,
			SourceKind:   domsearch.SourceLinkTranscript,
			Mode:         domsearch.ModeTranscript,
		})
	}
	return out, nil
}
