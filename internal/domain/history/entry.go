// Package history holds the search history domain model: one row per
// (workspace, user, exact query), refreshed on every execution.
package history

import "time"

// Entry is a persisted search execution record.
type Entry struct {
	ID          string    `db:"id" json:"id"`
	WorkspaceID string    `db:"workspace_id" json:"workspaceId"`
	UserID      string    `db:"user_id" json:"userId"`
	Query       string    `db:"query" json:"query"`
	ResultCount int       `db:"result_count" json:"resultCount"`
	SearchType  string    `db:"search_type" json:"searchType"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
