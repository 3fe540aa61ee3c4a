// Package history persists search history rows in SQLite.
package history

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	domhistory "github.com/canvashq/prism/internal/domain/history"
)

// Repo stores search history entries.
type Repo struct {
	db *sqlx.DB
}

// New creates a history repository.
func New(db *sqlx.DB) *Repo {
	return &Repo{db: db}
}

// Replace atomically replaces the row for (workspace, user, exact query):
// delete-then-insert inside one transaction, so at most one row per triple
// survives and created_at always reflects the latest execution.
func (r *Repo) Replace(ctx context.Context, entry *domhistory.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM search_history WHERE workspace_id = ? AND user_id = ? AND query = ?`,
		entry.WorkspaceID, entry.UserID, entry.Query,
	)
	if err != nil {
		return fmt.Errorf("delete stale history row: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO search_history (id, workspace_id, user_id, query, result_count, search_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.WorkspaceID, entry.UserID, entry.Query,
		entry.ResultCount, entry.SearchType, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert history row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history replace: %w", err)
	}
	return nil
}

// List returns up to limit entries for (workspace, user), newest first.
func (r *Repo) List(
	ctx context.Context, workspaceID, userID string, limit int,
) ([]domhistory.Entry, error) {
	var entries []domhistory.Entry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, workspace_id, user_id, query, result_count, search_type, created_at
		FROM search_history
		WHERE workspace_id = ? AND user_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		workspaceID, userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// DeleteByID removes a single entry. Deleting a missing id is a no-op.
func (r *Repo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM search_history WHERE id = ?`, id,
	); err != nil {
		return fmt.Errorf("delete history row: %w", err)
	}
	return nil
}

// DeleteByWorkspace removes all entries of a user in a workspace.
// Clearing an empty history is a no-op.
func (r *Repo) DeleteByWorkspace(ctx context.Context, workspaceID, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM search_history WHERE workspace_id = ? AND user_id = ?`,
		workspaceID, userID,
	); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
