// Package history implements the recent-searches feature: best-effort
// recording of executed queries and the read/delete operations over
// them.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domhistory "github.com/canvashq/prism/internal/domain/history"
	"github.com/canvashq/prism/internal/logger"
	"github.com/canvashq/prism/internal/metrics"
)

// Read limits for the recent-searches panel.
const (
	recentLimit = 20
	tagLimit    = 10
)

// Recent is the recent-searches view: latest queries plus the
// workspace's most frequent tags as suggestions.
type Recent struct {
	Searches []domhistory.Entry
	Tags     []string
}

// Service owns search history reads and writes.
type Service struct {
	repo Repository
	tags TagReader
	now  func() time.Time
}

// New creates a history service.
func New(repo Repository, tags TagReader) *Service {
	return &Service{repo: repo, tags: tags, now: time.Now}
}

// Record persists one executed search. At most one row exists per
// (workspace, user, exact query); re-running a query refreshes its
// timestamp and counts. Anonymous requests are skipped and failures are
// logged, never surfaced: history is telemetry, not a search
// precondition.
func (s *Service) Record(ctx context.Context, workspaceID, userID, query string, resultCount int, searchType string) {
	if userID == "" {
		return
	}

	entry := &domhistory.Entry{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		Query:       query,
		ResultCount: resultCount,
		SearchType:  searchType,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.repo.Replace(ctx, entry); err != nil {
		metrics.HistoryWriteErrorsTotal.Inc()
		logger.FromContext(ctx).Warn("Failed to record search history",
			zap.String("workspace_id", workspaceID), zap.Error(err))
	}
}

// Recent returns the latest searches for (workspace, user) and the
// workspace's top tags. A tag lookup failure degrades to no
// suggestions.
func (s *Service) Recent(ctx context.Context, workspaceID, userID string) (*Recent, error) {
	entries, err := s.repo.List(ctx, workspaceID, userID, recentLimit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	tags, err := s.tags.TopTags(ctx, workspaceID, tagLimit)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to load tag suggestions",
			zap.String("workspace_id", workspaceID), zap.Error(err))
		tags = nil
	}

	return &Recent{Searches: entries, Tags: tags}, nil
}

// Delete removes a single entry. Deleting a missing id is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	return nil
}

// Clear removes all entries of (workspace, user). Idempotent.
func (s *Service) Clear(ctx context.Context, workspaceID, userID string) error {
	if err := s.repo.DeleteByWorkspace(ctx, workspaceID, userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
