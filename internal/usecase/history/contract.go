package history

import (
	"context"

	domhistory "github.com/canvashq/prism/internal/domain/history"
)

// Repository is the storage contract for search history.
type Repository interface {
	Replace(ctx context.Context, entry *domhistory.Entry) error
	List(ctx context.Context, workspaceID, userID string, limit int) ([]domhistory.Entry, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByWorkspace(ctx context.Context, workspaceID, userID string) error
}

// TagReader surfaces the most frequent tags of a workspace's items.
type TagReader interface {
	TopTags(ctx context.Context, workspaceID string, limit int) ([]string, error)
}
