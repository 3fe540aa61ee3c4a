package search

import (
	"fmt"
	"strings"

	"github.com/canvashq/prism/internal/domain"
)

// Search parameter limits.
const (
	MaxQueryLength = 1024
	DefaultLimit   = 30
	MaxLimit       = 100
)

// Query is a validated, immutable search request.
type Query struct {
	text          string
	workspaceID   string
	modes         []Mode
	limit         int
	includeFrames bool
}

// NewQuery validates and normalizes search parameters.
// Defaults: modes=all requestable, limit=30, includeFrames=true.
// includeFrames is a pointer so an absent field defaults to true.
func NewQuery(
	text, workspaceID string,
	modes []Mode,
	limit int,
	includeFrames *bool,
) (Query, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Query{}, domain.ErrQueryRequired
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrBadRequest, MaxQueryLength)
	}
	if workspaceID == "" {
		return Query{}, domain.ErrWorkspaceRequired
	}
	if len(modes) == 0 {
		modes = DefaultModes()
	}
	for _, m := range modes {
		if !m.IsRequestable() {
			return Query{}, fmt.Errorf("%w: invalid search type %q", domain.ErrBadRequest, m)
		}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	frames := true
	if includeFrames != nil {
		frames = *includeFrames
	}

	return Query{
		text:          text,
		workspaceID:   workspaceID,
		modes:         modes,
		limit:         limit,
		includeFrames: frames,
	}, nil
}

// Text returns the trimmed query text.
func (q *Query) Text() string { return q.text }

// WorkspaceID returns the workspace scope.
func (q *Query) WorkspaceID() string { return q.workspaceID }

// Modes returns the requested retrieval modes.
func (q *Query) Modes() []Mode { return q.modes }

// HasMode reports whether the given mode was requested.
func (q *Query) HasMode(m Mode) bool {
	for _, mm := range q.modes {
		if mm == m {
			return true
		}
	}
	return false
}

// Limit returns the maximum results per source.
func (q *Query) Limit() int { return q.limit }

// IncludeFrames reports whether transcript snippets should be searched.
func (q *Query) IncludeFrames() bool { return q.includeFrames }
