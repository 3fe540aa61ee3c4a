package search

import (
	"context"

	"github.com/canvashq/prism/internal/domain"
	domsearch "github.com/canvashq/prism/internal/domain/search"
)

// PrimarySearcher is the hybrid-search contract over the main item
// index. KNN similarity and normalized BM25 scores are both in [0,1].
type PrimarySearcher interface {
	SearchSemantic(ctx context.Context, workspaceID string, vector []float32, k int) ([]domsearch.Candidate, error)
	SearchVisual(ctx context.Context, workspaceID string, vector []float32, k int) ([]domsearch.Candidate, error)
	SearchText(ctx context.Context, workspaceID, query string, topK int) ([]domsearch.Candidate, error)
}

// FallbackSearcher is the text-only substring search over the mirrored
// item table, used when the primary index is unreachable.
type FallbackSearcher interface {
	SearchFallback(ctx context.Context, workspaceID, query string, limit int) ([]domsearch.Candidate, error)
}

// SourceSearcher is the shared contract of the auxiliary collections
// (scratches, notes, transcript segments).
type SourceSearcher interface {
	Search(ctx context.Context, workspaceID, query string, limit int) ([]domsearch.Candidate, error)
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// URLSigner produces short-lived signed URLs for storage paths.
type URLSigner interface {
	SignURL(storagePath string) (string, error)
}

// Recorder persists executed queries for the recent-searches feature.
// Implementations must never fail the search; errors stay internal.
type Recorder interface {
	Record(ctx context.Context, workspaceID, userID, query string, resultCount int, searchType string)
}
