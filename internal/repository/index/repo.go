// Package index implements workspace-scoped hybrid retrieval over the
// Redis FT index of primary items.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/canvashq/prism/internal/db"
	domsearch "github.com/canvashq/prism/internal/domain/search"
)

// Hash fields stored per indexed item. The vector and searchable text are
// written by the ingestion pipeline; this repository only reads.
var returnFields = []string{
	"document_id", "title", "description", "searchable",
	"mime_type", "tags", "analysis", "storage_path", "__vector_score",
}

// store is the consumer interface for index search operations.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo implements the primary-item search contract over Redis.
type Repo struct {
	store     store
	keyPrefix string
	vectorDim int
}

// New creates an index repository. keyPrefix namespaces all Redis keys.
func New(s store, keyPrefix string, vectorDim int) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix, vectorDim: vectorDim}
}

func (r *Repo) indexName() string {
	return r.keyPrefix + "items:idx"
}

func (r *Repo) itemPrefix() string {
	return r.keyPrefix + "item:"
}

// EnsureIndex creates the FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("probe index: %w", err)
	}
	if exists {
		return nil
	}
	return r.createIndex(ctx)
}

// RecreateIndex drops the FT index and builds it from scratch. Used after
// schema or embedding dimension changes; index hashes are re-read in place.
func (r *Repo) RecreateIndex(ctx context.Context) error {
	if err := r.store.DropIndex(ctx, r.indexName()); err != nil && err != db.ErrIndexNotFound {
		return fmt.Errorf("drop index: %w", err)
	}
	return r.createIndex(ctx)
}

func (r *Repo) createIndex(ctx context.Context) error {
	def := &db.IndexDefinition{
		Name:     r.indexName(),
		Prefixes: []string{r.itemPrefix()},
		Fields: []db.IndexField{
			{Name: "workspace", Type: db.IndexFieldTag},
			{Name: "media_class", Type: db.IndexFieldTag},
			{Name: "searchable", Type: db.IndexFieldText},
			{
				Name:              "vector",
				Type:              db.IndexFieldVector,
				VectorDim:         r.vectorDim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           32,
				VectorEFConstruct: 400,
			},
		},
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		if err == db.ErrIndexExists {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// SearchSemantic runs KNN over all items of the workspace.
// Candidate similarity is cosine similarity in [0,1].
func (r *Repo) SearchSemantic(
	ctx context.Context, workspaceID string, vector []float32, k int,
) ([]domsearch.Candidate, error) {
	return r.searchKNN(ctx, workspaceID, vector, k, nil, domsearch.ModeSemantic)
}

// SearchVisual runs KNN restricted to image and video items.
func (r *Repo) SearchVisual(
	ctx context.Context, workspaceID string, vector []float32, k int,
) ([]domsearch.Candidate, error) {
	return r.searchKNN(ctx, workspaceID, vector, k, []string{"image", "video"}, domsearch.ModeVisual)
}

func (r *Repo) searchKNN(
	ctx context.Context, workspaceID string, vector []float32, k int,
	mediaClasses []string, mode domsearch.Mode,
) ([]domsearch.Candidate, error) {
	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Scope:        db.Scope{Workspace: workspaceID, MediaClasses: mediaClasses},
		Vector:       vector,
		K:            k,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return r.parseEntries(sr, mode), nil
}

// SearchText runs BM25 over item searchable text. Scores are normalized
// to [0,1] by the maximum score of the result set.
func (r *Repo) SearchText(
	ctx context.Context, workspaceID, query string, topK int,
) ([]domsearch.Candidate, error) {
	q := &db.TextQuery{
		IndexName:    r.indexName(),
		Scope:        db.Scope{Workspace: workspaceID},
		Query:        query,
		TopK:         topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}

	normalizeScores(sr)
	return r.parseEntries(sr, domsearch.ModeText), nil
}

// normalizeScores rescales raw BM25 scores to [0,1] by the max score.
func normalizeScores(sr *db.SearchResult) {
	if sr == nil || len(sr.Entries) == 0 {
		return
	}
	maxScore := sr.Entries[0].Score
	for _, e := range sr.Entries {
		if e.Score > maxScore {
			maxScore = e.Score
		}
	}
	if maxScore <= 0 {
		return
	}
	for i := range sr.Entries {
		sr.Entries[i].Score /= maxScore
	}
}

func (r *Repo) parseEntries(sr *db.SearchResult, mode domsearch.Mode) []domsearch.Candidate {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	prefix := r.itemPrefix()
	out := make([]domsearch.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, prefix)
		out = append(out, parseEntry(id, entry, mode))
	}
	return out
}

func parseEntry(id string, entry db.SearchEntry, mode domsearch.Mode) domsearch.Candidate {
	c := domsearch.Candidate{
		ID:         id,
		DocumentID: id,
		Similarity: entry.Score,
		SourceKind: domsearch.SourceDocument,
		Mode:       mode,
	}

	for k, v := range entry.Fields {
		switch k {
		case "document_id":
			if v != "" {
				c.DocumentID = v
			}
		case "title":
			c.Title = v
		case "description":
			c.Description = v
		case "searchable":
			c.SearchableText = v
		case "mime_type":
			c.MimeType = v
		case "storage_path":
			c.StoragePath = v
		case "tags":
			c.Tags = parseTags(v)
		case "analysis":
			c.Analysis = parseAnalysis(v)
		}
	}

	c.ClampSimilarity()
	return c
}

func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil
	}
	return tags
}

func parseAnalysis(raw string) *domsearch.DetailedAnalysis {
	if raw == "" {
		return nil
	}
	var a domsearch.DetailedAnalysis
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil
	}
	if a.IsEmpty() {
		return nil
	}
	return &a
}
