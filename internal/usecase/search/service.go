// Package search implements the cross-source search pipeline: keyword
// extraction, parallel multi-source retrieval, deduplication, precision
// ranking, and result fusion.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	domsearch "github.com/canvashq/prism/internal/domain/search"
	"github.com/canvashq/prism/internal/logger"
	"github.com/canvashq/prism/internal/metrics"
)

// Response is the fused search result. SearchType is set only on the
// fallback path; SearchTypes and HasSemantic describe the primary path.
type Response struct {
	Results     []domsearch.Candidate
	Query       string
	SearchTypes []domsearch.Mode
	SearchType  string
	Total       int
	HasSemantic bool
	Fallback    bool
}

// Service orchestrates one search request end to end.
type Service struct {
	primary     PrimarySearcher
	fallback    FallbackSearcher
	scratches   SourceSearcher
	notes       SourceSearcher
	transcripts SourceSearcher
	embed       Embedder
	signer      URLSigner
	recorder    Recorder

	rankCfg       RankConfig
	sourceTimeout time.Duration
}

// New creates a search service.
func New(
	primary PrimarySearcher,
	fallback FallbackSearcher,
	scratches, notes, transcripts SourceSearcher,
	embed Embedder,
	signer URLSigner,
	recorder Recorder,
	sourceTimeout time.Duration,
) *Service {
	return &Service{
		primary:       primary,
		fallback:      fallback,
		scratches:     scratches,
		notes:         notes,
		transcripts:   transcripts,
		embed:         embed,
		signer:        signer,
		recorder:      recorder,
		rankCfg:       DefaultRankConfig(),
		sourceTimeout: sourceTimeout,
	}
}

// Search runs the full pipeline for one validated query. Auxiliary
// source failures degrade to empty streams; only a total failure of
// both the primary index and the fallback table is returned as an
// error.
func (s *Service) Search(ctx context.Context, q *domsearch.Query, userID string) (*Response, error) {
	log := logger.FromContext(ctx)
	ks := ExtractKeywords(q.Text())

	vector := s.embedQuery(ctx, q, log)
	hasSemantic := vector != nil

	var (
		wg sync.WaitGroup

		primaryHits []domsearch.Candidate
		primaryErr  error
		scratchHits []domsearch.Candidate
		noteHits    []domsearch.Candidate
		segmentHits []domsearch.Candidate
	)

	// Primary and auxiliary sources are independent reads; fan out so
	// one slow source does not stall the aggregate.
	needsEmbedding := q.HasMode(domsearch.ModeSemantic) || q.HasMode(domsearch.ModeVisual)
	usePrimaryIndex := hasSemantic || !needsEmbedding

	if usePrimaryIndex {
		wg.Add(1)
		go func() {
			defer wg.Done()
			primaryHits, primaryErr = s.searchPrimary(ctx, q, vector)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		scratchHits = s.searchAux(ctx, "scratches", s.scratches, q)
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		noteHits = s.searchAux(ctx, "notes", s.notes, q)
	}()
	if q.IncludeFrames() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			segmentHits = s.searchAux(ctx, "transcripts", s.transcripts, q)
		}()
	}
	wg.Wait()

	// A lost embedding or a dead index both degrade to the text-only
	// fallback over the mirrored item table.
	if !usePrimaryIndex || primaryErr != nil {
		if primaryErr != nil {
			log.Warn("Primary search failed, falling back to text search", zap.Error(primaryErr))
		}
		return s.respondFallback(ctx, q, userID, scratchHits, noteHits, segmentHits)
	}

	metrics.SearchRequestsTotal.WithLabelValues("primary").Inc()

	weights := PrimaryPathWeights()
	primaryHits = dedupByDocument(primaryHits)
	primaryHits = rank(primaryHits, ks, s.rankCfg)

	results := fuse(
		primaryHits,
		applyWeight(scratchHits, weights.Scratch),
		applyWeight(noteHits, weights.Note),
		applyWeight(segmentHits, weights.Transcript),
	)
	s.signPreviews(results, log)

	resp := &Response{
		Results:     results,
		Query:       q.Text(),
		SearchTypes: q.Modes(),
		Total:       len(results),
		HasSemantic: hasSemantic,
	}
	s.recordHistory(ctx, q, userID, resp.Total, searchTypeLabel(q.Modes()))
	return resp, nil
}

// embedQuery obtains the query vector when a vector mode was requested.
// Failure is recoverable: the request degrades to text retrieval.
func (s *Service) embedQuery(ctx context.Context, q *domsearch.Query, log *zap.Logger) []float32 {
	if !q.HasMode(domsearch.ModeSemantic) && !q.HasMode(domsearch.ModeVisual) {
		return nil
	}

	result, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		log.Warn("Query embedding failed, semantic search disabled", zap.Error(err))
		return nil
	}
	return result.Embedding
}

// searchPrimary runs the requested modes against the hybrid index and
// merges their hits. It errors only when every attempted call failed.
func (s *Service) searchPrimary(
	ctx context.Context, q *domsearch.Query, vector []float32,
) ([]domsearch.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.SourceSearchDuration.WithLabelValues("primary").Observe(time.Since(start).Seconds())
	}()

	var (
		hits      []domsearch.Candidate
		attempted int
		lastErr   error
	)
	run := func(fn func() ([]domsearch.Candidate, error)) {
		attempted++
		got, err := fn()
		if err != nil {
			lastErr = err
			return
		}
		hits = append(hits, got...)
	}

	if vector != nil && q.HasMode(domsearch.ModeSemantic) {
		run(func() ([]domsearch.Candidate, error) {
			return s.primary.SearchSemantic(ctx, q.WorkspaceID(), vector, q.Limit())
		})
	}
	if vector != nil && q.HasMode(domsearch.ModeVisual) {
		run(func() ([]domsearch.Candidate, error) {
			return s.primary.SearchVisual(ctx, q.WorkspaceID(), vector, q.Limit())
		})
	}
	if q.HasMode(domsearch.ModeText) {
		run(func() ([]domsearch.Candidate, error) {
			return s.primary.SearchText(ctx, q.WorkspaceID(), q.Text(), q.Limit())
		})
	}

	if attempted > 0 && len(hits) == 0 && lastErr != nil {
		metrics.SourceSearchErrorsTotal.WithLabelValues("primary").Inc()
		return nil, lastErr
	}
	return hits, nil
}

// searchAux runs one auxiliary source with a bounded timeout. Failures
// and timeouts count as zero results, never as request errors.
func (s *Service) searchAux(
	ctx context.Context, name string, src SourceSearcher, q *domsearch.Query,
) []domsearch.Candidate {
	ctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	start := time.Now()
	hits, err := src.Search(ctx, q.WorkspaceID(), q.Text(), q.Limit())
	metrics.SourceSearchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SourceSearchErrorsTotal.WithLabelValues(name).Inc()
		logger.FromContext(ctx).Warn("Auxiliary search failed",
			zap.String("source", name), zap.Error(err))
		return nil
	}
	return hits
}

// respondFallback builds the degraded response: substring matches over
// the item mirror at a fixed score, auxiliary hits at the fallback
// weights, no precision ranking.
func (s *Service) respondFallback(
	ctx context.Context, q *domsearch.Query, userID string,
	scratchHits, noteHits, segmentHits []domsearch.Candidate,
) (*Response, error) {
	metrics.SearchRequestsTotal.WithLabelValues("text_fallback").Inc()
	weights := FallbackPathWeights()

	ctxFb, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	itemHits, err := s.fallback.SearchFallback(ctxFb, q.WorkspaceID(), q.Text(), q.Limit())
	if err != nil {
		metrics.SourceSearchErrorsTotal.WithLabelValues("fallback").Inc()
		return nil, err
	}

	results := fuse(
		applyWeight(itemHits, weights.FallbackPrimary),
		applyWeight(scratchHits, weights.Scratch),
		applyWeight(noteHits, weights.Note),
		applyWeight(segmentHits, weights.Transcript),
	)
	s.signPreviews(results, logger.FromContext(ctx))

	resp := &Response{
		Results:    results,
		Query:      q.Text(),
		SearchType: "text_fallback",
		Total:      len(results),
		Fallback:   true,
	}
	s.recordHistory(ctx, q, userID, resp.Total, "text_fallback")
	return resp, nil
}

// signPreviews resolves signed preview URLs for candidates carrying a
// storage path. Enrichment only: signing failures leave the URL empty.
func (s *Service) signPreviews(candidates []domsearch.Candidate, log *zap.Logger) {
	var wg sync.WaitGroup
	for i := range candidates {
		if candidates[i].StoragePath == "" || candidates[i].PreviewURL != "" {
			continue
		}
		wg.Add(1)
		go func(c *domsearch.Candidate) {
			defer wg.Done()
			url, err := s.signer.SignURL(c.StoragePath)
			if err != nil {
				log.Warn("Preview URL signing failed",
					zap.String("id", c.ID), zap.Error(err))
				return
			}
			c.PreviewURL = url
		}(&candidates[i])
	}
	wg.Wait()
}

// recordHistory persists the executed query. Best effort: the recorder
// swallows its own failures and skips anonymous requests.
func (s *Service) recordHistory(ctx context.Context, q *domsearch.Query, userID string, total int, searchType string) {
	s.recorder.Record(ctx, q.WorkspaceID(), userID, q.Text(), total, searchType)
}

func searchTypeLabel(modes []domsearch.Mode) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}
