package search

import (
	"strings"

	domsearch "github.com/canvashq/prism/internal/domain/search"
	"github.com/canvashq/prism/internal/metrics"
)

// visualSearchTokens mark a query as visual intent even without colors.
var visualSearchTokens = map[string]struct{}{
	"photo": {}, "image": {}, "picture": {}, "video": {},
	"wearing": {}, "person": {}, "woman": {}, "man": {},
}

// RankConfig holds the precision-ranking heuristics. The values are
// deliberately a table rather than inline literals so they stay
// auditable and testable in isolation.
type RankConfig struct {
	// MinSimilarity is the global cutoff; candidates below it are dropped.
	MinSimilarity float64
	// PDFPenalty is applied to PDF items on visual-intent queries.
	PDFPenalty float64
	// MediaBoost is applied to image/video items on visual-intent queries.
	MediaBoost float64
	// ContentPenalty is applied when requested objects find no evidence.
	ContentPenalty float64
}

// DefaultRankConfig returns the production heuristics.
func DefaultRankConfig() RankConfig {
	return RankConfig{
		MinSimilarity:  0.35,
		PDFPenalty:     0.3,
		MediaBoost:     1.1,
		ContentPenalty: 0.6,
	}
}

// SourceWeights is the fixed base similarity per auxiliary source. The
// weights differ by path: a successful hybrid run signals a richer
// result set worth trusting slightly more.
type SourceWeights struct {
	Scratch    float64
	Note       float64
	Transcript float64
	// FallbackPrimary is the fixed score for substring hits on the
	// text-only fallback path.
	FallbackPrimary float64
}

// PrimaryPathWeights apply when the hybrid search succeeded.
func PrimaryPathWeights() SourceWeights {
	return SourceWeights{Scratch: 0.75, Note: 0.75, Transcript: 0.8, FallbackPrimary: 0.5}
}

// FallbackPathWeights apply when retrieval degraded to substring search.
func FallbackPathWeights() SourceWeights {
	return SourceWeights{Scratch: 0.7, Note: 0.7, Transcript: 0.7, FallbackPrimary: 0.5}
}

// isVisualSearch reports whether the query carries visual intent:
// either a color was named or a visual token appears anywhere.
func isVisualSearch(ks KeywordSet) bool {
	if ks.HasColors() {
		return true
	}
	for _, tok := range ks.All {
		if _, ok := visualSearchTokens[tok]; ok {
			return true
		}
	}
	return false
}

// rank applies the precision heuristics to the deduplicated primary
// stream. Color mismatch is a hard exclusion; content mismatch is a
// score penalty. Survivors keep their adjusted similarity and the
// result is sorted descending. Ranking an already-ranked list is a
// no-op.
func rank(candidates []domsearch.Candidate, ks KeywordSet, cfg RankConfig) []domsearch.Candidate {
	visual := isVisualSearch(ks)

	out := make([]domsearch.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if visual {
			switch {
			case isPDF(c.MimeType):
				c.Similarity *= cfg.PDFPenalty
			case isImageOrVideo(c.MimeType):
				c.Similarity *= cfg.MediaBoost
			}
		}

		if ks.HasColors() && !matchesColor(&c, ks.Colors, ks.Objects) {
			metrics.RankedExclusionsTotal.WithLabelValues("color_mismatch").Inc()
			continue
		}
		if ks.HasObjects() && !matchesContent(&c, ks.Objects) {
			c.Similarity *= cfg.ContentPenalty
		}

		if c.Similarity > 1 {
			c.Similarity = 1
		}
		if c.Similarity < cfg.MinSimilarity {
			metrics.RankedExclusionsTotal.WithLabelValues("below_cutoff").Inc()
			continue
		}

		out = append(out, c)
	}

	sortBySimilarity(out)
	return out
}

func isPDF(mimeType string) bool {
	return mimeType == "application/pdf"
}

func isImageOrVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || strings.HasPrefix(mimeType, "video/")
}
