package search

// Candidate is one normalized retrieval hit, regardless of source
// collection. DocumentID is the canonical identity used for dedup;
// non-document sources set it equal to their own ID. Similarity is the
// fusion and ranking currency and stays clamped to [0,1].
type Candidate struct {
	ID         string
	DocumentID string

	Title       string
	Description string

	MimeType       string
	Tags           []string
	SearchableText string
	Analysis       *DetailedAnalysis

	Similarity float64
	SourceKind SourceKind
	Mode       Mode

	StoragePath  string
	PreviewURL   string
	ThumbnailURL string
	VideoURL     string
	StartTime    float64
}

// ClampSimilarity forces Similarity into [0,1].
func (c *Candidate) ClampSimilarity() {
	if c.Similarity < 0 {
		c.Similarity = 0
	}
	if c.Similarity > 1 {
		c.Similarity = 1
	}
}

// HasTextMetadata reports whether the candidate carries any free-text
// evidence at all: description, summary, tags, or searchable text.
// Title alone does not count.
func (c *Candidate) HasTextMetadata() bool {
	if c.Description != "" || c.SearchableText != "" || len(c.Tags) > 0 {
		return true
	}
	return c.Analysis != nil && c.Analysis.Summary != ""
}
