package search

import (
	"math"
	"reflect"
	"testing"

	domsearch "github.com/canvashq/prism/internal/domain/search"
)

func TestIsVisualSearch(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"red dress", true},
		{"photo of a cat", true},
		{"woman wearing hat", true},
		{"quarterly report", false},
		{"meeting notes", false},
	}

	for _, tt := range tests {
		ks := ExtractKeywords(tt.query)
		if got := isVisualSearch(ks); got != tt.want {
			t.Errorf("isVisualSearch(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestRankPDFPenaltyWithColorQuery(t *testing.T) {
	// A PDF with no visual evidence: the penalty drops it below the
	// cutoff and the color gate would exclude it anyway.
	in := []domsearch.Candidate{{
		ID:         "doc-1",
		DocumentID: "doc-1",
		MimeType:   "application/pdf",
		Similarity: 0.9,
		Title:      "catalog.pdf",
	}}

	out := rank(in, ExtractKeywords("red lingerie"), DefaultRankConfig())
	if len(out) != 0 {
		t.Fatalf("len = %d, want 0 (PDF with no color evidence excluded)", len(out))
	}
}

func TestRankMediaBoost(t *testing.T) {
	in := []domsearch.Candidate{{
		ID:         "img-1",
		DocumentID: "img-1",
		MimeType:   "image/jpeg",
		Similarity: 0.6,
		Description: "studio photo of a red evening dress on a mannequin, " +
			"red fabric detail close up",
	}}

	out := rank(in, ExtractKeywords("red dress"), DefaultRankConfig())
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if math.Abs(out[0].Similarity-0.66) > 1e-9 {
		t.Errorf("similarity = %v, want 0.66 after 1.1 boost", out[0].Similarity)
	}
}

func TestRankContentPenalty(t *testing.T) {
	in := []domsearch.Candidate{{
		ID:          "doc-1",
		DocumentID:  "doc-1",
		Similarity:  0.8,
		Description: "a financial spreadsheet",
	}}

	out := rank(in, ExtractKeywords("airpods"), DefaultRankConfig())
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if math.Abs(out[0].Similarity-0.48) > 1e-9 {
		t.Errorf("similarity = %v, want 0.48 after 0.6 penalty", out[0].Similarity)
	}
}

func TestRankSimilarityClamp(t *testing.T) {
	in := []domsearch.Candidate{{
		ID:          "img-1",
		DocumentID:  "img-1",
		MimeType:    "image/png",
		Similarity:  0.95,
		Description: "photo of a sunset",
	}}

	out := rank(in, ExtractKeywords("photo sunset"), DefaultRankConfig())
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].Similarity != 1.0 {
		t.Errorf("similarity = %v, want clamped to 1.0", out[0].Similarity)
	}
}

func TestRankCutoffBoundary(t *testing.T) {
	in := []domsearch.Candidate{
		{ID: "below", DocumentID: "below", Similarity: 0.349999, Description: "notes"},
		{ID: "exact", DocumentID: "exact", Similarity: 0.35, Description: "notes"},
	}

	out := rank(in, ExtractKeywords("notes"), DefaultRankConfig())
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].ID != "exact" {
		t.Errorf("survivor = %s, want the 0.35 candidate", out[0].ID)
	}
}

func TestRankIdempotent(t *testing.T) {
	// A non-visual query with matching content: the second pass applies
	// no multipliers and excludes nothing.
	in := []domsearch.Candidate{
		{ID: "a", DocumentID: "a", Similarity: 0.9, Description: "meeting notes from march"},
		{ID: "b", DocumentID: "b", Similarity: 0.6, Description: "notes on the budget"},
		{ID: "c", DocumentID: "c", Similarity: 0.4, Description: "old notes"},
	}
	ks := ExtractKeywords("notes")
	cfg := DefaultRankConfig()

	once := rank(in, ks, cfg)
	twice := rank(once, ks, cfg)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second rank pass changed the list:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestRankSortsDescending(t *testing.T) {
	in := []domsearch.Candidate{
		{ID: "a", DocumentID: "a", Similarity: 0.5, Description: "report one"},
		{ID: "b", DocumentID: "b", Similarity: 0.9, Description: "report two"},
		{ID: "c", DocumentID: "c", Similarity: 0.7, Description: "report three"},
	}

	out := rank(in, ExtractKeywords("report"), DefaultRankConfig())
	for i := 1; i < len(out); i++ {
		if out[i].Similarity > out[i-1].Similarity {
			t.Fatalf("not sorted descending at %d: %v", i, out)
		}
	}
}
