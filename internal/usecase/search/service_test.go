package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/canvashq/prism/internal/domain"
	domsearch "github.com/canvashq/prism/internal/domain/search"
)

type mockPrimary struct {
	semanticHits []domsearch.Candidate
	semanticErr  error
	visualHits   []domsearch.Candidate
	visualErr    error
	textHits     []domsearch.Candidate
	textErr      error
}

func (m *mockPrimary) SearchSemantic(_ context.Context, _ string, _ []float32, _ int) ([]domsearch.Candidate, error) {
	return m.semanticHits, m.semanticErr
}

func (m *mockPrimary) SearchVisual(_ context.Context, _ string, _ []float32, _ int) ([]domsearch.Candidate, error) {
	return m.visualHits, m.visualErr
}

func (m *mockPrimary) SearchText(_ context.Context, _ string, _ string, _ int) ([]domsearch.Candidate, error) {
	return m.textHits, m.textErr
}

type mockFallback struct {
	hits []domsearch.Candidate
	err  error
}

func (m *mockFallback) SearchFallback(_ context.Context, _ string, _ string, _ int) ([]domsearch.Candidate, error) {
	return m.hits, m.err
}

type mockSource struct {
	hits []domsearch.Candidate
	err  error
}

func (m *mockSource) Search(_ context.Context, _ string, _ string, _ int) ([]domsearch.Candidate, error) {
	return m.hits, m.err
}

type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector}, nil
}

type mockSigner struct{}

func (mockSigner) SignURL(path string) (string, error) {
	return "https://media.test/" + path + "?signature=x", nil
}

type recordedCall struct {
	workspaceID string
	userID      string
	query       string
	resultCount int
	searchType  string
}

type mockRecorder struct {
	calls []recordedCall
}

func (m *mockRecorder) Record(_ context.Context, workspaceID, userID, query string, resultCount int, searchType string) {
	m.calls = append(m.calls, recordedCall{workspaceID, userID, query, resultCount, searchType})
}

func newTestService(
	primary *mockPrimary, fallback *mockFallback,
	scratches, notes, transcripts *mockSource,
	embed *mockEmbedder, recorder *mockRecorder,
) *Service {
	return New(
		primary, fallback, scratches, notes, transcripts,
		embed, mockSigner{}, recorder, 3*time.Second,
	)
}

func mustQuery(t *testing.T, text string) *domsearch.Query {
	t.Helper()
	q, err := domsearch.NewQuery(text, "ws-1", nil, 0, nil)
	if err != nil {
		t.Fatalf("NewQuery(%q) error = %v", text, err)
	}
	return &q
}

func TestSearchPrimaryPath(t *testing.T) {
	primary := &mockPrimary{
		semanticHits: []domsearch.Candidate{
			{ID: "d1", DocumentID: "d1", Similarity: 0.88, Title: "AirPods Max",
				Description: "Apple AirPods Max over-ear headphones",
				SourceKind:  domsearch.SourceDocument, Mode: domsearch.ModeSemantic},
		},
		textHits: []domsearch.Candidate{
			{ID: "d1", DocumentID: "d1", Similarity: 0.5, Title: "AirPods Max",
				Description: "Apple AirPods Max over-ear headphones",
				SourceKind:  domsearch.SourceDocument, Mode: domsearch.ModeText},
		},
	}
	scratches := &mockSource{hits: []domsearch.Candidate{
		{ID: "s1", DocumentID: "s1", Title: "airpods sketch", SourceKind: domsearch.SourceScratch},
	}}
	recorder := &mockRecorder{}

	svc := newTestService(primary, &mockFallback{}, scratches, &mockSource{}, &mockSource{},
		&mockEmbedder{vector: []float32{0.1, 0.2}}, recorder)

	resp, err := svc.Search(context.Background(), mustQuery(t, "airpods"), "u1")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if !resp.HasSemantic {
		t.Error("HasSemantic = false, want true")
	}
	if resp.Fallback {
		t.Error("Fallback = true, want false")
	}

	// Duplicate documentId collapses to the max-similarity copy.
	var docHits int
	for _, c := range resp.Results {
		if c.SourceKind == domsearch.SourceDocument {
			docHits++
			if c.Similarity != 0.88 {
				t.Errorf("document similarity = %v, want 0.88 (dedup keeps max)", c.Similarity)
			}
		}
	}
	if docHits != 1 {
		t.Errorf("document hits = %d, want 1 after dedup", docHits)
	}

	// Scratch hits carry the primary-path weight and skip ranking.
	found := false
	for _, c := range resp.Results {
		if c.SourceKind == domsearch.SourceScratch {
			found = true
			if c.Similarity != 0.75 {
				t.Errorf("scratch similarity = %v, want 0.75", c.Similarity)
			}
		}
	}
	if !found {
		t.Error("scratch hit missing from fused results")
	}

	if len(recorder.calls) != 1 {
		t.Fatalf("recorder calls = %d, want 1", len(recorder.calls))
	}
	call := recorder.calls[0]
	if call.workspaceID != "ws-1" || call.userID != "u1" || call.query != "airpods" {
		t.Errorf("recorded call = %+v", call)
	}
	if call.resultCount != resp.Total {
		t.Errorf("recorded resultCount = %d, want %d", call.resultCount, resp.Total)
	}
}

func TestSearchEmbeddingFailureFallsBack(t *testing.T) {
	fallback := &mockFallback{hits: []domsearch.Candidate{
		{ID: "d1", DocumentID: "d1", Title: "cat photo album",
			SourceKind: domsearch.SourceDocument, Mode: domsearch.ModeText},
	}}
	notes := &mockSource{hits: []domsearch.Candidate{
		{ID: "n1", DocumentID: "n1", Title: "cats", SourceKind: domsearch.SourceNote},
	}}
	recorder := &mockRecorder{}

	svc := newTestService(&mockPrimary{}, fallback, &mockSource{}, notes, &mockSource{},
		&mockEmbedder{err: errors.New("provider down")}, recorder)

	resp, err := svc.Search(context.Background(), mustQuery(t, "cats"), "u1")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if resp.HasSemantic {
		t.Error("HasSemantic = true, want false")
	}
	if resp.SearchType != "text_fallback" {
		t.Errorf("SearchType = %q, want text_fallback", resp.SearchType)
	}
	if resp.Total != 2 {
		t.Fatalf("Total = %d, want 2", resp.Total)
	}

	for _, c := range resp.Results {
		switch c.SourceKind {
		case domsearch.SourceDocument:
			if c.Similarity != 0.5 {
				t.Errorf("fallback document similarity = %v, want 0.5", c.Similarity)
			}
		case domsearch.SourceNote:
			if c.Similarity != 0.7 {
				t.Errorf("fallback note similarity = %v, want 0.7", c.Similarity)
			}
		}
	}

	if len(recorder.calls) != 1 || recorder.calls[0].searchType != "text_fallback" {
		t.Errorf("recorder calls = %+v, want one text_fallback entry", recorder.calls)
	}
}

func TestSearchPrimaryFailureFallsBack(t *testing.T) {
	backendErr := errors.New("index unreachable")
	primary := &mockPrimary{semanticErr: backendErr, visualErr: backendErr, textErr: backendErr}
	fallback := &mockFallback{hits: []domsearch.Candidate{
		{ID: "d1", DocumentID: "d1", Title: "report", SourceKind: domsearch.SourceDocument},
	}}

	svc := newTestService(primary, fallback, &mockSource{}, &mockSource{}, &mockSource{},
		&mockEmbedder{vector: []float32{0.1}}, &mockRecorder{})

	resp, err := svc.Search(context.Background(), mustQuery(t, "report"), "u1")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.SearchType != "text_fallback" {
		t.Errorf("SearchType = %q, want text_fallback", resp.SearchType)
	}
}

func TestSearchAuxiliaryFailureIsNotFatal(t *testing.T) {
	primary := &mockPrimary{textHits: []domsearch.Candidate{
		{ID: "d1", DocumentID: "d1", Similarity: 0.9, Description: "weekly report",
			SourceKind: domsearch.SourceDocument},
	}}
	broken := &mockSource{err: errors.New("table locked")}

	svc := newTestService(primary, &mockFallback{}, broken, broken, broken,
		&mockEmbedder{vector: []float32{0.1}}, &mockRecorder{})

	resp, err := svc.Search(context.Background(), mustQuery(t, "report"), "u1")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("Total = %d, want 1 (primary hit survives aux failures)", resp.Total)
	}
}

func TestSearchSignsPreviewURLs(t *testing.T) {
	primary := &mockPrimary{textHits: []domsearch.Candidate{
		{ID: "d1", DocumentID: "d1", Similarity: 0.9, Description: "weekly report",
			StoragePath: "items/d1/preview.jpg", SourceKind: domsearch.SourceDocument},
	}}

	svc := newTestService(primary, &mockFallback{}, &mockSource{}, &mockSource{}, &mockSource{},
		&mockEmbedder{vector: []float32{0.1}}, &mockRecorder{})

	resp, err := svc.Search(context.Background(), mustQuery(t, "report"), "u1")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("len = %d, want 1", len(resp.Results))
	}
	if resp.Results[0].PreviewURL == "" {
		t.Error("PreviewURL empty, want signed URL")
	}
}

func TestSearchTotalBackendFailure(t *testing.T) {
	backendErr := errors.New("index unreachable")
	primary := &mockPrimary{semanticErr: backendErr, visualErr: backendErr, textErr: backendErr}
	fallback := &mockFallback{err: errors.New("database locked")}

	svc := newTestService(primary, fallback, &mockSource{}, &mockSource{}, &mockSource{},
		&mockEmbedder{vector: []float32{0.1}}, &mockRecorder{})

	if _, err := svc.Search(context.Background(), mustQuery(t, "report"), "u1"); err == nil {
		t.Fatal("Search() error = nil, want error when both paths fail")
	}
}
