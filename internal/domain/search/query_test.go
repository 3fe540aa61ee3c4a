package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/canvashq/prism/internal/domain"
)

func TestNewQueryDefaults(t *testing.T) {
	q, err := NewQuery("  cats  ", "ws-1", nil, 0, nil)
	if err != nil {
		t.Fatalf("NewQuery() error = %v", err)
	}

	if q.Text() != "cats" {
		t.Errorf("Text() = %q, want trimmed %q", q.Text(), "cats")
	}
	if q.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", q.Limit(), DefaultLimit)
	}
	if len(q.Modes()) != 3 {
		t.Errorf("Modes() = %v, want all requestable modes", q.Modes())
	}
	if !q.IncludeFrames() {
		t.Error("IncludeFrames() = false, want true by default")
	}
}

func TestNewQueryValidation(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		workspaceID string
		modes       []Mode
		wantErr     error
	}{
		{"empty query", "", "ws-1", nil, domain.ErrQueryRequired},
		{"whitespace query", "   ", "ws-1", nil, domain.ErrQueryRequired},
		{"missing workspace", "cats", "", nil, domain.ErrWorkspaceRequired},
		{"too long", strings.Repeat("a", MaxQueryLength+1), "ws-1", nil, domain.ErrBadRequest},
		{"transcript not requestable", "cats", "ws-1", []Mode{ModeTranscript}, domain.ErrBadRequest},
		{"unknown mode", "cats", "ws-1", []Mode{"fuzzy"}, domain.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQuery(tt.text, tt.workspaceID, tt.modes, 0, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewQuery() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewQueryLimitClamp(t *testing.T) {
	q, err := NewQuery("cats", "ws-1", nil, MaxLimit+50, nil)
	if err != nil {
		t.Fatalf("NewQuery() error = %v", err)
	}
	if q.Limit() != MaxLimit {
		t.Errorf("Limit() = %d, want clamped to %d", q.Limit(), MaxLimit)
	}
}

func TestNewQueryIncludeFramesExplicit(t *testing.T) {
	off := false
	q, err := NewQuery("cats", "ws-1", nil, 0, &off)
	if err != nil {
		t.Fatalf("NewQuery() error = %v", err)
	}
	if q.IncludeFrames() {
		t.Error("IncludeFrames() = true, want false when explicitly disabled")
	}
}
