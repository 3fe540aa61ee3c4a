package history

import (
	"context"
	"errors"
	"testing"
	"time"

	domhistory "github.com/canvashq/prism/internal/domain/history"
)

type mockRepo struct {
	replaced   []*domhistory.Entry
	replaceErr error
	entries    []domhistory.Entry
	listErr    error
	deletedIDs []string
	clearedFor [][2]string
}

func (m *mockRepo) Replace(_ context.Context, entry *domhistory.Entry) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced = append(m.replaced, entry)
	return nil
}

func (m *mockRepo) List(_ context.Context, _, _ string, _ int) ([]domhistory.Entry, error) {
	return m.entries, m.listErr
}

func (m *mockRepo) DeleteByID(_ context.Context, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockRepo) DeleteByWorkspace(_ context.Context, workspaceID, userID string) error {
	m.clearedFor = append(m.clearedFor, [2]string{workspaceID, userID})
	return nil
}

type mockTags struct {
	tags []string
	err  error
}

func (m *mockTags) TopTags(_ context.Context, _ string, _ int) ([]string, error) {
	return m.tags, m.err
}

func TestRecord(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockTags{})
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	svc.Record(context.Background(), "w1", "u1", "cats", 7, "semantic,text,visual")

	if len(repo.replaced) != 1 {
		t.Fatalf("replaced = %d entries, want 1", len(repo.replaced))
	}
	e := repo.replaced[0]
	if e.ID == "" {
		t.Error("entry ID empty, want generated uuid")
	}
	if e.WorkspaceID != "w1" || e.UserID != "u1" || e.Query != "cats" || e.ResultCount != 7 {
		t.Errorf("entry = %+v", e)
	}
	if !e.CreatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("CreatedAt = %v", e.CreatedAt)
	}
}

func TestRecordSkipsAnonymous(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockTags{})

	svc.Record(context.Background(), "w1", "", "cats", 7, "text")

	if len(repo.replaced) != 0 {
		t.Errorf("replaced = %d entries, want 0 for anonymous request", len(repo.replaced))
	}
}

func TestRecordSwallowsWriteError(t *testing.T) {
	repo := &mockRepo{replaceErr: errors.New("disk full")}
	svc := New(repo, &mockTags{})

	// Must not panic or propagate.
	svc.Record(context.Background(), "w1", "u1", "cats", 7, "text")
}

func TestRecent(t *testing.T) {
	repo := &mockRepo{entries: []domhistory.Entry{
		{ID: "h2", Query: "dogs"},
		{ID: "h1", Query: "cats"},
	}}
	tags := &mockTags{tags: []string{"animals", "pets"}}
	svc := New(repo, tags)

	got, err := svc.Recent(context.Background(), "w1", "u1")
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got.Searches) != 2 {
		t.Errorf("searches = %d, want 2", len(got.Searches))
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags = %d, want 2", len(got.Tags))
	}
}

func TestRecentTagFailureDegrades(t *testing.T) {
	repo := &mockRepo{entries: []domhistory.Entry{{ID: "h1"}}}
	svc := New(repo, &mockTags{err: errors.New("table missing")})

	got, err := svc.Recent(context.Background(), "w1", "u1")
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if got.Tags != nil {
		t.Errorf("tags = %v, want nil when tag lookup fails", got.Tags)
	}
}

func TestDeleteAndClear(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockTags{})

	if err := svc.Delete(context.Background(), "h1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := svc.Clear(context.Background(), "w1", "u1"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if len(repo.deletedIDs) != 1 || repo.deletedIDs[0] != "h1" {
		t.Errorf("deletedIDs = %v", repo.deletedIDs)
	}
	if len(repo.clearedFor) != 1 || repo.clearedFor[0] != [2]string{"w1", "u1"} {
		t.Errorf("clearedFor = %v", repo.clearedFor)
	}
}
