package signer

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func newTestSigner(now time.Time) *Signer {
	s := New("test-secret", "https://media.example.com", 15*time.Minute)
	s.now = func() time.Time { return now }
	return s
}

func TestSignURL(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSigner(now)

	signed, err := s.SignURL("workspaces/ws-1/items/doc-1/preview.jpg")
	if err != nil {
		t.Fatalf("SignURL() error = %v", err)
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("signed URL does not parse: %v", err)
	}
	if u.Host != "media.example.com" {
		t.Errorf("host = %q, want media.example.com", u.Host)
	}
	if !strings.HasPrefix(u.Path, "/workspaces/ws-1/") {
		t.Errorf("path = %q, want storage path prefix", u.Path)
	}

	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	if err != nil {
		t.Fatalf("expires param: %v", err)
	}
	wantExpires := now.Add(15 * time.Minute).Unix()
	if expires != wantExpires {
		t.Errorf("expires = %d, want %d", expires, wantExpires)
	}

	if !s.Verify(u.Path, expires, u.Query().Get("signature")) {
		t.Error("Verify() = false for freshly signed URL")
	}
}

func TestSignURLEmptyPath(t *testing.T) {
	s := newTestSigner(time.Now())

	signed, err := s.SignURL("")
	if err != nil {
		t.Fatalf("SignURL() error = %v", err)
	}
	if signed != "" {
		t.Errorf("SignURL(\"\") = %q, want empty", signed)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSigner(now)

	signed, err := s.SignURL("items/doc-1/preview.jpg")
	if err != nil {
		t.Fatalf("SignURL() error = %v", err)
	}
	u, _ := url.Parse(signed)
	expires, _ := strconv.ParseInt(u.Query().Get("expires"), 10, 64)

	s.now = func() time.Time { return now.Add(16 * time.Minute) }
	if s.Verify(u.Path, expires, u.Query().Get("signature")) {
		t.Error("Verify() = true for expired signature")
	}
}

func TestVerifyRejectsTamperedPath(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestSigner(now)

	signed, err := s.SignURL("items/doc-1/preview.jpg")
	if err != nil {
		t.Fatalf("SignURL() error = %v", err)
	}
	u, _ := url.Parse(signed)
	expires, _ := strconv.ParseInt(u.Query().Get("expires"), 10, 64)

	if s.Verify("/items/doc-2/preview.jpg", expires, u.Query().Get("signature")) {
		t.Error("Verify() = true for tampered path")
	}
}
