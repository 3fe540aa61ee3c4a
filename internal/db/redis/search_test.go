package redis

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/canvashq/prism/internal/db"
)

func TestBuildScopeFilter(t *testing.T) {
	tests := []struct {
		name  string
		scope db.Scope
		want  string
	}{
		{"empty", db.Scope{}, ""},
		{"workspace only", db.Scope{Workspace: "ws1"}, "@workspace:{ws1}"},
		{
			"workspace with media classes",
			db.Scope{Workspace: "ws1", MediaClasses: []string{"image", "video"}},
			"@workspace:{ws1} @media_class:{image|video}",
		},
		{
			"special chars escaped",
			db.Scope{Workspace: "ws-1"},
			`@workspace:{ws\-1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildScopeFilter(tt.scope); got != tt.want {
				t.Errorf("buildScopeFilter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeQuery(t *testing.T) {
	got := escapeQuery(`red-dress @home (50%)`)
	want := `red\-dress \@home \(50\%\)`
	if got != want {
		t.Errorf("escapeQuery() = %q, want %q", got, want)
	}
}

func TestVectorToBytes(t *testing.T) {
	v := []float32{1.5, -2.25}
	raw := []byte(vectorToBytes(v))

	if len(raw) != 8 {
		t.Fatalf("len = %d, want 8", len(raw))
	}
	got0 := math.Float32frombits(binary.LittleEndian.Uint32(raw[0:]))
	got1 := math.Float32frombits(binary.LittleEndian.Uint32(raw[4:]))
	if got0 != 1.5 || got1 != -2.25 {
		t.Errorf("round trip = %v, %v; want 1.5, -2.25", got0, got1)
	}
}
