package search

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantColors  []string
		wantObjects []string
	}{
		{
			name:        "color and object",
			query:       "red lingerie",
			wantColors:  []string{"red"},
			wantObjects: []string{"lingerie"},
		},
		{
			name:        "no colors",
			query:       "quarterly report draft",
			wantColors:  nil,
			wantObjects: []string{"quarterly", "report", "draft"},
		},
		{
			name:        "short tokens dropped",
			query:       "a red TV",
			wantColors:  []string{"red"},
			wantObjects: nil,
		},
		{
			name:        "multi word shade is split per token",
			query:       "light blue dress",
			wantColors:  []string{"blue"},
			wantObjects: []string{"light", "dress"},
		},
		{
			name:        "case folded",
			query:       "RED Dress",
			wantColors:  []string{"red"},
			wantObjects: []string{"dress"},
		},
		{
			name:        "multilingual colors",
			query:       "vestido rojo",
			wantColors:  []string{"rojo"},
			wantObjects: []string{"vestido"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks := ExtractKeywords(tt.query)
			if !reflect.DeepEqual(ks.Colors, tt.wantColors) {
				t.Errorf("Colors = %v, want %v", ks.Colors, tt.wantColors)
			}
			if !reflect.DeepEqual(ks.Objects, tt.wantObjects) {
				t.Errorf("Objects = %v, want %v", ks.Objects, tt.wantObjects)
			}
		})
	}
}

func TestExtractKeywordsAll(t *testing.T) {
	ks := ExtractKeywords("a red TV")
	want := []string{"a", "red", "tv"}
	if !reflect.DeepEqual(ks.All, want) {
		t.Errorf("All = %v, want %v", ks.All, want)
	}
}
