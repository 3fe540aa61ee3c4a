package search

import (
	"regexp"
	"strconv"
	"strings"

	domsearch "github.com/canvashq/prism/internal/domain/search"
)

// proximityWindow is the maximum gap, in characters, between a color
// token and an object token for proximity evidence to count.
const proximityWindow = 50

// matchesColor reports whether the candidate's metadata substantiates
// the requested colors. Vacuously true when no colors were requested.
// Evidence is checked in priority order: structured clothing, structured
// color regions, tags, free-text proximity, raw frequency. Structured
// analysis counts as evidence on its own; the text rungs only apply to
// candidates carrying text metadata.
func matchesColor(c *domsearch.Candidate, colors, objects []string) bool {
	if len(colors) == 0 {
		return true
	}

	if matchesClothingEvidence(c, colors, objects) {
		return true
	}
	if matchesColorRegionEvidence(c, colors, objects) {
		return true
	}

	if !c.HasTextMetadata() {
		return false
	}
	if matchesTagEvidence(c, colors, objects) {
		return true
	}
	if matchesProximityEvidence(c, colors, objects) {
		return true
	}
	return matchesFrequencyEvidence(c, colors)
}

// matchesContent reports whether any requested object token appears in
// structured clothing types, structured object names, or the free text.
// Vacuously true when no objects were requested.
func matchesContent(c *domsearch.Candidate, objects []string) bool {
	if len(objects) == 0 {
		return true
	}

	if c.Analysis != nil {
		for _, cl := range c.Analysis.Clothing {
			if containsAny(strings.ToLower(cl.Type), objects) {
				return true
			}
		}
		for _, obj := range c.Analysis.Objects {
			if containsAny(strings.ToLower(obj.Name), objects) {
				return true
			}
		}
	}

	return containsAny(freeText(c), objects)
}

func matchesClothingEvidence(c *domsearch.Candidate, colors, objects []string) bool {
	if c.Analysis == nil {
		return false
	}
	for _, cl := range c.Analysis.Clothing {
		colorField := strings.ToLower(cl.Color + " " + cl.Shade)
		if !containsAny(colorField, colors) {
			continue
		}
		if len(objects) == 0 || containsAny(strings.ToLower(cl.Type), objects) {
			return true
		}
	}
	return false
}

func matchesColorRegionEvidence(c *domsearch.Candidate, colors, objects []string) bool {
	if c.Analysis == nil {
		return false
	}
	for _, co := range c.Analysis.Colors {
		colorField := strings.ToLower(co.Color + " " + co.Shade)
		if !containsAny(colorField, colors) {
			continue
		}
		if len(objects) == 0 || containsAny(strings.ToLower(co.Location), objects) {
			return true
		}
	}
	return false
}

// matchesTagEvidence accepts a tag containing "{color} {object}",
// "{object} {color}", or the bare color.
func matchesTagEvidence(c *domsearch.Candidate, colors, objects []string) bool {
	for _, tag := range c.Tags {
		tag = strings.ToLower(tag)
		for _, color := range colors {
			for _, obj := range objects {
				if strings.Contains(tag, color+" "+obj) || strings.Contains(tag, obj+" "+color) {
					return true
				}
			}
			if strings.Contains(tag, color) {
				return true
			}
		}
	}
	return false
}

// matchesProximityEvidence looks for a color token within the proximity
// window of an object token in the searchable text or description.
func matchesProximityEvidence(c *domsearch.Candidate, colors, objects []string) bool {
	if len(objects) == 0 {
		return false
	}
	text := strings.ToLower(c.SearchableText + " " + c.Description)
	for _, color := range colors {
		for _, obj := range objects {
			if proximityPattern(color, obj).MatchString(text) {
				return true
			}
		}
	}
	return false
}

func proximityPattern(a, b string) *regexp.Regexp {
	qa, qb := regexp.QuoteMeta(a), regexp.QuoteMeta(b)
	window := strconv.Itoa(proximityWindow)
	return regexp.MustCompile(`(?s)` + qa + `.{0,` + window + `}` + qb + `|` + qb + `.{0,` + window + `}` + qa)
}

// matchesFrequencyEvidence accepts a color appearing at least twice
// across all text fields.
func matchesFrequencyEvidence(c *domsearch.Candidate, colors []string) bool {
	text := freeText(c)
	for _, color := range colors {
		if strings.Count(text, color) >= 2 {
			return true
		}
	}
	return false
}

// freeText concatenates the lowercased text fields: title, description,
// searchable text, tags, and the analysis summary.
func freeText(c *domsearch.Candidate) string {
	parts := []string{c.Title, c.Description, c.SearchableText}
	parts = append(parts, c.Tags...)
	if c.Analysis != nil {
		parts = append(parts, c.Analysis.Summary)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
