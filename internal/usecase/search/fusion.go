package search

import (
	"sort"

	domsearch "github.com/canvashq/prism/internal/domain/search"
)

// fuse merges the four source streams into one flat list ordered by
// similarity. The primary stream is already ranked; auxiliary streams
// arrive with their fixed weights applied. Transcript hits are deduped
// by ID before merging.
func fuse(primary, scratches, notes, transcripts []domsearch.Candidate) []domsearch.Candidate {
	transcripts = dedupByID(transcripts)

	out := make([]domsearch.Candidate, 0, len(primary)+len(scratches)+len(notes)+len(transcripts))
	out = append(out, primary...)
	out = append(out, scratches...)
	out = append(out, notes...)
	out = append(out, transcripts...)

	sortBySimilarity(out)
	return out
}

// sortBySimilarity orders candidates by descending similarity. The sort
// is stable so ties keep their source order.
func sortBySimilarity(candidates []domsearch.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
}

// applyWeight sets every candidate's similarity to the given fixed base.
func applyWeight(candidates []domsearch.Candidate, weight float64) []domsearch.Candidate {
	for i := range candidates {
		candidates[i].Similarity = weight
	}
	return candidates
}
