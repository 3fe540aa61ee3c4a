package search

import domsearch "github.com/canvashq/prism/internal/domain/search"

// dedupByDocument collapses candidates sharing a DocumentID to the
// single highest-similarity copy. The same item can surface once via
// vector search and once via lexical search; first occurrence order is
// preserved for the survivors.
func dedupByDocument(candidates []domsearch.Candidate) []domsearch.Candidate {
	if len(candidates) < 2 {
		return candidates
	}

	best := make(map[string]int, len(candidates))
	out := make([]domsearch.Candidate, 0, len(candidates))
	for _, c := range candidates {
		idx, seen := best[c.DocumentID]
		if !seen {
			best[c.DocumentID] = len(out)
			out = append(out, c)
			continue
		}
		if c.Similarity > out[idx].Similarity {
			out[idx] = c
		}
	}
	return out
}

// dedupByID drops repeated transcript hits with the same ID, keeping
// the first occurrence.
func dedupByID(candidates []domsearch.Candidate) []domsearch.Candidate {
	if len(candidates) < 2 {
		return candidates
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]domsearch.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
