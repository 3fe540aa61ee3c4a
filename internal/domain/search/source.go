package search

// SourceKind identifies the collection a candidate was retrieved from.
type SourceKind string

// Source kinds.
const (
	SourceDocument       SourceKind = "document"
	SourceScratch        SourceKind = "scratch"
	SourceNote           SourceKind = "note"
	SourceLinkTranscript SourceKind = "link_transcript"
)

// Mode is the retrieval strategy that produced (or is requested for) a hit.
type Mode string

// Search modes. Transcript is provenance-only: it is never requested by
// clients, it marks hits coming from the transcript source.
const (
	ModeSemantic   Mode = "semantic"
	ModeText       Mode = "text"
	ModeVisual     Mode = "visual"
	ModeTranscript Mode = "transcript"
)

// IsRequestable reports whether clients may ask for this mode.
func (m Mode) IsRequestable() bool {
	return m == ModeSemantic || m == ModeText || m == ModeVisual
}

// DefaultModes returns the modes used when a request names none.
func DefaultModes() []Mode {
	return []Mode{ModeSemantic, ModeText, ModeVisual}
}
