package search

// DetailedAnalysis is structured visual metadata attached to document
// candidates by the offline media analyzer. It is read-only input: the
// search core consumes it as evidence and never mutates it.
type DetailedAnalysis struct {
	Colors   []ColorObservation    `json:"colors,omitempty"`
	Clothing []ClothingObservation `json:"clothing,omitempty"`
	Objects  []ObjectObservation   `json:"objects,omitempty"`
	Summary  string                `json:"summary,omitempty"`
}

// ColorObservation is a detected color region.
type ColorObservation struct {
	Color    string `json:"color"`
	Shade    string `json:"shade,omitempty"`
	Location string `json:"location,omitempty"`
}

// ClothingObservation is a detected clothing item.
type ClothingObservation struct {
	Type  string `json:"type"`
	Color string `json:"color,omitempty"`
	Shade string `json:"shade,omitempty"`
}

// ObjectObservation is a detected object.
type ObjectObservation struct {
	Name string `json:"name"`
}

// IsEmpty reports whether the analysis carries no observations at all.
func (a *DetailedAnalysis) IsEmpty() bool {
	if a == nil {
		return true
	}
	return len(a.Colors) == 0 && len(a.Clothing) == 0 && len(a.Objects) == 0 && a.Summary == ""
}
