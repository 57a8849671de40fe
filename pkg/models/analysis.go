package models

// Dataset is a named numeric series within a chart.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor,omitempty"`
}

// Chart describes a single chart the front end can render directly.
// Type is one of bar, line, pie, doughnut, timeline.
type Chart struct {
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Table is a titled grid of string cells.
type Table struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Analysis is the structured reply of the analyse chat mode.
type Analysis struct {
	AnalysisText string   `json:"analysis_text"`
	Charts       []Chart  `json:"charts"`
	Tables       []Table  `json:"tables"`
	KeyFindings  []string `json:"key_findings"`
}

// FallbackAnalysis wraps a raw, unparseable oracle reply into a minimal
// analysis so the request still succeeds. Malformed structured output from
// the oracle is routine, not exceptional.
func FallbackAnalysis(raw string) *Analysis {
	return &Analysis{
		AnalysisText: raw,
		Charts:       []Chart{},
		Tables:       []Table{},
		KeyFindings:  []string{},
	}
}

// Normalize replaces nil slices so JSON output always carries arrays.
func (a *Analysis) Normalize() {
	if a.Charts == nil {
		a.Charts = []Chart{}
	}
	if a.Tables == nil {
		a.Tables = []Table{}
	}
	if a.KeyFindings == nil {
		a.KeyFindings = []string{}
	}
}
