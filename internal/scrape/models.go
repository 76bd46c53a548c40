package scrape

// ResultSummary is the per-lemma line of a scrape report.
type ResultSummary struct {
	Lemma     string   `json:"lemma" yaml:"lemma"`
	POS       string   `json:"pos" yaml:"pos"`
	Status    string   `json:"status" yaml:"status"`
	Error     string   `json:"error,omitempty" yaml:"error,omitempty"`
	EntryID   string   `json:"entry_id,omitempty" yaml:"entry_id,omitempty"`
	Stored    string   `json:"stored_as,omitempty" yaml:"stored_as,omitempty"` // lemma the forms were stored under
	URL       string   `json:"url,omitempty" yaml:"url,omitempty"`
	Paradigms int      `json:"paradigms,omitempty" yaml:"paradigms,omitempty"`
	Forms     int      `json:"forms,omitempty" yaml:"forms,omitempty"`
	Dialects  []string `json:"dialects,omitempty" yaml:"dialects,omitempty"`
	Generated bool     `json:"generated,omitempty" yaml:"generated,omitempty"`
	Skipped   []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// FinalOutput is the structured output for the entire run.
type FinalOutput struct {
	Status  string          `json:"status" yaml:"status"`
	Results []ResultSummary `json:"results" yaml:"results"`
	Stats   Stats           `json:"stats" yaml:"stats"`
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalLemmas      int     `json:"total_lemmas" yaml:"total_lemmas"`
	Successful       int     `json:"successful" yaml:"successful"`
	Failed           int     `json:"failed" yaml:"failed"`
	Forms            int     `json:"forms" yaml:"forms"`
	TotalTimeSeconds float64 `json:"total_time_seconds" yaml:"total_time_seconds"`
}
