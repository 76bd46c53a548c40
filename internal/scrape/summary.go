package scrape

import (
	"github.com/dtnitsch/grc-lexicon-parser/pkg/scraper"
)

// maxSkipped bounds the skipped cells listed per lemma.
const maxSkipped = 10

func BuildSummary(r scraper.Result) ResultSummary {
	summary := ResultSummary{
		Lemma: r.Request.Lemma,
		POS:   r.Request.POS.String(),
	}
	if r.Request.Participle {
		summary.POS = "participle"
	}
	if r.Error != nil {
		summary.Status = "failed"
		summary.Error = r.Error.Error()
		return summary
	}

	summary.Status = "success"
	summary.Generated = r.Generated
	if r.Page != nil {
		summary.URL = r.Page.URL
	}
	if r.Entry != nil {
		summary.EntryID = r.Entry.ID
		summary.Stored = r.Entry.Lemma
		summary.Paradigms = len(r.Entry.Paradigms)
		seen := make(map[string]bool)
		for _, t := range r.Entry.Paradigms {
			summary.Forms += t.Count()
			for _, d := range t.Dialects {
				if !seen[d] {
					seen[d] = true
					summary.Dialects = append(summary.Dialects, d)
				}
			}
		}
	}
	for i, err := range r.Skipped {
		if i == maxSkipped {
			break
		}
		summary.Skipped = append(summary.Skipped, err.Error())
	}
	return summary
}

// BuildOutput summarizes a run. Status is "success", "partial" or "failed".
func BuildOutput(results []scraper.Result) *FinalOutput {
	out := &FinalOutput{Stats: Stats{TotalLemmas: len(results)}}
	for _, r := range results {
		s := BuildSummary(r)
		if s.Status == "success" {
			out.Stats.Successful++
			out.Stats.Forms += s.Forms
		} else {
			out.Stats.Failed++
		}
		out.Results = append(out.Results, s)
	}

	switch {
	case out.Stats.Failed == 0:
		out.Status = "success"
	case out.Stats.Successful == 0:
		out.Status = "failed"
	default:
		out.Status = "partial"
	}
	return out
}
