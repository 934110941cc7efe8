// Package report renders the findings of a lint run for humans and CI
// gates. Output is deterministic: no timestamps, run ids, or map ordering
// leak into the rendered bytes.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goliatone/go-notegraph/internal/graph"
	"github.com/goliatone/go-notegraph/internal/rules"
)

// Stats summarizes one lint run.
type Stats struct {
	Files    int `json:"files"`
	Nodes    int `json:"nodes"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// Report is the ordered findings output of one lint run.
type Report struct {
	Findings []rules.Finding `json:"findings"`
	Stats    Stats           `json:"stats"`
}

// New assembles a report from a built graph and its checked findings.
// Findings are assumed already sorted by the checker.
func New(g *graph.Graph, findings []rules.Finding) *Report {
	stats := Stats{
		Files: g.Files(),
		Nodes: g.Len(),
	}
	for _, finding := range findings {
		if finding.Severity == rules.SeverityError {
			stats.Errors++
			continue
		}
		stats.Warnings++
	}
	return &Report{Findings: findings, Stats: stats}
}

// Failed reports whether any finding carries error severity. Warnings alone
// never fail a run.
func (r *Report) Failed() bool {
	return r.Stats.Errors > 0
}

// FailedStrict reports whether any finding exists at all, for callers that
// promote warnings to failures.
func (r *Report) FailedStrict() bool {
	return len(r.Findings) > 0
}

// WriteText renders the report as console output: one line per finding,
// then a summary.
func (r *Report) WriteText(w io.Writer) error {
	for _, finding := range r.Findings {
		id := finding.NodeID
		if id == "" {
			id = "-"
		}
		if _, err := fmt.Fprintf(w, "%-7s %-22s %s  %s: %s\n",
			finding.Severity, finding.Rule, id, finding.Path, finding.Message); err != nil {
			return err
		}
	}

	if len(r.Findings) == 0 {
		_, err := fmt.Fprintf(w, "OK: %d nodes across %d files\n", r.Stats.Nodes, r.Stats.Files)
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d errors, %d warnings across %d nodes (%d files)\n",
		r.Stats.Errors, r.Stats.Warnings, r.Stats.Nodes, r.Stats.Files)
	return err
}

// WriteJSON renders the report as indented JSON for CI consumption.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
