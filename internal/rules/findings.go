package rules

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Severity ranks findings. Errors gate acceptance; warnings are maintenance
// goals and never fail a run on their own.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String renders the label used in reports.
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalJSON keeps the JSON report human-readable.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the labels produced by MarshalJSON.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	default:
		return fmt.Errorf("rules: unknown severity %q", label)
	}
	return nil
}

// Rule identifies the convention a finding violates.
type Rule string

const (
	RuleReadError            Rule = "read_error"
	RuleFrontMatterMissing   Rule = "frontmatter_missing"
	RuleMetadataMalformed    Rule = "metadata_malformed"
	RuleUnknownNodeType      Rule = "unknown_node_type"
	RuleRequiredFieldMissing Rule = "required_field_missing"
	RuleDuplicateID          Rule = "duplicate_id"
	RuleBrokenLink           Rule = "broken_link"
	RuleMissingBacklink      Rule = "missing_backlink"
	RuleSecretLeak           Rule = "possible_secret_leak"
	RuleStaleStub            Rule = "stale_stub"
	RuleIDFormat             Rule = "id_format"
	RuleUnknownLayer         Rule = "unknown_layer"
)

// Finding is one reported defect. The zero NodeID means the file never
// yielded an id.
type Finding struct {
	NodeID   string   `json:"node_id"`
	Path     string   `json:"path"`
	Rule     Rule     `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Sort orders findings deterministically: errors before warnings, then node
// id, then path, then rule, then message. Two runs over an unchanged tree
// produce identical output.
func Sort(findings []Finding) {
	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		if a.NodeID != b.NodeID {
			return a.NodeID < b.NodeID
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})
}
