package rules

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-notegraph/internal/graph"
	"github.com/goliatone/go-notegraph/internal/logging"
	"github.com/goliatone/go-notegraph/internal/nodes"
	"github.com/goliatone/go-notegraph/pkg/interfaces"
)

// TypePair names two node types whose edges are expected to be reciprocal.
type TypePair struct {
	From nodes.Type
	To   nodes.Type
}

// Config tunes the optional rule set.
type Config struct {
	// StalenessDays flags stub nodes untouched for this many days; zero
	// disables the rule.
	StalenessDays int
	// SecretPatterns overrides the built-in credential regexes when non-empty.
	SecretPatterns []string
	// BacklinkTypes lists type pairs subject to the reciprocity rule.
	BacklinkTypes []TypePair
	// IDFormat toggles the retrieval-safe id check.
	IDFormat bool
	// Layers lists the expected top-level groupings; empty disables the
	// layer membership rule. Files at the tree root are always allowed.
	Layers []string
	// Now is a test seam for the staleness clock.
	Now func() time.Time
}

// Checker runs the structural rule set over a built graph. It performs no
// I/O; the graph is treated as immutable for the duration of a check.
type Checker struct {
	cfg      Config
	scanner  *SecretScanner
	backlink map[[2]nodes.Type]bool
	layers   map[string]bool
	logger   interfaces.Logger
	now      func() time.Time
}

// New constructs a Checker. Secret patterns compile eagerly so configuration
// mistakes are fatal to the run, not silently skipped rules.
func New(cfg Config, provider interfaces.LoggerProvider) (*Checker, error) {
	scanner, err := NewSecretScanner(cfg.SecretPatterns)
	if err != nil {
		return nil, err
	}

	backlink := map[[2]nodes.Type]bool{}
	for _, pair := range cfg.BacklinkTypes {
		backlink[[2]nodes.Type{pair.From, pair.To}] = true
		backlink[[2]nodes.Type{pair.To, pair.From}] = true
	}

	var layers map[string]bool
	if len(cfg.Layers) > 0 {
		layers = make(map[string]bool, len(cfg.Layers))
		for _, layer := range cfg.Layers {
			if trimmed := strings.TrimSpace(layer); trimmed != "" {
				layers[trimmed] = true
			}
		}
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Checker{
		cfg:      cfg,
		scanner:  scanner,
		backlink: backlink,
		layers:   layers,
		logger:   logging.RulesLogger(provider),
		now:      now,
	}, nil
}

// Check produces the ordered findings list for the graph. Findings are the
// sole reporting channel; no rule violation is ever surfaced as an error.
func (c *Checker) Check(ctx context.Context, g *graph.Graph) []Finding {
	var findings []Finding

	findings = append(findings, c.parseFailures(g)...)
	findings = append(findings, c.duplicateIDs(g)...)
	findings = append(findings, c.brokenLinks(g)...)
	findings = append(findings, c.missingBacklinks(g)...)
	findings = append(findings, c.secretLeaks(g)...)
	findings = append(findings, c.staleStubs(g)...)
	findings = append(findings, c.idFormat(g)...)
	findings = append(findings, c.unknownLayers(g)...)

	Sort(findings)

	for _, finding := range findings {
		logging.WithNodeContext(c.logger, finding.Path, finding.NodeID, string(finding.Rule)).
			Debug("finding recorded", "severity", finding.Severity.String())
	}

	errors, warnings := tally(findings)
	c.logger.WithContext(ctx).Info("rule check complete",
		"nodes", g.Len(),
		"errors", errors,
		"warnings", warnings,
	)
	return findings
}

func (c *Checker) parseFailures(g *graph.Graph) []Finding {
	findings := make([]Finding, 0, len(g.Failures()))
	for _, failure := range g.Failures() {
		findings = append(findings, Finding{
			NodeID:   failure.ID,
			Path:     failure.Path,
			Rule:     failureRule(failure.Reason),
			Severity: SeverityError,
			Message:  failure.Message,
		})
	}
	return findings
}

func (c *Checker) duplicateIDs(g *graph.Graph) []Finding {
	var findings []Finding
	for _, duplicate := range g.Duplicates() {
		findings = append(findings, Finding{
			NodeID:   duplicate.ID,
			Path:     duplicate.Paths[0],
			Rule:     RuleDuplicateID,
			Severity: SeverityError,
			Message: fmt.Sprintf("id %q is claimed by %s",
				duplicate.ID, strings.Join(duplicate.Paths, ", ")),
		})
	}
	return findings
}

func (c *Checker) brokenLinks(g *graph.Graph) []Finding {
	var findings []Finding
	for _, broken := range g.BrokenRefs() {
		findings = append(findings, Finding{
			NodeID:   broken.FromID,
			Path:     broken.FromPath,
			Rule:     RuleBrokenLink,
			Severity: SeverityError,
			Message:  fmt.Sprintf("link target %q does not resolve to a known node", broken.Ref),
		})
	}
	return findings
}

func (c *Checker) missingBacklinks(g *graph.Graph) []Finding {
	var findings []Finding
	for _, id := range g.IDs() {
		from := g.Node(id)
		seen := map[string]bool{}
		for _, edge := range g.Outgoing(id) {
			if edge.To == id || seen[edge.To] {
				continue
			}
			seen[edge.To] = true

			to := g.Node(edge.To)
			if to == nil || !c.backlink[[2]nodes.Type{from.Type, to.Type}] {
				continue
			}
			if g.HasEdge(to.ID, id) {
				continue
			}
			findings = append(findings, Finding{
				NodeID:   id,
				Path:     from.Path,
				Rule:     RuleMissingBacklink,
				Severity: SeverityWarning,
				Message: fmt.Sprintf("%s links to %s but %s has no link back",
					id, to.ID, to.Path),
			})
		}
	}
	return findings
}

func (c *Checker) secretLeaks(g *graph.Graph) []Finding {
	var findings []Finding
	for _, id := range g.IDs() {
		node := g.Node(id)
		for _, pattern := range c.scanner.Scan(node.Body) {
			findings = append(findings, Finding{
				NodeID:   id,
				Path:     node.Path,
				Rule:     RuleSecretLeak,
				Severity: SeverityError,
				Message:  fmt.Sprintf("body matches credential pattern %q", pattern),
			})
		}
	}
	return findings
}

func (c *Checker) staleStubs(g *graph.Graph) []Finding {
	if c.cfg.StalenessDays <= 0 {
		return nil
	}

	cutoff := c.now().AddDate(0, 0, -c.cfg.StalenessDays)
	var findings []Finding
	for _, id := range g.IDs() {
		node := g.Node(id)
		if node.Status != nodes.StatusStub {
			continue
		}
		touched := node.Timestamp()
		if touched.IsZero() || !touched.Before(cutoff) {
			continue
		}
		findings = append(findings, Finding{
			NodeID:   id,
			Path:     node.Path,
			Rule:     RuleStaleStub,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("stub node last touched %s, older than the %d day staleness window",
				touched.UTC().Format("2006-01-02"), c.cfg.StalenessDays),
		})
	}
	return findings
}

func (c *Checker) idFormat(g *graph.Graph) []Finding {
	if !c.cfg.IDFormat {
		return nil
	}

	var findings []Finding
	for _, id := range g.IDs() {
		if idRetrievalSafe(id) {
			continue
		}
		node := g.Node(id)
		findings = append(findings, Finding{
			NodeID:   id,
			Path:     node.Path,
			Rule:     RuleIDFormat,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("id %q is not retrieval-safe; use slug-style identifiers", id),
		})
	}
	return findings
}

func (c *Checker) unknownLayers(g *graph.Graph) []Finding {
	if len(c.layers) == 0 {
		return nil
	}

	var findings []Finding
	for _, id := range g.IDs() {
		node := g.Node(id)
		layer := node.Layer()
		if layer == "" || c.layers[layer] {
			continue
		}
		findings = append(findings, Finding{
			NodeID:   id,
			Path:     node.Path,
			Rule:     RuleUnknownLayer,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("file lives under layer %q, expected one of %s",
				layer, strings.Join(c.cfg.Layers, ", ")),
		})
	}
	return findings
}

// idRetrievalSafe accepts ids that survive slug normalization without
// structural characters. Case is ignored so conventional upper-kebab task
// ids stay valid.
func idRetrievalSafe(id string) bool {
	if strings.ContainsAny(id, " \t\n/\\") {
		return false
	}
	normalized, err := slug.Normalize(strings.ToLower(id))
	return err == nil && normalized != ""
}

func failureRule(reason nodes.FailureReason) Rule {
	switch reason {
	case nodes.FailureReadError:
		return RuleReadError
	case nodes.FailureFrontMatterMissing:
		return RuleFrontMatterMissing
	case nodes.FailureUnknownType:
		return RuleUnknownNodeType
	case nodes.FailureRequiredField:
		return RuleRequiredFieldMissing
	default:
		return RuleMetadataMalformed
	}
}

func tally(findings []Finding) (errors, warnings int) {
	for _, finding := range findings {
		if finding.Severity == SeverityError {
			errors++
			continue
		}
		warnings++
	}
	return errors, warnings
}
