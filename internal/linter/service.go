// Package linter wires the parse, build, and check stages into the single
// pass the rest of the repo consumes.
package linter

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-notegraph/internal/graph"
	"github.com/goliatone/go-notegraph/internal/logging"
	"github.com/goliatone/go-notegraph/internal/nodes"
	"github.com/goliatone/go-notegraph/internal/report"
	"github.com/goliatone/go-notegraph/internal/rules"
	"github.com/goliatone/go-notegraph/internal/runtimeconfig"
	"github.com/goliatone/go-notegraph/pkg/interfaces"
)

const (
	rootUnavailableCode = "LINT_ROOT_UNAVAILABLE"
	parsePassFailedCode = "LINT_PARSE_PASS_FAILED"
)

// Options override per-run discovery settings. Zero values fall back to the
// service configuration.
type Options struct {
	Root    string
	Pattern string
	Exclude []string
}

// Service runs the lint pipeline: concurrent parse, graph build, rule check.
type Service struct {
	cfg      runtimeconfig.Config
	checker  *rules.Checker
	provider interfaces.LoggerProvider
	logger   interfaces.Logger
}

// New validates the configuration and prepares the rule checker. The parser
// is constructed per run since the root directory can be overridden.
func New(cfg runtimeconfig.Config, provider interfaces.LoggerProvider) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "lint configuration invalid")
	}

	checker, err := rules.New(rules.Config{
		StalenessDays:  cfg.Rules.StalenessDays,
		SecretPatterns: cfg.Rules.SecretPatterns,
		BacklinkTypes:  backlinkPairs(cfg.Rules.BacklinkTypes),
		IDFormat:       cfg.Rules.IDFormat,
		Layers:         cfg.Layers,
	}, provider)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "lint rule configuration invalid")
	}

	return &Service{
		cfg:      cfg,
		checker:  checker,
		provider: provider,
		logger:   logging.ModuleLogger(provider, ""),
	}, nil
}

// Lint executes one full pass and returns the findings report. Fatal-to-run
// conditions (missing root, unreadable tree) are the only errors; everything
// fatal-to-file surfaces inside the report.
func (s *Service) Lint(ctx context.Context, opts Options) (*report.Report, error) {
	root := strings.TrimSpace(opts.Root)
	if root == "" {
		root = s.cfg.Root
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = s.cfg.Pattern
	}
	exclude := opts.Exclude
	if len(exclude) == 0 {
		exclude = s.cfg.Exclude
	}

	logger := logging.WithFields(s.logger, map[string]any{
		"run_id": uuid.NewString(),
		"root":   root,
	})
	logger.Info("lint run starting")

	parser, err := nodes.NewParser(nodes.Config{
		BasePath:  root,
		Pattern:   pattern,
		Exclude:   exclude,
		Recursive: s.cfg.Recursive,
		Workers:   s.cfg.Workers,
	}, s.provider)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryCommand, "lint root unavailable").
			WithTextCode(rootUnavailableCode)
	}

	result, err := parser.ParseDirectory(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryCommand, "lint parse pass failed").
			WithTextCode(parsePassFailedCode)
	}

	g := graph.Build(result)
	logging.GraphLogger(s.provider).Debug("graph assembled",
		"nodes", g.Len(),
		"duplicates", len(g.Duplicates()),
		"broken_refs", len(g.BrokenRefs()),
	)

	findings := s.checker.Check(ctx, g)
	rep := report.New(g, findings)

	logger.Info("lint run finished",
		"files", rep.Stats.Files,
		"nodes", rep.Stats.Nodes,
		"errors", rep.Stats.Errors,
		"warnings", rep.Stats.Warnings,
	)
	return rep, nil
}

func backlinkPairs(pairs []runtimeconfig.BacklinkPair) []rules.TypePair {
	out := make([]rules.TypePair, 0, len(pairs))
	for _, pair := range pairs {
		out = append(out, rules.TypePair{
			From: nodes.Type(pair.From),
			To:   nodes.Type(pair.To),
		})
	}
	return out
}
