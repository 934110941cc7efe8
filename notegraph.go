// Package notegraph validates a directory of cross-linked Markdown nodes,
// a "graph memory bank", against its structural conventions: unique ids,
// per-type frontmatter contracts, resolvable links, reciprocal backlinks,
// credential hygiene, and stub freshness.
package notegraph

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-notegraph/internal/commands"
	"github.com/goliatone/go-notegraph/internal/graph"
	"github.com/goliatone/go-notegraph/internal/linter"
	"github.com/goliatone/go-notegraph/internal/logging"
	"github.com/goliatone/go-notegraph/internal/logging/console"
	"github.com/goliatone/go-notegraph/internal/logging/gologger"
	"github.com/goliatone/go-notegraph/internal/nodes"
	"github.com/goliatone/go-notegraph/internal/report"
	"github.com/goliatone/go-notegraph/internal/rules"
	"github.com/goliatone/go-notegraph/pkg/interfaces"
)

// Node exports the parsed node record.
type Node = nodes.Node

// NodeType exports the closed node kind set.
type NodeType = nodes.Type

// Graph exports the built node graph.
type Graph = graph.Graph

// Finding exports one reported defect.
type Finding = rules.Finding

// Severity exports the finding severity scale.
type Severity = rules.Severity

// Rule exports the rule identifier type.
type Rule = rules.Rule

// Report exports the findings report.
type Report = report.Report

// Stats exports the per-run summary counters.
type Stats = report.Stats

// LintOptions exports per-run overrides accepted by Lint.
type LintOptions = linter.Options

// RunCommand exports the command message driving a lint pass.
type RunCommand = commands.RunCommand

// Logger exports the logging contract so hosts can inject their own.
type Logger = interfaces.Logger

// LoggerProvider exports the named-logger factory contract.
type LoggerProvider = interfaces.LoggerProvider

// Module is the top level linter facade.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	service  *linter.Service
}

// Option overrides module wiring during construction.
type Option func(*Module)

// WithLoggerProvider replaces the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.provider = provider
		}
	}
}

// New constructs a linter module from the provided configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	m := &Module{cfg: cfg}
	for _, opt := range opts {
		opt(m)
	}

	if m.provider == nil {
		provider, err := buildLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	service, err := linter.New(cfg, m.provider)
	if err != nil {
		return nil, err
	}
	m.service = service
	return m, nil
}

// Linter returns the configured pipeline service.
func (m *Module) Linter() *linter.Service {
	return m.service
}

// Logging returns the provider modules use for stage-scoped loggers.
func (m *Module) Logging() interfaces.LoggerProvider {
	if m == nil || m.provider == nil {
		return logging.NoOpProvider()
	}
	return m.provider
}

// Lint runs one full pass using the module configuration plus overrides.
func (m *Module) Lint(ctx context.Context, opts LintOptions) (*Report, error) {
	return m.service.Lint(ctx, opts)
}

// RunHandler returns a command handler bound to this module's lint service.
func (m *Module) RunHandler(sink commands.ReportSink) *commands.RunHandler {
	logger := logging.ModuleLogger(m.Logging(), "notegraph.commands")
	return commands.NewRunHandler(m.service, logger, sink)
}

func buildLoggerProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		level, ok := console.ParseLevel(cfg.Level)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrLoggingLevelInvalid, cfg.Level)
		}
		return console.NewProvider(console.Options{MinLevel: &level}), nil
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	case "noop":
		return logging.NoOpProvider(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrLoggingProviderUnknown, cfg.Provider)
	}
}
