package commands

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-notegraph/internal/linter"
	"github.com/goliatone/go-notegraph/internal/logging"
	"github.com/goliatone/go-notegraph/internal/report"
	"github.com/goliatone/go-notegraph/pkg/interfaces"
)

const (
	lintMessageType = "notegraph.lint.run"
	lintOperation   = "lint.run"
)

// Linter abstracts the pipeline the run handler drives.
type Linter interface {
	Lint(ctx context.Context, opts linter.Options) (*report.Report, error)
}

// ReportSink receives the finished report. The handler stays transport
// agnostic; callers decide whether to render text, JSON, or neither.
type ReportSink func(*report.Report)

// RunCommand triggers a full lint pass over Root.
type RunCommand struct {
	// Root selects the node tree to lint.
	Root string `json:"root"`
	// Pattern overrides the discovery glob when non-empty.
	Pattern string `json:"pattern,omitempty"`
	// Exclude lists glob expressions dropped from discovery.
	Exclude []string `json:"exclude,omitempty"`
}

// Type implements command.Message.
func (RunCommand) Type() string { return lintMessageType }

// Validate ensures a lint target is present before the handler executes.
func (cmd RunCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Root, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("notegraph.lint.run.root_required", "root is required")
			}
			return nil
		})),
	)
}

var _ command.Commander[RunCommand] = (*RunHandler)(nil)

// RunHandler executes lint runs through the shared command foundation.
type RunHandler struct {
	inner *Handler[RunCommand]
}

// NewRunHandler creates a handler bound to the supplied lint service. The
// sink may be nil when callers only care about the error result.
func NewRunHandler(service Linter, logger interfaces.Logger, sink ReportSink, opts ...HandlerOption[RunCommand]) *RunHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RunCommand) error {
		rep, err := service.Lint(ctx, linter.Options{
			Root:    msg.Root,
			Pattern: msg.Pattern,
			Exclude: msg.Exclude,
		})
		if err != nil {
			return err
		}
		if sink != nil {
			sink(rep)
		}
		return nil
	}

	options := append([]HandlerOption[RunCommand]{
		WithLogger[RunCommand](logger),
		WithOperation[RunCommand](lintOperation),
	}, opts...)

	return &RunHandler{inner: NewHandler(exec, options...)}
}

// Execute implements command.Commander[RunCommand].
func (h *RunHandler) Execute(ctx context.Context, msg RunCommand) error {
	return h.inner.Execute(ctx, msg)
}
