package commands

import (
	"context"
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-notegraph/internal/linter"
	"github.com/goliatone/go-notegraph/internal/report"
)

type fakeLinter struct {
	opts   linter.Options
	report *report.Report
	err    error
}

func (f *fakeLinter) Lint(ctx context.Context, opts linter.Options) (*report.Report, error) {
	f.opts = opts
	return f.report, f.err
}

func TestRunCommandValidate(t *testing.T) {
	if err := (RunCommand{Root: "docs/graph"}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
	if err := (RunCommand{}).Validate(); err == nil {
		t.Fatal("expected missing root to fail validation")
	}
	if err := (RunCommand{Root: "   "}).Validate(); err == nil {
		t.Fatal("expected blank root to fail validation")
	}
}

func TestRunCommandType(t *testing.T) {
	if got := (RunCommand{}).Type(); got != "notegraph.lint.run" {
		t.Fatalf("unexpected message type %q", got)
	}
}

func TestRunHandlerDeliversReport(t *testing.T) {
	want := &report.Report{}
	service := &fakeLinter{report: want}

	var got *report.Report
	h := NewRunHandler(service, nil, func(r *report.Report) { got = r })

	cmd := RunCommand{Root: "docs/graph", Pattern: "*.md", Exclude: []string{"archive/**"}}
	if err := h.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if got != want {
		t.Fatal("sink did not receive the report")
	}
	if service.opts.Root != "docs/graph" || service.opts.Pattern != "*.md" {
		t.Fatalf("options not forwarded: %#v", service.opts)
	}
	if len(service.opts.Exclude) != 1 || service.opts.Exclude[0] != "archive/**" {
		t.Fatalf("exclude not forwarded: %#v", service.opts)
	}
}

func TestRunHandlerValidatesBeforeLint(t *testing.T) {
	service := &fakeLinter{report: &report.Report{}}
	h := NewRunHandler(service, nil, nil)

	err := h.Execute(context.Background(), RunCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if service.opts.Root != "" {
		t.Fatal("lint must not run when validation fails")
	}
}

func TestRunHandlerPropagatesLintError(t *testing.T) {
	service := &fakeLinter{err: errors.New("walk failed")}
	h := NewRunHandler(service, nil, nil)

	err := h.Execute(context.Background(), RunCommand{Root: "docs/graph"})
	if err == nil {
		t.Fatal("expected lint error to propagate")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestRunHandlerNilSink(t *testing.T) {
	service := &fakeLinter{report: &report.Report{}}
	h := NewRunHandler(service, nil, nil)

	if err := h.Execute(context.Background(), RunCommand{Root: "docs/graph"}); err != nil {
		t.Fatalf("nil sink must be allowed: %v", err)
	}
}
