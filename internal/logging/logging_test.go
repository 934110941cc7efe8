package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-notegraph/pkg/interfaces"
)

type recordingLogger struct {
	fields map[string]any
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithContext(context.Context) interfaces.Logger { return r }

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	merged := map[string]any{}
	for key, value := range r.fields {
		merged[key] = value
	}
	for key, value := range fields {
		merged[key] = value
	}
	return &recordingLogger{fields: merged}
}

type recordingProvider struct{}

func (recordingProvider) GetLogger(string) interfaces.Logger {
	return &recordingLogger{}
}

func TestModuleLoggerAttachesModuleField(t *testing.T) {
	logger := ModuleLogger(recordingProvider{}, "notegraph.nodes")

	recorded, ok := logger.(*recordingLogger)
	if !ok {
		t.Fatalf("expected recording logger, got %T", logger)
	}
	if recorded.fields["module"] != "notegraph.nodes" {
		t.Fatalf("module field missing: %#v", recorded.fields)
	}
}

func TestModuleLoggerNilProvider(t *testing.T) {
	logger := ModuleLogger(nil, "")
	if logger == nil {
		t.Fatalf("nil provider must still yield a usable logger")
	}
	logger.Info("must not panic")
}

func TestWithNodeContext(t *testing.T) {
	logger := WithNodeContext(&recordingLogger{}, " tasks/DEV-001.md ", "DEV-001", "")

	recorded := logger.(*recordingLogger)
	if recorded.fields["node_path"] != "tasks/DEV-001.md" {
		t.Fatalf("node_path missing or untrimmed: %#v", recorded.fields)
	}
	if recorded.fields["node_id"] != "DEV-001" {
		t.Fatalf("node_id missing: %#v", recorded.fields)
	}
	if _, present := recorded.fields["rule"]; present {
		t.Fatalf("empty rule must be omitted: %#v", recorded.fields)
	}
}

func TestWithFieldsNoFieldsSupport(t *testing.T) {
	logger := NoOp()
	if got := WithFields(logger, map[string]any{"k": "v"}); got == nil {
		t.Fatalf("WithFields must never return nil")
	}
	if WithFields(nil, map[string]any{"k": "v"}) != nil {
		t.Fatalf("nil logger passes through")
	}
}

func TestContextFieldsRoundTrip(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"run_id": "abc"})
	ctx = ContextWithFields(ctx, map[string]any{"stage": "parse"})

	fields := ContextFields(ctx)
	if fields["run_id"] != "abc" || fields["stage"] != "parse" {
		t.Fatalf("context fields did not merge: %#v", fields)
	}

	// Mutating the returned map must not affect subsequent reads.
	fields["run_id"] = "mutated"
	if ContextFields(ctx)["run_id"] != "abc" {
		t.Fatalf("context fields must be copied on read")
	}
}

func TestContextFieldsEmpty(t *testing.T) {
	if fields := ContextFields(context.Background()); fields != nil {
		t.Fatalf("expected nil for unannotated context, got %#v", fields)
	}
	if fields := ContextFields(nil); fields != nil {
		t.Fatalf("expected nil for nil context, got %#v", fields)
	}
}
