package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-notegraph/pkg/interfaces"
)

const (
	rootModule  = "notegraph"
	nodesModule = "notegraph.nodes"
	graphModule = "notegraph.graph"
	rulesModule = "notegraph.rules"
)

const (
	fieldNodePath = "node_path"
	fieldNodeID   = "node_id"
	fieldRule     = "rule"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field so entries can be filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// NodesLogger returns the logger namespace reserved for the node parser.
func NodesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, nodesModule)
}

// GraphLogger returns the logger namespace reserved for the graph builder.
func GraphLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, graphModule)
}

// RulesLogger returns the logger namespace reserved for the rule checker.
func RulesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rulesModule)
}

// WithNodeContext enriches the provided logger with common node fields such
// as file path, node id, and rule identifier. Empty values are ignored.
func WithNodeContext(logger interfaces.Logger, path, id, rule string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldNodePath] = trimmed
	}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields[fieldNodeID] = trimmed
	}
	if trimmed := strings.TrimSpace(rule); trimmed != "" {
		fields[fieldRule] = trimmed
	}
	return WithFields(logger, fields)
}

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// NoOp returns a logger that drops every entry. It satisfies the Logger
// contract so pipeline stages can operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

// NoOpProvider returns a provider whose loggers drop every entry.
func NoOpProvider() interfaces.LoggerProvider {
	return noopProvider{}
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return NoOp() }

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
