package nodes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Issue captures a single frontmatter validation failure.
type Issue struct {
	Location string
	Message  string
}

// Registry validates raw frontmatter maps against the per-type schema set.
// Schemas compile once at construction so bad definitions surface before any
// file is read.
type Registry struct {
	schemas map[Type]*jsonschema.Schema
}

// NewRegistry compiles the built-in type schemas.
func NewRegistry() (*Registry, error) {
	registry := &Registry{schemas: make(map[Type]*jsonschema.Schema, len(typeSchemas))}
	for typ, definition := range typeSchemas {
		compiled, err := compileSchema(definition)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrRegistrySchemaBroken, typ, err)
		}
		registry.schemas[typ] = compiled
	}
	return registry, nil
}

// Validate checks a raw frontmatter map against the schema for the given
// type. A nil or empty slice means the frontmatter satisfies its contract.
func (r *Registry) Validate(typ Type, raw map[string]any) []Issue {
	schema, ok := r.schemas[typ]
	if !ok {
		return []Issue{{Message: fmt.Sprintf("no schema registered for type %q", typ)}}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	err := schema.Validate(raw)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return collectIssues(validationErr)
	}
	return []Issue{{Message: err.Error()}}
}

// baseProperties are shared by every node type. additionalProperties stays
// open because the authoring convention allows ad-hoc keys.
func baseSchema(extraRequired ...string) map[string]any {
	required := append([]string{"id", "type", "title", "status"}, extraRequired...)
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id":          map[string]any{"type": "string", "minLength": 1},
			"type":        map[string]any{"type": "string"},
			"title":       map[string]any{"type": "string", "minLength": 1},
			"description": map[string]any{"type": "string"},
			"status":      map[string]any{"type": "string", "enum": []any{"stub", "curated"}},
			"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"release":     map[string]any{"type": "string", "minLength": 1},
			"source_paths": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
			},
			"related": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"tasks":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"created": map[string]any{"type": "string"},
			"updated": map[string]any{"type": "string"},
		},
		"required":             required,
		"additionalProperties": true,
	}
}

var typeSchemas = map[Type]map[string]any{
	TypeIndex:         baseSchema(),
	TypeDevTask:       baseSchema(),
	TypeProjectEntity: baseSchema(),
	TypeReleaseReview: baseSchema("release"),
	TypeConfigKey:     baseSchema("source_paths"),
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("schema.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	if err == nil {
		return nil
	}
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
