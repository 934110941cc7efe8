package nodes

import (
	"strings"
	"time"

	"github.com/goliatone/go-notegraph/internal/markdown"
)

// Type identifies one of the closed set of node kinds. The kind determines
// which frontmatter fields are required.
type Type string

const (
	TypeIndex         Type = "index"
	TypeReleaseReview Type = "release_review"
	TypeDevTask       Type = "dev_task"
	TypeProjectEntity Type = "project_entity"
	TypeConfigKey     Type = "config_key"
)

// Types enumerates every recognized node kind in stable order.
func Types() []Type {
	return []Type{TypeIndex, TypeReleaseReview, TypeDevTask, TypeProjectEntity, TypeConfigKey}
}

// ParseType maps a frontmatter value onto a Type.
func ParseType(value string) (Type, bool) {
	candidate := Type(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Types() {
		if candidate == known {
			return known, true
		}
	}
	return "", false
}

// Status is the lifecycle marker of a node. Transitions only move forward
// (stub to curated) under normal maintenance.
type Status string

const (
	StatusStub    Status = "stub"
	StatusCurated Status = "curated"
)

// Node is one parsed Markdown document in the memory bank.
type Node struct {
	ID          string
	Type        Type
	Title       string
	Description string
	Status      Status
	Tags        []string
	Release     string
	SourcePaths []string
	Related     []string
	Tasks       []string
	Created     time.Time
	Updated     time.Time

	// Path is slash-separated and relative to the lint root.
	Path     string
	Body     []byte
	Links    []markdown.LinkRef
	Checksum []byte
	ModTime  time.Time
	Raw      map[string]any
}

// Timestamp returns the best-known last-touch time for staleness checks: the
// frontmatter updated field when present, the file modification time otherwise.
func (n *Node) Timestamp() time.Time {
	if !n.Updated.IsZero() {
		return n.Updated
	}
	return n.ModTime
}

// Layer returns the top-level grouping the node file lives under, or an empty
// string for files at the root.
func (n *Node) Layer() string {
	if idx := strings.IndexByte(n.Path, '/'); idx > 0 {
		return n.Path[:idx]
	}
	return ""
}
