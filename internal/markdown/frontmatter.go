package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

var (
	// ErrFrontMatterMissing indicates the file does not open with a YAML fence.
	ErrFrontMatterMissing = errors.New("markdown: frontmatter block missing")
	// ErrFrontMatterMalformed indicates the block is present but unparsable.
	ErrFrontMatterMalformed = errors.New("markdown: frontmatter block malformed")
)

var fence = []byte("---")

// NodeMeta is the structured frontmatter of one node file. Unknown keys are
// retained in Custom so per-type schemas can still see them.
type NodeMeta struct {
	ID          string         `yaml:"id"`
	Type        string         `yaml:"type"`
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Status      string         `yaml:"status"`
	Tags        []string       `yaml:"tags"`
	Release     string         `yaml:"release"`
	SourcePaths []string       `yaml:"source_paths"`
	Related     []string       `yaml:"related"`
	Tasks       []string       `yaml:"tasks"`
	Created     time.Time      `yaml:"created"`
	Updated     time.Time      `yaml:"updated"`
	Custom      map[string]any `yaml:",inline"`
}

// ParseFrontMatter extracts metadata and body content from the provided
// source bytes. The metadata block must be the first thing in the file; a
// missing block is a failure, not a warning.
func ParseFrontMatter(source []byte) (NodeMeta, []byte, error) {
	var meta NodeMeta

	if !hasOpeningFence(source) {
		return NodeMeta{}, nil, ErrFrontMatterMissing
	}
	if !hasClosingFence(source) {
		return NodeMeta{}, nil, fmt.Errorf("%w: unterminated fence", ErrFrontMatterMalformed)
	}

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return NodeMeta{}, nil, fmt.Errorf("%w: %v", ErrFrontMatterMalformed, err)
	}

	return meta, body, nil
}

// Raw flattens the metadata into a JSON-compatible map keyed by field name,
// suitable for schema validation. List values become []any and timestamps
// RFC 3339 strings.
func (m NodeMeta) Raw() map[string]any {
	raw := make(map[string]any, len(m.Custom)+12)
	for key, value := range m.Custom {
		raw[key] = value
	}

	setString := func(key, value string) {
		if value != "" {
			raw[key] = value
		}
	}
	setList := func(key string, values []string) {
		if len(values) > 0 {
			raw[key] = toAnySlice(values)
		}
	}

	setString("id", m.ID)
	setString("type", m.Type)
	setString("title", m.Title)
	setString("description", m.Description)
	setString("status", m.Status)
	setString("release", m.Release)
	setList("tags", m.Tags)
	setList("source_paths", m.SourcePaths)
	setList("related", m.Related)
	setList("tasks", m.Tasks)
	if !m.Created.IsZero() {
		raw["created"] = m.Created.UTC().Format(time.RFC3339)
	}
	if !m.Updated.IsZero() {
		raw["updated"] = m.Updated.UTC().Format(time.RFC3339)
	}

	return raw
}

func toAnySlice(values []string) []any {
	out := make([]any, len(values))
	for i, value := range values {
		out[i] = value
	}
	return out
}

func hasOpeningFence(source []byte) bool {
	if !bytes.HasPrefix(source, fence) {
		return false
	}
	rest := source[len(fence):]
	return bytes.HasPrefix(rest, []byte("\n")) || bytes.HasPrefix(rest, []byte("\r\n"))
}

func hasClosingFence(source []byte) bool {
	rest := source[len(fence):]
	next := bytes.IndexByte(rest, '\n')
	if next < 0 {
		return false
	}
	rest = rest[next+1:]

	for len(rest) > 0 {
		line := rest
		if i := bytes.IndexByte(rest, '\n'); i >= 0 {
			line = rest[:i]
			rest = rest[i+1:]
		} else {
			rest = nil
		}
		if bytes.Equal(bytes.TrimRight(line, "\r"), fence) {
			return true
		}
	}
	return false
}
