package nodes

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-notegraph/internal/logging"
)

func TestParseFileBuildsNode(t *testing.T) {
	fsys := fstest.MapFS{
		"tasks/DEV-001.md": noteFile(`---
id: DEV-001
type: dev_task
title: Ship incremental sync
status: curated
related:
  - release-1.2
updated: 2026-05-01T12:00:00Z
---

See the [release review](../project/release-1.2.md).
`),
	}

	parser := newTestParser(t, fsys, Config{})

	node, failures, err := parser.ParseFile(context.Background(), "tasks/DEV-001.md")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("expected no failures, got %#v", failures)
	}
	if node == nil {
		t.Fatalf("expected node to be built")
	}

	if node.ID != "DEV-001" || node.Type != TypeDevTask || node.Status != StatusCurated {
		t.Fatalf("node identity mismatch: %#v", node)
	}
	if node.Path != "tasks/DEV-001.md" {
		t.Fatalf("Path mismatch, got %q", node.Path)
	}
	if len(node.Links) != 1 || node.Links[0].Target != "../project/release-1.2.md" {
		t.Fatalf("expected one outgoing path link, got %#v", node.Links)
	}
	if len(node.Related) != 1 || node.Related[0] != "release-1.2" {
		t.Fatalf("Related mismatch: %#v", node.Related)
	}
	if node.Updated.IsZero() || node.Timestamp() != node.Updated {
		t.Fatalf("expected updated frontmatter to drive Timestamp")
	}
	if len(node.Checksum) == 0 {
		t.Fatalf("expected checksum to be populated")
	}
	if node.Layer() != "tasks" {
		t.Fatalf("expected layer tasks, got %q", node.Layer())
	}
}

func TestParseFileFrontMatterMissing(t *testing.T) {
	fsys := fstest.MapFS{
		"loose.md": noteFile("# No metadata here\n"),
	}

	parser := newTestParser(t, fsys, Config{})

	node, failures, err := parser.ParseFile(context.Background(), "loose.md")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if node != nil {
		t.Fatalf("untyped file must not yield a node")
	}
	if len(failures) != 1 || failures[0].Reason != FailureFrontMatterMissing {
		t.Fatalf("expected frontmatter_missing failure, got %#v", failures)
	}
}

func TestParseFileUnknownType(t *testing.T) {
	fsys := fstest.MapFS{
		"note.md": noteFile(`---
id: mystery
type: scratchpad
title: Mystery note
status: stub
---

Body.
`),
	}

	parser := newTestParser(t, fsys, Config{})

	node, failures, err := parser.ParseFile(context.Background(), "note.md")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if node != nil {
		t.Fatalf("unknown type must not yield a node")
	}
	if len(failures) != 1 || failures[0].Reason != FailureUnknownType {
		t.Fatalf("expected unknown_node_type failure, got %#v", failures)
	}
	if failures[0].ID != "mystery" {
		t.Fatalf("expected best-effort id on failure, got %q", failures[0].ID)
	}
}

func TestParseFileRequiredFieldKeepsNode(t *testing.T) {
	fsys := fstest.MapFS{
		"project/release-1.2.md": noteFile(`---
id: release-1.2
type: release_review
title: Release 1.2 review
status: curated
---

Missing the release field.
`),
	}

	parser := newTestParser(t, fsys, Config{})

	node, failures, err := parser.ParseFile(context.Background(), "project/release-1.2.md")
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(failures) != 1 || failures[0].Reason != FailureRequiredField {
		t.Fatalf("expected required_field_missing failure, got %#v", failures)
	}
	if node == nil {
		t.Fatalf("node with missing required field must still enter the graph")
	}
	if node.ID != "release-1.2" {
		t.Fatalf("node id mismatch: %q", node.ID)
	}
}

func TestParseDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"index.md": noteFile(`---
id: index
type: index
title: Graph index
status: curated
---

- [DEV-001](tasks/DEV-001.md)
`),
		"tasks/DEV-001.md": noteFile(`---
id: DEV-001
type: dev_task
title: Ship incremental sync
status: curated
---

Body.
`),
		"tasks/broken.md": noteFile("no frontmatter\n"),
		"notes.txt":       noteFile("not a node\n"),
	}

	parser := newTestParser(t, fsys, Config{Recursive: true, Workers: 2})

	result, err := parser.ParseDirectory(context.Background())
	if err != nil {
		t.Fatalf("ParseDirectory: %v", err)
	}

	if result.Files != 3 {
		t.Fatalf("expected 3 markdown files, got %d", result.Files)
	}
	if len(result.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(result.Nodes))
	}
	if result.Nodes[0].Path != "index.md" || result.Nodes[1].Path != "tasks/DEV-001.md" {
		t.Fatalf("nodes not sorted by path: %q, %q", result.Nodes[0].Path, result.Nodes[1].Path)
	}
	if len(result.Failures) != 1 || result.Failures[0].Path != "tasks/broken.md" {
		t.Fatalf("expected one failure for tasks/broken.md, got %#v", result.Failures)
	}
}

func TestParseDirectoryDeterministic(t *testing.T) {
	fsys := fstest.MapFS{}
	for _, name := range []string{"c.md", "a.md", "b.md"} {
		fsys["tasks/"+name] = noteFile(`---
id: ` + name + `
type: dev_task
title: Task
status: stub
---

Body.
`)
	}

	parser := newTestParser(t, fsys, Config{Recursive: true, Workers: 3})

	var previous []string
	for run := 0; run < 5; run++ {
		result, err := parser.ParseDirectory(context.Background())
		if err != nil {
			t.Fatalf("ParseDirectory run %d: %v", run, err)
		}
		var order []string
		for _, node := range result.Nodes {
			order = append(order, node.Path)
		}
		if previous != nil {
			for i := range order {
				if order[i] != previous[i] {
					t.Fatalf("ordering changed between runs: %v vs %v", order, previous)
				}
			}
		}
		previous = order
	}
}

func TestParseDirectoryCancelled(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": noteFile("---\nid: a\ntype: index\ntitle: A\nstatus: stub\n---\n"),
	}

	parser := newTestParser(t, fsys, Config{Recursive: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := parser.ParseDirectory(ctx); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func newTestParser(tb testing.TB, fsys fstest.MapFS, cfg Config) *Parser {
	tb.Helper()
	parser, err := NewParserFS(fsys, cfg, logging.NoOpProvider())
	if err != nil {
		tb.Fatalf("NewParserFS: %v", err)
	}
	return parser
}

func noteFile(content string) *fstest.MapFile {
	return &fstest.MapFile{
		Data:    []byte(content),
		ModTime: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
	}
}
