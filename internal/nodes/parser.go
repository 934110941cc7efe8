package nodes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-notegraph/internal/logging"
	"github.com/goliatone/go-notegraph/internal/markdown"
	"github.com/goliatone/go-notegraph/pkg/interfaces"
)

const defaultWorkers = 4

// Config controls node discovery and parsing.
type Config struct {
	BasePath  string
	Pattern   string
	Exclude   []string
	Recursive bool
	// Workers bounds the concurrent parse stage; zero selects the default.
	Workers int
}

// ParseResult aggregates one pass over a node tree.
type ParseResult struct {
	// Nodes holds every successfully typed node, sorted by path.
	Nodes []*Node
	// Failures holds fatal-to-file problems, sorted by path.
	Failures []ParseFailure
	// Files counts the Markdown files discovered, parsed or not.
	Files int
}

// Parser turns node files into typed records. Parsing is pure per file, so a
// directory pass fans out across a bounded worker pool and re-sorts results
// for deterministic output.
type Parser struct {
	loader   *markdown.Loader
	registry *Registry
	workers  int
	logger   interfaces.Logger
}

// NewParser constructs a Parser rooted at cfg.BasePath on the host
// filesystem. A missing or unreadable base path is fatal to the run.
func NewParser(cfg Config, provider interfaces.LoggerProvider) (*Parser, error) {
	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("nodes: stat base path %s: %w", basePath, err)
	}
	return NewParserFS(os.DirFS(basePath), cfg, provider)
}

// NewParserFS constructs a Parser over an arbitrary filesystem, which keeps
// tests hermetic.
func NewParserFS(filesystem fs.FS, cfg Config, provider interfaces.LoggerProvider) (*Parser, error) {
	loader, err := markdown.NewLoader(filesystem, markdown.LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Exclude:   cfg.Exclude,
		Recursive: cfg.Recursive,
	})
	if err != nil {
		return nil, err
	}

	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	return &Parser{
		loader:   loader,
		registry: registry,
		workers:  workers,
		logger:   logging.NodesLogger(provider),
	}, nil
}

// ParseFile parses a single node file. The returned node is nil when the
// file could not be typed; failures carry everything the rule checker needs
// to surface the problem.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Node, []ParseFailure, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	file, err := p.loader.LoadFile(ctx, path)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil, err
		}
		return nil, []ParseFailure{{
			Path:    path,
			Reason:  FailureReadError,
			Message: err.Error(),
		}}, nil
	}

	meta, body, err := markdown.ParseFrontMatter(file.Source)
	if err != nil {
		reason := FailureMetadataMalformed
		if errors.Is(err, markdown.ErrFrontMatterMissing) {
			reason = FailureFrontMatterMissing
		}
		return nil, []ParseFailure{{
			Path:    file.Path,
			Reason:  reason,
			Message: err.Error(),
		}}, nil
	}

	typ, ok := ParseType(meta.Type)
	if !ok {
		return nil, []ParseFailure{{
			Path:    file.Path,
			ID:      strings.TrimSpace(meta.ID),
			Reason:  FailureUnknownType,
			Message: fmt.Sprintf("%s: %q", ErrUnknownNodeType, meta.Type),
		}}, nil
	}

	var failures []ParseFailure
	if issues := p.registry.Validate(typ, meta.Raw()); len(issues) > 0 {
		failures = append(failures, ParseFailure{
			Path:    file.Path,
			ID:      strings.TrimSpace(meta.ID),
			Reason:  FailureRequiredField,
			Message: joinIssues(issues),
		})
	}

	node := &Node{
		ID:          strings.TrimSpace(meta.ID),
		Type:        typ,
		Title:       meta.Title,
		Description: meta.Description,
		Status:      Status(strings.ToLower(strings.TrimSpace(meta.Status))),
		Tags:        append([]string(nil), meta.Tags...),
		Release:     meta.Release,
		SourcePaths: append([]string(nil), meta.SourcePaths...),
		Related:     append([]string(nil), meta.Related...),
		Tasks:       append([]string(nil), meta.Tasks...),
		Created:     meta.Created,
		Updated:     meta.Updated,
		Path:        file.Path,
		Body:        body,
		Links:       markdown.ExtractLinks(body),
		Checksum:    file.Checksum,
		ModTime:     file.ModTime,
		Raw:         meta.Raw(),
	}

	return node, failures, nil
}

// ParseDirectory parses every matching file under the base path. Individual
// file problems become failures; only filesystem-level walk errors or
// context cancellation abort the pass.
func (p *Parser) ParseDirectory(ctx context.Context) (*ParseResult, error) {
	paths, err := p.loader.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("nodes: discover files: %w", err)
	}

	workers := p.workers
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	var (
		mu       sync.Mutex
		parsed   []*Node
		failures []ParseFailure
		firstErr error
	)

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				node, fails, err := p.ParseFile(ctx, path)

				mu.Lock()
				switch {
				case err != nil:
					if firstErr == nil {
						firstErr = err
					}
				default:
					if node != nil {
						parsed = append(parsed, node)
					}
					failures = append(failures, fails...)
				}
				mu.Unlock()
			}
		}()
	}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- path:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(parsed, func(i, j int) bool {
		return parsed[i].Path < parsed[j].Path
	})
	sort.Slice(failures, func(i, j int) bool {
		if failures[i].Path != failures[j].Path {
			return failures[i].Path < failures[j].Path
		}
		return failures[i].Reason < failures[j].Reason
	})

	p.logger.Debug("parse pass complete",
		"files", len(paths),
		"nodes", len(parsed),
		"failures", len(failures),
	)

	return &ParseResult{
		Nodes:    parsed,
		Failures: failures,
		Files:    len(paths),
	}, nil
}

func joinIssues(issues []Issue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		location := issue.Location
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}
