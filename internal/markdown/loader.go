package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

// LoaderConfig configures how node files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the root directory where node files live.
	BasePath string
	// Pattern limits discovered files to those matching the supplied glob (defaults to "*.md").
	Pattern string
	// Exclude lists glob expressions matched against slash-relative paths.
	Exclude []string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// File carries the raw contents of one discovered node file.
type File struct {
	// Path is slash-separated and relative to the loader's base path.
	Path     string
	Source   []byte
	Checksum []byte
	ModTime  time.Time
}

// Loader walks a filesystem and yields node file contents.
type Loader struct {
	fs        fs.FS
	basePath  string
	pattern   string
	excludes  []glob.Glob
	recursive bool
}

// NewLoader constructs a Loader using the provided filesystem and
// configuration. Exclude globs are compiled eagerly so bad patterns surface
// before any I/O happens.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) (*Loader, error) {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}

	excludes := make([]glob.Glob, 0, len(cfg.Exclude))
	for _, expr := range cfg.Exclude {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}
		compiled, err := glob.Compile(expr, '/')
		if err != nil {
			return nil, fmt.Errorf("markdown loader: compile exclude %q: %w", expr, err)
		}
		excludes = append(excludes, compiled)
	}

	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		pattern:   pattern,
		excludes:  excludes,
		recursive: cfg.Recursive,
	}, nil
}

// LoadFile reads a single node file relative to the base path.
func (l *Loader) LoadFile(ctx context.Context, path string) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := filepath.ToSlash(filepath.Clean(path))

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader: read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader: stat %s: %w", rel, err)
	}

	sum := sha256.Sum256(data)
	return &File{
		Path:     rel,
		Source:   data,
		Checksum: sum[:],
		ModTime:  info.ModTime(),
	}, nil
}

// Discover walks the tree and returns the sorted slash-relative paths of
// every matching node file.
func (l *Loader) Discover(ctx context.Context) ([]string, error) {
	var paths []string

	walkErr := fs.WalkDir(l.fs, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := filepath.ToSlash(path)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if !l.recursive || l.excluded(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}

		if !l.matchesPattern(rel) || l.excluded(rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(paths)
	return paths, nil
}

func (l *Loader) matchesPattern(path string) bool {
	pattern := filepath.ToSlash(l.pattern)
	target := path
	if !strings.Contains(pattern, "/") {
		target = filepath.Base(path)
	}
	match, err := filepath.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

func (l *Loader) excluded(path string) bool {
	for _, exclude := range l.excludes {
		if exclude.Match(path) || exclude.Match(strings.TrimSuffix(path, "/")) {
			return true
		}
	}
	return false
}
