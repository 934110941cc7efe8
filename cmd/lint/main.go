package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	notegraph "github.com/goliatone/go-notegraph"
	"github.com/goliatone/go-notegraph/internal/report"
)

const (
	exitOK = iota
	exitFindings
	exitFatal
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("notegraph-lint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	root := fs.String("root", "", "Root folder of the node tree (defaults to config root)")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering node files")
	configPath := fs.String("config", "", "Path to a YAML configuration file")
	format := fs.String("format", "text", "Report format: text or json")
	stalenessDays := fs.Int("staleness-days", -1, "Flag stub nodes older than this many days (0 disables)")
	failOnWarnings := fs.Bool("fail-on-warnings", false, "Exit non-zero when warnings are present")
	workers := fs.Int("workers", 0, "Concurrent parse workers (0 keeps the configured value)")
	logLevel := fs.String("log-level", "", "Minimum log level (trace..fatal)")
	logProvider := fs.String("log-provider", "", "Logging provider: console, gologger, or noop")

	var excludes stringList
	fs.Var(&excludes, "exclude", "Glob to exclude, matched against root-relative paths (repeatable)")

	if err := fs.Parse(args); err != nil {
		return exitFatal
	}

	switch *format {
	case "text", "json":
	default:
		fmt.Fprintf(stderr, "notegraph-lint: unknown format %q\n", *format)
		return exitFatal
	}

	cfg, err := resolveConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "notegraph-lint: %v\n", err)
		return exitFatal
	}

	if *stalenessDays >= 0 {
		cfg.Rules.StalenessDays = *stalenessDays
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if strings.TrimSpace(*logLevel) != "" {
		cfg.Logging.Level = *logLevel
	}
	if strings.TrimSpace(*logProvider) != "" {
		cfg.Logging.Provider = *logProvider
	}

	module, err := notegraph.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "notegraph-lint: %v\n", err)
		return exitFatal
	}

	var rep *report.Report
	handler := module.RunHandler(func(r *report.Report) { rep = r })

	lintRoot := strings.TrimSpace(*root)
	if lintRoot == "" {
		lintRoot = cfg.Root
	}

	err = handler.Execute(context.Background(), notegraph.RunCommand{
		Root:    lintRoot,
		Pattern: *pattern,
		Exclude: excludes,
	})
	if err != nil {
		fmt.Fprintf(stderr, "notegraph-lint: %v\n", err)
		return exitFatal
	}

	if rep == nil {
		fmt.Fprintln(stderr, "notegraph-lint: no report produced")
		return exitFatal
	}

	switch *format {
	case "json":
		err = rep.WriteJSON(stdout)
	default:
		err = rep.WriteText(stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "notegraph-lint: write report: %v\n", err)
		return exitFatal
	}

	strict := *failOnWarnings || cfg.FailOnWarnings
	if rep.Failed() || (strict && rep.FailedStrict()) {
		return exitFindings
	}
	return exitOK
}

func resolveConfig(path string) (notegraph.Config, error) {
	if strings.TrimSpace(path) == "" {
		return notegraph.DefaultConfig(), nil
	}
	return notegraph.LoadConfig(path)
}

// stringList collects repeatable flag values.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		*l = append(*l, trimmed)
	}
	return nil
}
