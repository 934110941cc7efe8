package runtimeconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

var ErrRootRequired = errors.New("notegraph config: root directory is required")
var ErrWorkersInvalid = errors.New("notegraph config: workers must be zero or positive")
var ErrStalenessInvalid = errors.New("notegraph config: staleness days must be zero or positive")
var ErrSecretPatternInvalid = errors.New("notegraph config: secret pattern does not compile")
var ErrExcludeGlobInvalid = errors.New("notegraph config: exclude glob does not compile")
var ErrBacklinkPairIncomplete = errors.New("notegraph config: backlink pair requires both node types")
var ErrLoggingProviderUnknown = errors.New("notegraph config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("notegraph config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("notegraph config: logging format is invalid")

// Config aggregates discovery, rule, and logging settings for a lint run.
// Fields intentionally use simple types so host applications can embed the
// struct in their own configuration.
type Config struct {
	// Root is the directory holding the node tree.
	Root string `yaml:"root"`
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string `yaml:"pattern"`
	// Exclude lists glob expressions matched against root-relative paths.
	Exclude []string `yaml:"exclude"`
	// Recursive controls whether sub-directories are traversed.
	Recursive bool `yaml:"recursive"`
	// Layers enumerates the top-level groupings nodes are expected to live in.
	Layers []string `yaml:"layers"`
	// Workers bounds the concurrent parse stage; zero selects the default.
	Workers int `yaml:"workers"`
	// FailOnWarnings promotes warning findings to a failing exit status.
	FailOnWarnings bool          `yaml:"fail_on_warnings"`
	Rules          RulesConfig   `yaml:"rules"`
	Logging        LoggingConfig `yaml:"logging"`
}

// RulesConfig tunes the optional rule set.
type RulesConfig struct {
	// StalenessDays flags stub nodes untouched for this many days; zero disables the rule.
	StalenessDays int `yaml:"staleness_days"`
	// SecretPatterns overrides the built-in credential regexes when non-empty.
	SecretPatterns []string `yaml:"secret_patterns"`
	// BacklinkTypes lists node type pairs expected to link reciprocally.
	BacklinkTypes []BacklinkPair `yaml:"backlink_types"`
	// IDFormat toggles the retrieval-safe id check.
	IDFormat bool `yaml:"id_format"`
}

// BacklinkPair names two node types whose edges should be reciprocal.
type BacklinkPair struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the settings a bare lint run starts from.
func DefaultConfig() Config {
	return Config{
		Root:      "docs/graph",
		Pattern:   "*.md",
		Recursive: true,
		Layers:    []string{"tasks", "project", "processes"},
		Workers:   4,
		Rules: RulesConfig{
			StalenessDays: 90,
			IDFormat:      true,
			BacklinkTypes: []BacklinkPair{
				{From: "dev_task", To: "release_review"},
			},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate reports the first inconsistency in the configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return ErrRootRequired
	}
	if c.Workers < 0 {
		return ErrWorkersInvalid
	}
	if c.Rules.StalenessDays < 0 {
		return ErrStalenessInvalid
	}
	for _, pattern := range c.Rules.SecretPatterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrSecretPatternInvalid, pattern, err)
		}
	}
	for _, pattern := range c.Exclude {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrExcludeGlobInvalid, pattern, err)
		}
	}
	for _, pair := range c.Rules.BacklinkTypes {
		if strings.TrimSpace(pair.From) == "" || strings.TrimSpace(pair.To) == "" {
			return ErrBacklinkPairIncomplete
		}
	}
	return c.Logging.validate()
}

func (l LoggingConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Provider)) {
	case "", "console", "gologger", "noop":
	default:
		return fmt.Errorf("%w: %q", ErrLoggingProviderUnknown, l.Provider)
	}

	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("%w: %q", ErrLoggingLevelInvalid, l.Level)
	}

	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "", "json", "console", "pretty":
	default:
		return fmt.Errorf("%w: %q", ErrLoggingFormatInvalid, l.Format)
	}
	return nil
}
