package rules

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// ErrSecretPatternInvalid indicates a configured credential pattern does not
// compile.
var ErrSecretPatternInvalid = errors.New("rules: secret pattern does not compile")

// defaultSecretPatterns covers the credential shapes most likely to land in
// a memory bank by accident: cloud key ids, forge and chat tokens, PEM
// headers, and inline assignments. Node bodies quote code and logs freely,
// which is exactly how secrets leak into documentation.
var defaultSecretPatterns = []string{
	`AKIA[0-9A-Z]{16}`,
	`gh[pousr]_[A-Za-z0-9]{30,}`,
	`xox[baprs]-[A-Za-z0-9-]{10,}`,
	`-----BEGIN (?:RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`,
	`(?i)\b(?:api[_-]?key|secret|token|password)\s*[:=]\s*['"]?[A-Za-z0-9_\-]{16,}`,
}

// SecretScanner matches node bodies against credential-shaped tokens.
type SecretScanner struct {
	patterns []*regexp.Regexp
}

// NewSecretScanner compiles the supplied patterns, falling back to the
// built-in list when none are given.
func NewSecretScanner(patterns []string) (*SecretScanner, error) {
	if len(patterns) == 0 {
		patterns = defaultSecretPatterns
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrSecretPatternInvalid, pattern, err)
		}
		compiled = append(compiled, re)
	}
	return &SecretScanner{patterns: compiled}, nil
}

// Scan returns the source expression of every pattern the body matches,
// sorted and deduplicated. The matched text itself is never returned; echoing
// a credential into the findings report would leak it a second time.
func (s *SecretScanner) Scan(body []byte) []string {
	var matched []string
	for _, re := range s.patterns {
		if re.Match(body) {
			matched = append(matched, re.String())
		}
	}
	sort.Strings(matched)
	return matched
}
