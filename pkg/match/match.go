// Package match implements the text matching primitives used by the
// criteria engine: case-insensitive substring tests, regular expressions,
// and gitignore-style globs including multi-line pattern lists with
// negation and last-match-wins semantics.
package match

import (
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/arthur-debert/vaultpub/pkg/logging"
)

// Mode selects how a pattern is interpreted.
type Mode string

const (
	// ModeContains performs a case-insensitive substring test.
	ModeContains Mode = "contains"
	// ModeRegex compiles the pattern as a case-insensitive regular
	// expression. Invalid patterns never match.
	ModeRegex Mode = "regex"
	// ModeGlob treats the pattern as a single gitignore-style glob line.
	ModeGlob Mode = "glob"
)

// Text reports whether input matches pattern under the given mode.
// Pattern errors fail closed: they are logged and reported as no match,
// never returned to the caller.
func Text(pattern, input string, mode Mode) bool {
	switch mode {
	case ModeContains:
		return strings.Contains(strings.ToLower(input), strings.ToLower(pattern))
	case ModeRegex:
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			logger := logging.GetLogger("match")
			logger.Debug().Err(err).Str("pattern", pattern).Msg("Invalid regex, treating as no match")
			return false
		}
		return re.MatchString(input)
	case ModeGlob:
		return globLine(pattern, input)
	default:
		return false
	}
}

// GlobList evaluates a multi-line gitignore-style pattern list against
// input. Blank lines and #-comments are skipped, a leading ! negates a
// line, and the last matching line in document order determines the
// verdict. An empty list never matches.
func GlobList(list, input string) bool {
	matched := false
	for _, line := range strings.Split(list, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		negated := strings.HasPrefix(line, "!")
		glob := strings.TrimPrefix(line, "!")
		if glob == "" {
			continue
		}

		if globLine(glob, input) {
			// Every matching line overwrites the running verdict, so
			// the last match wins.
			matched = !negated
		}
	}
	return matched
}

// globLine tests a single gitignore-style glob against a slash-separated
// path. A pattern without a separator also matches on the basename,
// following the gitignore convention. Dotfiles are included. An invalid
// pattern is logged and never matches.
func globLine(pattern, input string) bool {
	ok, err := doublestar.Match(pattern, input)
	if err != nil {
		logger := logging.GetLogger("match")
		logger.Debug().Err(err).Str("pattern", pattern).Msg("Invalid glob, treating as no match")
		return false
	}
	if ok {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, err = doublestar.Match(pattern, path.Base(input))
		if err != nil {
			return false
		}
		return ok
	}
	return false
}
