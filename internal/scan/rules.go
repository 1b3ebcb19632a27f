// Package scan implements directory traversal and file classification.
package scan

import (
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/temirov/arc/internal/types"
	"github.com/temirov/arc/internal/utils"
)

// defaultMaxFileSizeBytes caps file content reads at 1 MiB unless configured.
const defaultMaxFileSizeBytes = int64(1024 * 1024)

// RuleSet is the immutable filter configuration threaded through one scan run.
// Exclusion rules always take precedence over inclusion rules: an entry
// matched by both is excluded, because the tool's purpose is a curated
// subset of the tree, not an exhaustive dump.
type RuleSet struct {
	includePatterns  []string
	excludePatterns  []string
	pathContains     []string
	contentContains  []string
	maxFileSizeBytes int64
	includeHidden    bool
	includeBinary    bool
	ignoreMatchers   []gitignore.IgnoreMatcher
}

// RuleOptions carries the raw filter configuration used to build a RuleSet.
type RuleOptions struct {
	// IncludePatterns is an allow list. A pattern starting with a dot is an
	// extension suffix; a pattern containing glob metacharacters is matched
	// with filepath.Match against the base name and the relative path. An
	// empty list admits every entry.
	IncludePatterns []string
	// ExcludePatterns is a deny list with the same pattern forms; patterns
	// without glob metacharacters match as relative-path substrings.
	ExcludePatterns []string
	// PathContains narrows included files to those whose relative path
	// contains one of the provided substrings.
	PathContains []string
	// ContentContains narrows included files to those whose content contains
	// one of the provided substrings.
	ContentContains []string
	// MaxFileSizeBytes excludes files above the cutoff; zero selects the
	// built-in default.
	MaxFileSizeBytes int64
	// IncludeHidden admits dot-prefixed files and directories.
	IncludeHidden bool
	// IncludeBinary admits files whose sniffed prefix looks binary.
	IncludeBinary bool
}

// NewRuleSet validates the provided options and returns an immutable rule
// set. Invalid glob syntax is reported as a fatal types.ConfigError before
// any traversal begins.
func NewRuleSet(options RuleOptions) (*RuleSet, error) {
	for _, patternGroup := range []struct {
		field    string
		patterns []string
	}{
		{field: "include_patterns", patterns: options.IncludePatterns},
		{field: "exclude_patterns", patterns: options.ExcludePatterns},
	} {
		for _, patternValue := range patternGroup.patterns {
			if strings.TrimSpace(patternValue) == "" {
				return nil, &types.ConfigError{Field: patternGroup.field, Reason: "empty pattern"}
			}
			if _, matchError := filepath.Match(patternValue, "probe"); matchError != nil {
				return nil, &types.ConfigError{Field: patternGroup.field, Reason: "invalid glob pattern " + patternValue}
			}
		}
	}
	if options.MaxFileSizeBytes < 0 {
		return nil, &types.ConfigError{Field: "max_file_size", Reason: "size cutoff must not be negative"}
	}

	maxFileSizeBytes := options.MaxFileSizeBytes
	if maxFileSizeBytes == 0 {
		maxFileSizeBytes = defaultMaxFileSizeBytes
	}

	return &RuleSet{
		includePatterns:  utils.DeduplicatePatterns(options.IncludePatterns),
		excludePatterns:  utils.DeduplicatePatterns(options.ExcludePatterns),
		pathContains:     options.PathContains,
		contentContains:  options.ContentContains,
		maxFileSizeBytes: maxFileSizeBytes,
		includeHidden:    options.IncludeHidden,
		includeBinary:    options.IncludeBinary,
	}, nil
}

// WithoutIgnoreMatchers returns a copy of the rule set carrying no ignore
// matchers. Each scan root attaches its own ignore files to such a copy so
// one root's rules never leak into another root's traversal.
func (rules *RuleSet) WithoutIgnoreMatchers() *RuleSet {
	clone := *rules
	clone.ignoreMatchers = nil
	return &clone
}

// AddIgnoreMatcher registers a gitignore-style matcher (from .gitignore or
// the tool's own ignore file) consulted during classification.
func (rules *RuleSet) AddIgnoreMatcher(matcher gitignore.IgnoreMatcher) {
	if matcher != nil {
		rules.ignoreMatchers = append(rules.ignoreMatchers, matcher)
	}
}

// MaxFileSizeBytes returns the effective size cutoff.
func (rules *RuleSet) MaxFileSizeBytes() int64 {
	return rules.maxFileSizeBytes
}

// matchesIgnore reports whether any registered gitignore matcher rejects the
// path. Matchers resolve paths against the directory their ignore file lives
// in, so the absolute path is passed through.
func (rules *RuleSet) matchesIgnore(absolutePath string, isDirectory bool) bool {
	for _, matcher := range rules.ignoreMatchers {
		if matcher.Match(absolutePath, isDirectory) {
			return true
		}
	}
	return false
}

// matchesPattern evaluates one pattern against a relative path. Patterns with
// glob metacharacters use filepath.Match semantics against the base name and
// the full relative path; dot-prefixed patterns match as extension suffixes;
// anything else matches as a substring of the relative path.
func matchesPattern(patternValue, relativePath string) bool {
	baseName := filepath.Base(relativePath)
	if strings.ContainsAny(patternValue, "*?[") {
		if isMatched, matchError := filepath.Match(patternValue, baseName); matchError == nil && isMatched {
			return true
		}
		isMatched, matchError := filepath.Match(patternValue, filepath.ToSlash(relativePath))
		return matchError == nil && isMatched
	}
	if strings.HasPrefix(patternValue, ".") && !strings.Contains(patternValue, "/") {
		return strings.HasSuffix(baseName, patternValue)
	}
	return strings.Contains(filepath.ToSlash(relativePath), patternValue)
}

// matchesAny reports whether any pattern in the list matches the path.
func matchesAny(patterns []string, relativePath string) bool {
	for _, patternValue := range patterns {
		if matchesPattern(patternValue, relativePath) {
			return true
		}
	}
	return false
}
