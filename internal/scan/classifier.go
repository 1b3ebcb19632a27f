package scan

import (
	"bytes"
	"io/fs"
	"os"
	"strings"

	"github.com/temirov/arc/internal/types"
	"github.com/temirov/arc/internal/utils"
)

// Classifier applies a RuleSet to filesystem entries. Classification of a
// given (path, bytes) pair is deterministic: identical inputs always yield
// the same decision.
type Classifier struct {
	rules *RuleSet
}

// NewClassifier returns a classifier bound to the provided rule set.
func NewClassifier(rules *RuleSet) *Classifier {
	return &Classifier{rules: rules}
}

// ShouldDescend reports whether the walker should enter a directory. Pruned
// directories are never descended into, so their children are never visited.
func (classifier *Classifier) ShouldDescend(absolutePath string, relativePath string, baseName string) bool {
	if baseName == utils.GitDirectoryName {
		return false
	}
	if !classifier.rules.includeHidden && utils.IsHiddenName(baseName) {
		return false
	}
	if matchesAny(classifier.rules.excludePatterns, relativePath) {
		return false
	}
	if classifier.rules.matchesIgnore(absolutePath, true) {
		return false
	}
	return true
}

// Classify decides the fate of one regular file. Decisions are evaluated in
// precedence order: pattern exclusion (hidden names, exclude rules, ignore
// files, failed inclusion, narrowing filters), then the size cutoff, then
// the binary sniff.
func (classifier *Classifier) Classify(absolutePath string, relativePath string, fileInfo fs.FileInfo) (types.Decision, error) {
	baseName := fileInfo.Name()
	if !classifier.rules.includeHidden && utils.IsHiddenName(baseName) {
		return types.DecisionExcludeByPattern, nil
	}
	if matchesAny(classifier.rules.excludePatterns, relativePath) {
		return types.DecisionExcludeByPattern, nil
	}
	if classifier.rules.matchesIgnore(absolutePath, false) {
		return types.DecisionExcludeByPattern, nil
	}
	if len(classifier.rules.includePatterns) > 0 && !matchesAny(classifier.rules.includePatterns, relativePath) {
		return types.DecisionExcludeByPattern, nil
	}
	if len(classifier.rules.pathContains) > 0 && !containsAnySubstring(relativePath, classifier.rules.pathContains) {
		return types.DecisionExcludeByPattern, nil
	}
	if fileInfo.Size() > classifier.rules.MaxFileSizeBytes() {
		return types.DecisionExcludeBySize, nil
	}
	if !classifier.rules.includeBinary {
		isBinary, sniffError := utils.IsFileBinary(absolutePath)
		if sniffError != nil {
			return types.DecisionExcludeByPattern, &types.AccessError{Path: absolutePath, Err: sniffError}
		}
		if isBinary {
			return types.DecisionExcludeBinary, nil
		}
	}
	if len(classifier.rules.contentContains) > 0 {
		matched, readError := fileContainsAny(absolutePath, classifier.rules.contentContains)
		if readError != nil {
			return types.DecisionExcludeByPattern, &types.AccessError{Path: absolutePath, Err: readError}
		}
		if !matched {
			return types.DecisionExcludeByPattern, nil
		}
	}
	return types.DecisionInclude, nil
}

// containsAnySubstring reports whether the path contains any of the needles.
func containsAnySubstring(relativePath string, needles []string) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", "/")
	for _, needle := range needles {
		if strings.Contains(normalizedPath, needle) {
			return true
		}
	}
	return false
}

// fileContainsAny reports whether the file content contains any needle.
func fileContainsAny(absolutePath string, needles []string) (bool, error) {
	contentBytes, readError := os.ReadFile(absolutePath)
	if readError != nil {
		return false, readError
	}
	for _, needle := range needles {
		if bytes.Contains(contentBytes, []byte(needle)) {
			return true, nil
		}
	}
	return false, nil
}
