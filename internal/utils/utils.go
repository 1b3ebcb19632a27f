// Package utils contains general helper functions used across the arc tool.
package utils

import (
	"path/filepath"
	"strings"
)

// Ignore and configuration file constants used across the project.
const (
	// IgnoreFileName is the name of the tool's own ignore file.
	IgnoreFileName = ".arcignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// ConfigFileName is the local configuration file looked up in the
	// working directory.
	ConfigFileName = ".arc.yaml"
	// GlobalConfigDirectoryName is the per-user configuration directory
	// relative to the home directory.
	GlobalConfigDirectoryName = ".config/arc"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// IsHiddenName reports whether a base name denotes a hidden entry. The
// current and parent directory references are not considered hidden.
func IsHiddenName(baseName string) bool {
	if baseName == "." || baseName == ".." {
		return false
	}
	return strings.HasPrefix(baseName, ".")
}
