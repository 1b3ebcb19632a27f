package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/arc/internal/types"
	"github.com/temirov/arc/internal/utils"
)

// ValidatePaths resolves the provided scan roots to absolute paths and
// verifies each one exists. Duplicate roots are collapsed, first occurrence
// wins, so the same tree is never scanned twice.
func ValidatePaths(inputPaths []string) ([]types.ValidatedPath, error) {
	if len(inputPaths) == 0 {
		inputPaths = []string{"."}
	}
	seenPaths := make(map[string]struct{}, len(inputPaths))
	validatedPaths := make([]types.ValidatedPath, 0, len(inputPaths))
	for _, inputPath := range inputPaths {
		absolutePath, absoluteError := filepath.Abs(inputPath)
		if absoluteError != nil {
			return nil, fmt.Errorf("resolving path %s: %w", inputPath, absoluteError)
		}
		if _, alreadySeen := seenPaths[absolutePath]; alreadySeen {
			continue
		}
		seenPaths[absolutePath] = struct{}{}
		pathInfo, statError := os.Stat(absolutePath)
		if statError != nil {
			return nil, &types.AccessError{Path: inputPath, Err: statError}
		}
		validatedPaths = append(validatedPaths, types.ValidatedPath{
			AbsolutePath: absolutePath,
			IsDir:        pathInfo.IsDir(),
		})
	}
	return validatedPaths, nil
}

// UserConfigDirectory returns the per-user arc configuration directory, or
// an empty string when the home directory cannot be determined.
func UserConfigDirectory() string {
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil || homeDirectory == "" {
		return ""
	}
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
}
