package scan

import (
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/arc/internal/types"
	"github.com/temirov/arc/internal/utils"
)

// WalkOptions configures one traversal of a single root.
type WalkOptions struct {
	// Root is the validated path to walk. A file root yields at most one entry.
	Root types.ValidatedPath
	// Rules drives classification and directory pruning.
	Rules *RuleSet
	// FailFast aborts the walk on the first access failure instead of
	// recording it and continuing.
	FailFast bool
	// Logger receives per-entry decisions at debug level and access warnings.
	Logger *zap.Logger
}

// WalkResult carries the ordered entries of one traversal plus the access
// failures that were skipped along the way.
type WalkResult struct {
	Entries  []types.FileEntry
	Warnings []*types.AccessError
}

// Walk traverses the root depth-first in lexicographic order and classifies
// every visited regular file. Excluded files are still reported as entries,
// carrying their decision, so the run summary can account for them. Pruned
// directories are not descended into and contribute no entries.
func Walk(options WalkOptions) (WalkResult, error) {
	classifier := NewClassifier(options.Rules)
	walkResult := WalkResult{}

	recordAccessFailure := func(failedPath string, cause error) error {
		accessError := &types.AccessError{Path: failedPath, Err: cause}
		if options.FailFast {
			return accessError
		}
		if options.Logger != nil {
			options.Logger.Warn("skipping unreadable entry", zap.String("path", failedPath), zap.Error(cause))
		}
		walkResult.Warnings = append(walkResult.Warnings, accessError)
		return nil
	}

	if !options.Root.IsDir {
		fileInfo, statError := os.Stat(options.Root.AbsolutePath)
		if statError != nil {
			return walkResult, recordAccessFailure(options.Root.AbsolutePath, statError)
		}
		entryDecision, classifyError := classifier.Classify(options.Root.AbsolutePath, fileInfo.Name(), fileInfo)
		if classifyError != nil {
			return walkResult, recordAccessFailure(options.Root.AbsolutePath, classifyError)
		}
		walkResult.Entries = append(walkResult.Entries, buildFileEntry(options.Root.AbsolutePath, fileInfo.Name(), fileInfo, entryDecision))
		return walkResult, nil
	}

	walkError := filepath.WalkDir(options.Root.AbsolutePath, func(currentPath string, directoryEntry fs.DirEntry, visitError error) error {
		if visitError != nil {
			failureResult := recordAccessFailure(currentPath, visitError)
			if failureResult != nil {
				return failureResult
			}
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(currentPath, options.Root.AbsolutePath)

		if directoryEntry.IsDir() {
			if relativePath == "." {
				return nil
			}
			if !classifier.ShouldDescend(currentPath, relativePath, directoryEntry.Name()) {
				if options.Logger != nil {
					options.Logger.Debug("pruning directory", zap.String("path", relativePath))
				}
				return filepath.SkipDir
			}
			return nil
		}
		if !directoryEntry.Type().IsRegular() {
			return nil
		}

		fileInfo, infoError := directoryEntry.Info()
		if infoError != nil {
			return recordAccessFailure(currentPath, infoError)
		}
		entryDecision, classifyError := classifier.Classify(currentPath, relativePath, fileInfo)
		if classifyError != nil {
			return recordAccessFailure(currentPath, classifyError)
		}
		if options.Logger != nil {
			options.Logger.Debug("classified file",
				zap.String("path", relativePath),
				zap.String("decision", string(entryDecision)))
		}
		walkResult.Entries = append(walkResult.Entries, buildFileEntry(currentPath, relativePath, fileInfo, entryDecision))
		return nil
	})
	if walkError != nil {
		return walkResult, walkError
	}
	return walkResult, nil
}

// buildFileEntry assembles the metadata record for one visited file.
func buildFileEntry(absolutePath string, relativePath string, fileInfo fs.FileInfo, entryDecision types.Decision) types.FileEntry {
	return types.FileEntry{
		AbsolutePath: absolutePath,
		RelativePath: filepath.ToSlash(relativePath),
		SizeBytes:    fileInfo.Size(),
		LastModified: utils.FormatTimestamp(fileInfo.ModTime()),
		Decision:     entryDecision,
	}
}
