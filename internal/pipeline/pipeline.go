// Package pipeline wires traversal, transformation, and aggregation into one
// run: walk every root, transform the included files on a bounded worker
// pool, and collect results in traversal order.
package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/arc/internal/compress"
	"github.com/temirov/arc/internal/scan"
	"github.com/temirov/arc/internal/strip"
	"github.com/temirov/arc/internal/tokenizer"
	"github.com/temirov/arc/internal/types"
	"github.com/temirov/arc/internal/utils"
)

// Options configures one pipeline run.
type Options struct {
	// Roots are the validated scan roots, processed in the given order.
	Roots []types.ValidatedPath
	// Rules drives classification; ignore matchers are attached per root.
	Rules *scan.RuleSet
	// RespectGitignore attaches each root's .gitignore to its rule set.
	RespectGitignore bool
	// StripComments enables the comment stripper for known formats.
	StripComments bool
	// Compress enables whitespace compression after stripping.
	Compress bool
	// FailFast aborts the run on the first access failure.
	FailFast bool
	// Workers bounds the parallel transform stage; zero means NumCPU.
	Workers int
	// Counter, when non-nil, produces per-file and total token counts.
	Counter tokenizer.Counter
	// ModelName labels the token counts in the summary.
	ModelName string
	// Registry resolves file paths to comment grammars.
	Registry *strip.Registry
	// Logger receives progress and warning events.
	Logger *zap.Logger
}

// Result is the completed run: the transformed documents in traversal order
// and the aggregate summary.
type Result struct {
	Documents []types.ProcessedContent
	Summary   types.ScanSummary
}

// Run executes the pipeline. Per-file failures are recorded as warnings and
// the run continues unless fail-fast is configured; the returned documents
// preserve traversal order regardless of worker completion order.
func Run(runContext context.Context, options Options) (Result, error) {
	allEntries, walkWarnings, walkError := walkRoots(options)
	if walkError != nil {
		return Result{}, walkError
	}

	includedEntries := make([]types.FileEntry, 0, len(allEntries))
	for _, fileEntry := range allEntries {
		if fileEntry.Decision == types.DecisionInclude {
			includedEntries = append(includedEntries, fileEntry)
		}
	}

	documents := make([]types.ProcessedContent, len(includedEntries))
	workerGroup, workerContext := errgroup.WithContext(runContext)
	workerCount := options.Workers
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	workerGroup.SetLimit(workerCount)

	for entryIndex := range includedEntries {
		entryIndex := entryIndex
		workerGroup.Go(func() error {
			if contextError := workerContext.Err(); contextError != nil {
				return contextError
			}
			document, transformError := transformFile(includedEntries[entryIndex], options)
			if transformError != nil {
				if options.FailFast {
					return transformError
				}
				document = types.ProcessedContent{
					Entry:   includedEntries[entryIndex],
					Warning: transformError.Error(),
				}
				if options.Logger != nil {
					options.Logger.Warn("skipping unreadable file", zap.Error(transformError))
				}
			}
			documents[entryIndex] = document
			return nil
		})
	}
	if groupError := workerGroup.Wait(); groupError != nil {
		return Result{}, groupError
	}

	// Files that could not be read after being classified as included are
	// dropped from the artifact; they stay visible through the warning count.
	finalDocuments := make([]types.ProcessedContent, 0, len(documents))
	failedReads := 0
	for _, document := range documents {
		if document.Warning != "" && document.Text == "" && !document.Stripped {
			failedReads++
			continue
		}
		finalDocuments = append(finalDocuments, document)
	}

	summary := buildSummary(allEntries, finalDocuments, walkWarnings+failedReads, options)
	summary.Included -= failedReads
	return Result{Documents: finalDocuments, Summary: summary}, nil
}

// walkRoots traverses every root in order, scoping ignore files to the root
// they were found under.
func walkRoots(options Options) ([]types.FileEntry, int, error) {
	var allEntries []types.FileEntry
	warningCount := 0
	multipleRoots := len(options.Roots) > 1
	for _, scanRoot := range options.Roots {
		rootRules := options.Rules.WithoutIgnoreMatchers()
		ignoreDirectory := scanRoot.AbsolutePath
		if !scanRoot.IsDir {
			ignoreDirectory = filepath.Dir(scanRoot.AbsolutePath)
		}
		scan.AttachIgnoreFiles(rootRules, ignoreDirectory, options.RespectGitignore)

		walkResult, rootWalkError := scan.Walk(scan.WalkOptions{
			Root:     scanRoot,
			Rules:    rootRules,
			FailFast: options.FailFast,
			Logger:   options.Logger,
		})
		if rootWalkError != nil {
			return nil, 0, rootWalkError
		}
		warningCount += len(walkResult.Warnings)
		for _, fileEntry := range walkResult.Entries {
			if multipleRoots && scanRoot.IsDir {
				fileEntry.RelativePath = filepath.ToSlash(filepath.Join(filepath.Base(scanRoot.AbsolutePath), fileEntry.RelativePath))
			}
			allEntries = append(allEntries, fileEntry)
		}
	}
	return allEntries, warningCount, nil
}

// transformFile reads one included file and applies the configured stages:
// comment stripping, whitespace compression, and token counting.
func transformFile(fileEntry types.FileEntry, options Options) (types.ProcessedContent, error) {
	contentBytes, readError := os.ReadFile(fileEntry.AbsolutePath)
	if readError != nil {
		return types.ProcessedContent{}, &types.AccessError{Path: fileEntry.AbsolutePath, Err: readError}
	}
	document := types.ProcessedContent{Entry: fileEntry, Text: string(contentBytes)}

	var languageGrammar *strip.Grammar
	if options.Registry != nil {
		if languageName, grammar, isKnown := options.Registry.Lookup(fileEntry.RelativePath); isKnown {
			document.Entry.Language = languageName
			languageGrammar = grammar
		}
	}

	if options.StripComments && languageGrammar != nil {
		strippedText, stripError := strip.StripComments(document.Text, languageGrammar)
		if stripError != nil {
			var parseWarning *types.ParseWarning
			if errors.As(stripError, &parseWarning) {
				parseWarning.Path = fileEntry.RelativePath
				document.Warning = parseWarning.Reason
				if options.Logger != nil {
					options.Logger.Warn("keeping original content", zap.String("path", fileEntry.RelativePath), zap.String("reason", parseWarning.Reason))
				}
			} else {
				return types.ProcessedContent{}, stripError
			}
		} else {
			document.Text = strippedText
			document.Stripped = true
		}
	}

	if options.Compress {
		document.Text = compress.Compress(document.Text)
	}

	if options.Counter != nil {
		countResult, countError := tokenizer.CountBytes(options.Counter, []byte(document.Text))
		if countError == nil && countResult.Counted {
			document.Tokens = countResult.Tokens
		}
	}
	return document, nil
}

// buildSummary aggregates decision counts, sizes, warnings, and token totals
// over the completed run.
func buildSummary(allEntries []types.FileEntry, documents []types.ProcessedContent, walkWarnings int, options Options) types.ScanSummary {
	summary := types.ScanSummary{Warned: walkWarnings}
	for _, fileEntry := range allEntries {
		switch fileEntry.Decision {
		case types.DecisionInclude:
			summary.Included++
		case types.DecisionExcludeByPattern:
			summary.ExcludedByPattern++
		case types.DecisionExcludeBySize:
			summary.ExcludedBySize++
		case types.DecisionExcludeBinary:
			summary.ExcludedBinary++
		}
	}
	for _, document := range documents {
		summary.TotalSizeBytes += document.Entry.SizeBytes
		summary.TotalTokens += document.Tokens
		if document.Warning != "" {
			summary.Warned++
		}
	}
	summary.TotalSize = utils.FormatFileSize(summary.TotalSizeBytes)
	if options.Counter != nil {
		summary.Model = options.ModelName
	}
	return summary
}
