package cli

import (
	"github.com/spf13/cobra"

	"github.com/temirov/arc/internal/config"
	"github.com/temirov/arc/internal/types"
)

// resolvedSettings is the effective configuration of one run after merging
// configuration files and command line flags.
type resolvedSettings struct {
	fileTypes       []string
	exclude         []string
	pathContains    []string
	contentContains []string
	showHidden      bool
	verbose         bool
	noComments      bool
	compress        bool
	noGitignore     bool
	scanBinary      bool
	maxFileSize     int64
	format          string
	copyToClipboard bool
	outputFile      string
	countTokens     bool
	model           string
	workers         int
	failFast        bool
}

// resolveSettings overlays explicitly set flags onto the merged configuration
// file values. A flag only wins when the user changed it, so configuration
// defaults survive untouched flags.
func resolveSettings(command *cobra.Command, flagValues *scanFlags, configuration config.ApplicationConfiguration) resolvedSettings {
	settings := resolvedSettings{
		fileTypes:       configuration.Scan.FileTypes,
		exclude:         configuration.Scan.Exclude,
		pathContains:    configuration.Scan.PathContains,
		contentContains: configuration.Scan.ContentContains,
		format:          types.FormatRaw,
		outputFile:      configuration.Output.File,
		model:           configuration.Tokens.Model,
	}
	if configuration.Scan.MaxFileSizeBytes != nil {
		settings.maxFileSize = *configuration.Scan.MaxFileSizeBytes
	}
	if configuration.Scan.ShowHidden != nil {
		settings.showHidden = *configuration.Scan.ShowHidden
	}
	if configuration.Scan.UseGitignore != nil {
		settings.noGitignore = !*configuration.Scan.UseGitignore
	}
	if configuration.Scan.ScanBinary != nil {
		settings.scanBinary = *configuration.Scan.ScanBinary
	}
	if configuration.Scan.StripComments != nil {
		settings.noComments = *configuration.Scan.StripComments
	}
	if configuration.Scan.Compress != nil {
		settings.compress = *configuration.Scan.Compress
	}
	if configuration.Scan.FailFast != nil {
		settings.failFast = *configuration.Scan.FailFast
	}
	if configuration.Scan.Workers != nil {
		settings.workers = *configuration.Scan.Workers
	}
	if configuration.Output.Format != "" {
		settings.format = configuration.Output.Format
	}
	if configuration.Output.Clipboard != nil {
		settings.copyToClipboard = *configuration.Output.Clipboard
	}
	if configuration.Tokens.Enabled != nil {
		settings.countTokens = *configuration.Tokens.Enabled
	}

	commandFlags := command.Flags()
	if commandFlags.Changed(fileTypesFlagName) {
		settings.fileTypes = flagValues.fileTypes
	}
	if commandFlags.Changed(excludeFlagName) {
		settings.exclude = flagValues.exclude
	}
	if commandFlags.Changed(pathContainsFlagName) {
		settings.pathContains = flagValues.pathContains
	}
	if commandFlags.Changed(contentContainsFlagName) {
		settings.contentContains = flagValues.contentContains
	}
	if commandFlags.Changed(showHiddenFlagName) {
		settings.showHidden = flagValues.showHidden
	}
	if commandFlags.Changed(noCommentsFlagName) {
		settings.noComments = flagValues.noComments
	}
	if commandFlags.Changed(compressFlagName) {
		settings.compress = flagValues.compress
	}
	if commandFlags.Changed(noGitignoreFlagName) {
		settings.noGitignore = flagValues.noGitignore
	}
	if commandFlags.Changed(scanBinaryFlagName) {
		settings.scanBinary = flagValues.scanBinary
	}
	if commandFlags.Changed(maxFileSizeFlagName) {
		settings.maxFileSize = flagValues.maxFileSize
	}
	if commandFlags.Changed(formatFlagName) {
		settings.format = flagValues.format
	}
	if commandFlags.Changed(copyFlagName) {
		settings.copyToClipboard = flagValues.copyToClipboard
	}
	if commandFlags.Changed(outputFileFlagName) {
		settings.outputFile = flagValues.outputFile
	}
	if commandFlags.Changed(tokensFlagName) {
		settings.countTokens = flagValues.countTokens
	}
	if commandFlags.Changed(modelFlagName) {
		settings.model = flagValues.model
	}
	if commandFlags.Changed(workersFlagName) {
		settings.workers = flagValues.workers
	}
	if commandFlags.Changed(failFastFlagName) {
		settings.failFast = flagValues.failFast
	}
	settings.verbose = flagValues.verbose
	return settings
}
