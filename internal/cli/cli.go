// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/temirov/arc/internal/config"
	"github.com/temirov/arc/internal/output"
	"github.com/temirov/arc/internal/pipeline"
	"github.com/temirov/arc/internal/scan"
	"github.com/temirov/arc/internal/services/clipboard"
	"github.com/temirov/arc/internal/strip"
	"github.com/temirov/arc/internal/tokenizer"
	"github.com/temirov/arc/internal/types"
	"github.com/temirov/arc/internal/utils"
)

const (
	rootUse              = "arc [paths...]"
	rootShortDescription = "render directory trees as one analysis-ready text artifact"
	rootLongDescription  = `arc scans one or more directory trees, filters the files it finds,
optionally strips comments and compresses whitespace, and emits a single
consolidated text artifact to stdout, the clipboard, or a file.`
	rootUsageExample = `  # Render the Go and Markdown files of the current tree
  arc -t .go -t .md .

  # Strip comments, compress whitespace, copy to the clipboard
  arc -N -z -c ./src

  # JSON artifact with token counts for a model budget
  arc --format json --tokens --model gpt-4o .`

	fileTypesFlagName       = "file-types"
	excludeFlagName         = "exclude"
	pathContainsFlagName    = "path-contains"
	contentContainsFlagName = "content-contains"
	showHiddenFlagName      = "show-hidden"
	verboseFlagName         = "verbose"
	noCommentsFlagName      = "no-comments"
	compressFlagName        = "compress"
	noGitignoreFlagName     = "no-gitignore"
	scanBinaryFlagName      = "scan-binary"
	maxFileSizeFlagName     = "max-file-size"
	formatFlagName          = "format"
	copyFlagName            = "copy"
	outputFileFlagName      = "output"
	tokensFlagName          = "tokens"
	modelFlagName           = "model"
	workersFlagName         = "workers"
	failFastFlagName        = "fail-fast"
	configFileFlagName      = "config"
	versionFlagName         = "version"

	fileTypesFlagDescription       = "file types to include, e.g. -t .go -t .md"
	excludeFlagDescription         = "exclude files and directories matching the pattern"
	pathContainsFlagDescription    = "only include files whose path contains the value"
	contentContainsFlagDescription = "only include files whose content contains the value"
	showHiddenFlagDescription      = "include hidden files and directories"
	verboseFlagDescription         = "log per-file classification decisions"
	noCommentsFlagDescription      = "strip comments from known file formats"
	compressFlagDescription        = "trim trailing whitespace and collapse blank lines"
	noGitignoreFlagDescription     = "do not use .gitignore"
	scanBinaryFlagDescription      = "include files detected as binary"
	maxFileSizeFlagDescription     = "exclude files larger than this many bytes"
	formatFlagDescription          = "output format, raw or json"
	copyFlagDescription            = "copy the artifact to the system clipboard"
	outputFileFlagDescription      = "write the artifact to the given file"
	tokensFlagDescription          = "include token counts in the summary"
	modelFlagDescription           = "tokenizer model used for token counting"
	workersFlagDescription         = "number of parallel file workers, 0 selects the CPU count"
	failFastFlagDescription        = "abort on the first unreadable entry"
	configFileFlagDescription      = "explicit configuration file path"
	versionFlagDescription         = "display application version"

	versionTemplate      = "arc version: %s\n"
	invalidFormatMessage = "invalid format value '%s'"
)

// supportedFormats lists the renderers the --format flag accepts.
var supportedFormats = []string{types.FormatRaw, types.FormatJSON}

// scanFlags carries every flag value of the root command.
type scanFlags struct {
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
	configFile      string
	showVersion     bool
}

// Execute runs the arc application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	flagValues := &scanFlags{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flagValues.showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return runScan(command, arguments, flagValues)
		},
	}

	commandFlags := rootCommand.Flags()
	commandFlags.StringSliceVarP(&flagValues.fileTypes, fileTypesFlagName, "t", nil, fileTypesFlagDescription)
	commandFlags.StringSliceVarP(&flagValues.exclude, excludeFlagName, "x", nil, excludeFlagDescription)
	commandFlags.StringSliceVarP(&flagValues.pathContains, pathContainsFlagName, "p", nil, pathContainsFlagDescription)
	commandFlags.StringSliceVarP(&flagValues.contentContains, contentContainsFlagName, "C", nil, contentContainsFlagDescription)
	commandFlags.BoolVarP(&flagValues.showHidden, showHiddenFlagName, "S", false, showHiddenFlagDescription)
	commandFlags.BoolVarP(&flagValues.verbose, verboseFlagName, "v", false, verboseFlagDescription)
	commandFlags.BoolVarP(&flagValues.noComments, noCommentsFlagName, "N", false, noCommentsFlagDescription)
	commandFlags.BoolVarP(&flagValues.compress, compressFlagName, "z", false, compressFlagDescription)
	commandFlags.BoolVarP(&flagValues.noGitignore, noGitignoreFlagName, "G", false, noGitignoreFlagDescription)
	commandFlags.BoolVarP(&flagValues.scanBinary, scanBinaryFlagName, "b", false, scanBinaryFlagDescription)
	commandFlags.Int64Var(&flagValues.maxFileSize, maxFileSizeFlagName, 0, maxFileSizeFlagDescription)
	commandFlags.StringVar(&flagValues.format, formatFlagName, "", formatFlagDescription)
	commandFlags.BoolVarP(&flagValues.copyToClipboard, copyFlagName, "c", false, copyFlagDescription)
	commandFlags.StringVarP(&flagValues.outputFile, outputFileFlagName, "f", "", outputFileFlagDescription)
	commandFlags.BoolVar(&flagValues.countTokens, tokensFlagName, false, tokensFlagDescription)
	commandFlags.StringVar(&flagValues.model, modelFlagName, "", modelFlagDescription)
	commandFlags.IntVar(&flagValues.workers, workersFlagName, 0, workersFlagDescription)
	commandFlags.BoolVar(&flagValues.failFast, failFastFlagName, false, failFastFlagDescription)
	commandFlags.StringVar(&flagValues.configFile, configFileFlagName, "", configFileFlagDescription)
	commandFlags.BoolVar(&flagValues.showVersion, versionFlagName, false, versionFlagDescription)

	return rootCommand
}

// runScan resolves configuration, builds the pipeline, and delivers the
// rendered artifact to the selected sinks.
func runScan(command *cobra.Command, arguments []string, flagValues *scanFlags) error {
	applicationConfiguration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		ExplicitFilePath: flagValues.configFile,
	})
	if configurationError != nil {
		return configurationError
	}
	settings := resolveSettings(command, flagValues, applicationConfiguration)

	if !utils.ContainsString(supportedFormats, settings.format) {
		return &types.ConfigError{Field: formatFlagName, Reason: fmt.Sprintf(invalidFormatMessage, settings.format)}
	}

	applicationLogger, loggerError := utils.NewApplicationLogger(settings.verbose)
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer applicationLogger.Sync()

	validatedPaths, pathError := config.ValidatePaths(arguments)
	if pathError != nil {
		return pathError
	}

	ruleSet, ruleError := scan.NewRuleSet(scan.RuleOptions{
		IncludePatterns:  settings.fileTypes,
		ExcludePatterns:  settings.exclude,
		PathContains:     settings.pathContains,
		ContentContains:  settings.contentContains,
		MaxFileSizeBytes: settings.maxFileSize,
		IncludeHidden:    settings.showHidden,
		IncludeBinary:    settings.scanBinary,
	})
	if ruleError != nil {
		return ruleError
	}

	grammarRegistry, registryError := strip.NewRegistry(config.UserConfigDirectory())
	if registryError != nil {
		return registryError
	}

	var tokenCounter tokenizer.Counter
	resolvedModel := settings.model
	if settings.countTokens {
		counter, counterName, counterError := tokenizer.NewCounter(tokenizer.Config{Model: settings.model})
		if counterError != nil {
			return counterError
		}
		tokenCounter = counter
		resolvedModel = counterName
	}

	runResult, runError := pipeline.Run(command.Context(), pipeline.Options{
		Roots:            validatedPaths,
		Rules:            ruleSet,
		RespectGitignore: !settings.noGitignore,
		StripComments:    settings.noComments,
		Compress:         settings.compress,
		FailFast:         settings.failFast,
		Workers:          settings.workers,
		Counter:          tokenCounter,
		ModelName:        resolvedModel,
		Registry:         grammarRegistry,
		Logger:           applicationLogger,
	})
	if runError != nil {
		return runError
	}

	renderedText, renderError := output.Render(settings.format, runResult.Documents, runResult.Summary)
	if renderError != nil {
		return renderError
	}
	return deliverArtifact(renderedText, settings)
}

// deliverArtifact writes the rendered text to every requested sink. The file
// and clipboard sinks can be combined; stdout is used when neither is set.
func deliverArtifact(renderedText string, settings resolvedSettings) error {
	deliveredElsewhere := false
	if settings.outputFile != "" {
		fileSink := output.FileSink{Path: settings.outputFile}
		if writeError := fileSink.Write(renderedText); writeError != nil {
			return writeError
		}
		deliveredElsewhere = true
	}
	if settings.copyToClipboard {
		clipboardSink := output.ClipboardSink{Copier: clipboard.NewService()}
		if copyError := clipboardSink.Write(renderedText); copyError != nil {
			return copyError
		}
		deliveredElsewhere = true
	}
	if deliveredElsewhere {
		return nil
	}
	return output.StdoutSink{Writer: os.Stdout}.Write(renderedText)
}
