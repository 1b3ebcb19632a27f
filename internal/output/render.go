// Package output renders scan results and writes them to the selected sink.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/temirov/arc/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	fileStartFormat = "<< START: %s >>\n"
	fileEndMarker   = "<< END >>\n"

	summaryLineFormat = "%d files included, %d excluded (%d by pattern, %d by size, %d binary), %d warnings. Total size: %s.\n"
	tokensLineFormat  = "Tokens: %d (%s)\n"
	warningLineFormat = "warning: %s: %s\n"
)

// RenderRaw returns the consolidated artifact in raw text format: every
// included document framed by start/end markers carrying its relative path,
// followed by per-file warnings and the run summary.
func RenderRaw(documents []types.ProcessedContent, summary types.ScanSummary) string {
	var buffer bytes.Buffer
	for _, document := range documents {
		buffer.WriteString(fmt.Sprintf(fileStartFormat, document.Entry.RelativePath))
		buffer.WriteString(document.Text)
		if len(document.Text) > 0 && document.Text[len(document.Text)-1] != '\n' {
			buffer.WriteByte('\n')
		}
		buffer.WriteString(fileEndMarker)
		buffer.WriteByte('\n')
	}
	for _, document := range documents {
		if document.Warning != "" {
			buffer.WriteString(fmt.Sprintf(warningLineFormat, document.Entry.RelativePath, document.Warning))
		}
	}
	buffer.WriteString(fmt.Sprintf(summaryLineFormat,
		summary.Included,
		summary.Excluded(),
		summary.ExcludedByPattern,
		summary.ExcludedBySize,
		summary.ExcludedBinary,
		summary.Warned,
		summary.TotalSize,
	))
	if summary.TotalTokens > 0 {
		buffer.WriteString(fmt.Sprintf(tokensLineFormat, summary.TotalTokens, summary.Model))
	}
	return buffer.String()
}

// RenderJSON marshals the documents and the run summary as one JSON object.
func RenderJSON(documents []types.ProcessedContent, summary types.ScanSummary) (string, error) {
	if documents == nil {
		documents = []types.ProcessedContent{}
	}
	artifact := struct {
		Files   []types.ProcessedContent `json:"files"`
		Summary types.ScanSummary        `json:"summary"`
	}{Files: documents, Summary: summary}
	encoded, jsonEncodeError := json.MarshalIndent(artifact, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", jsonEncodeError
	}
	return string(encoded) + "\n", nil
}

// Render dispatches to the renderer for the requested format.
func Render(formatName string, documents []types.ProcessedContent, summary types.ScanSummary) (string, error) {
	switch formatName {
	case types.FormatJSON:
		return RenderJSON(documents, summary)
	case types.FormatRaw, "":
		return RenderRaw(documents, summary), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", formatName)
	}
}
