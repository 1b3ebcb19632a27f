// Package types defines every cross-package data structure used by the arc CLI.
package types

const (
	FormatRaw  = "raw"
	FormatJSON = "json"

	SinkStdout    = "stdout"
	SinkClipboard = "clipboard"
	SinkFile      = "file"
)

// Decision records the classification outcome for one filesystem entry.
type Decision string

const (
	// DecisionInclude marks an entry that passes every filter rule.
	DecisionInclude Decision = "include"
	// DecisionExcludeByPattern marks an entry rejected by an exclusion or
	// ignore pattern. Hidden entries rejected by the hidden-file rule carry
	// the same decision.
	DecisionExcludeByPattern Decision = "exclude_pattern"
	// DecisionExcludeBySize marks an entry above the configured size cutoff.
	DecisionExcludeBySize Decision = "exclude_size"
	// DecisionExcludeBinary marks an entry whose sniffed prefix looks binary.
	DecisionExcludeBinary Decision = "exclude_binary"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// FileEntry describes one filesystem node visited during a scan.
type FileEntry struct {
	AbsolutePath string   `json:"-"`
	RelativePath string   `json:"path"`
	SizeBytes    int64    `json:"sizeBytes"`
	LastModified string   `json:"lastModified,omitempty"`
	Language     string   `json:"language,omitempty"`
	Decision     Decision `json:"decision"`
}

// ProcessedContent is the transformed text of one included file, paired with
// the entry it originated from so output can attribute it.
type ProcessedContent struct {
	Entry    FileEntry `json:"file"`
	Text     string    `json:"content"`
	Stripped bool      `json:"stripped,omitempty"`
	Tokens   int       `json:"tokens,omitempty"`
	Warning  string    `json:"warning,omitempty"`
}

// ScanSummary captures aggregate information about one completed run.
type ScanSummary struct {
	Included          int    `json:"included"`
	ExcludedByPattern int    `json:"excludedByPattern"`
	ExcludedBySize    int    `json:"excludedBySize"`
	ExcludedBinary    int    `json:"excludedBinary"`
	Warned            int    `json:"warned"`
	TotalSize         string `json:"totalSize"`
	TotalSizeBytes    int64  `json:"-"`
	TotalTokens       int    `json:"totalTokens,omitempty"`
	Model             string `json:"model,omitempty"`
}

// Excluded returns the total count of excluded entries across all reasons.
func (summary ScanSummary) Excluded() int {
	return summary.ExcludedByPattern + summary.ExcludedBySize + summary.ExcludedBinary
}
