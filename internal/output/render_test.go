package output_test

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/temirov/arc/internal/output"
	"github.com/temirov/arc/internal/types"
)

func sampleDocuments() ([]types.ProcessedContent, types.ScanSummary) {
	documents := []types.ProcessedContent{
		{
			Entry: types.FileEntry{RelativePath: "src/main.go", SizeBytes: 13, Decision: types.DecisionInclude},
			Text:  "package main\n",
		},
		{
			Entry:   types.FileEntry{RelativePath: "src/util.go", SizeBytes: 12, Decision: types.DecisionInclude},
			Text:    "package util",
			Warning: "unterminated block comment",
		},
	}
	summary := types.ScanSummary{
		Included:          2,
		ExcludedByPattern: 3,
		ExcludedBySize:    1,
		ExcludedBinary:    1,
		Warned:            1,
		TotalSize:         "25b",
		TotalSizeBytes:    25,
	}
	return documents, summary
}

func TestRenderRaw(t *testing.T) {
	documents, summary := sampleDocuments()
	rendered := output.RenderRaw(documents, summary)

	expectedFragments := []string{
		"<< START: src/main.go >>\npackage main\n<< END >>\n",
		"<< START: src/util.go >>\npackage util\n<< END >>\n",
		"warning: src/util.go: unterminated block comment\n",
		"2 files included, 5 excluded (3 by pattern, 1 by size, 1 binary), 1 warnings. Total size: 25b.\n",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(rendered, fragment) {
			t.Errorf("rendered output missing %q\nfull output:\n%s", fragment, rendered)
		}
	}
	if mainIndex, utilIndex := strings.Index(rendered, "src/main.go"), strings.Index(rendered, "src/util.go"); mainIndex > utilIndex {
		t.Error("documents rendered out of order")
	}
	if strings.Contains(rendered, "Tokens:") {
		t.Error("token line rendered without token counting enabled")
	}
}

func TestRenderRawWithTokens(t *testing.T) {
	documents, summary := sampleDocuments()
	summary.TotalTokens = 42
	summary.Model = "gpt-4o"
	rendered := output.RenderRaw(documents, summary)
	if !strings.Contains(rendered, "Tokens: 42 (gpt-4o)\n") {
		t.Errorf("token line missing from:\n%s", rendered)
	}
}

func TestRenderJSON(t *testing.T) {
	documents, summary := sampleDocuments()
	rendered, renderError := output.RenderJSON(documents, summary)
	if renderError != nil {
		t.Fatalf("RenderJSON returned error: %v", renderError)
	}

	var decoded struct {
		Files []struct {
			File struct {
				Path     string `json:"path"`
				Decision string `json:"decision"`
			} `json:"file"`
			Content string `json:"content"`
			Warning string `json:"warning"`
		} `json:"files"`
		Summary struct {
			Included int    `json:"included"`
			Warned   int    `json:"warned"`
			Total    string `json:"totalSize"`
		} `json:"summary"`
	}
	if unmarshalError := json.Unmarshal([]byte(rendered), &decoded); unmarshalError != nil {
		t.Fatalf("rendered JSON does not parse: %v", unmarshalError)
	}
	if len(decoded.Files) != 2 || decoded.Files[0].File.Path != "src/main.go" {
		t.Errorf("unexpected files payload: %+v", decoded.Files)
	}
	if decoded.Files[1].Warning != "unterminated block comment" {
		t.Errorf("warning lost in JSON rendering: %+v", decoded.Files[1])
	}
	if decoded.Summary.Included != 2 || decoded.Summary.Total != "25b" {
		t.Errorf("unexpected summary payload: %+v", decoded.Summary)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	documents, summary := sampleDocuments()
	if _, renderError := output.Render("xml", documents, summary); renderError == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestFileSinkWritesWholeArtifact(t *testing.T) {
	targetPath := t.TempDir() + "/artifact.txt"
	fileSink := output.FileSink{Path: targetPath}
	if writeError := fileSink.Write("rendered body\n"); writeError != nil {
		t.Fatalf("FileSink.Write returned error: %v", writeError)
	}
	storedBytes, readError := os.ReadFile(targetPath)
	if readError != nil {
		t.Fatal(readError)
	}
	if string(storedBytes) != "rendered body\n" {
		t.Errorf("stored %q, expected the rendered text", storedBytes)
	}
}
