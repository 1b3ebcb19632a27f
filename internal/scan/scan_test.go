package scan_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/arc/internal/scan"
	"github.com/temirov/arc/internal/types"
)

// writeTestTree creates the fixture tree used by the walker tests.
func writeTestTree(t *testing.T, files map[string][]byte) string {
	t.Helper()
	rootDirectory := t.TempDir()
	for relativePath, content := range files {
		fullPath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
		if mkdirError := os.MkdirAll(filepath.Dir(fullPath), 0o755); mkdirError != nil {
			t.Fatal(mkdirError)
		}
		if writeError := os.WriteFile(fullPath, content, 0o644); writeError != nil {
			t.Fatal(writeError)
		}
	}
	return rootDirectory
}

func walkTree(t *testing.T, rootDirectory string, options scan.RuleOptions) scan.WalkResult {
	t.Helper()
	ruleSet, ruleError := scan.NewRuleSet(options)
	if ruleError != nil {
		t.Fatalf("NewRuleSet returned error: %v", ruleError)
	}
	walkResult, walkError := scan.Walk(scan.WalkOptions{
		Root:  types.ValidatedPath{AbsolutePath: rootDirectory, IsDir: true},
		Rules: ruleSet,
	})
	if walkError != nil {
		t.Fatalf("Walk returned error: %v", walkError)
	}
	return walkResult
}

func decisionsByPath(walkResult scan.WalkResult) map[string]types.Decision {
	decisions := make(map[string]types.Decision, len(walkResult.Entries))
	for _, fileEntry := range walkResult.Entries {
		decisions[fileEntry.RelativePath] = fileEntry.Decision
	}
	return decisions
}

func TestWalkClassification(t *testing.T) {
	rootDirectory := writeTestTree(t, map[string][]byte{
		"a.py":          []byte("print('hi')\n"),
		"b.bin":         {0x00, 0x01, 0x02},
		"big.txt":       make([]byte, 64),
		".hidden.txt":   []byte("secret\n"),
		"src/main.go":   []byte("package main\n"),
		"vendor/dep.go": []byte("package dep\n"),
	})

	walkResult := walkTree(t, rootDirectory, scan.RuleOptions{
		ExcludePatterns:  []string{"vendor"},
		MaxFileSizeBytes: 32,
	})
	decisions := decisionsByPath(walkResult)

	expectedDecisions := map[string]types.Decision{
		"a.py":        types.DecisionInclude,
		"b.bin":       types.DecisionExcludeBinary,
		"big.txt":     types.DecisionExcludeBySize,
		"src/main.go": types.DecisionInclude,
	}
	for relativePath, expectedDecision := range expectedDecisions {
		if decisions[relativePath] != expectedDecision {
			t.Errorf("%s classified as %q, expected %q", relativePath, decisions[relativePath], expectedDecision)
		}
	}
	if _, visited := decisions["vendor/dep.go"]; visited {
		t.Error("vendor/dep.go visited despite directory prune")
	}
	if decisions[".hidden.txt"] != types.DecisionExcludeByPattern {
		t.Errorf(".hidden.txt classified as %q, expected pattern exclusion", decisions[".hidden.txt"])
	}
}

func TestWalkIsDeterministic(t *testing.T) {
	rootDirectory := writeTestTree(t, map[string][]byte{
		"zeta.go":    []byte("package z\n"),
		"alpha.go":   []byte("package a\n"),
		"mid/one.go": []byte("package one\n"),
		"mid/two.go": []byte("package two\n"),
	})

	firstResult := walkTree(t, rootDirectory, scan.RuleOptions{})
	secondResult := walkTree(t, rootDirectory, scan.RuleOptions{})

	if len(firstResult.Entries) != len(secondResult.Entries) {
		t.Fatalf("entry counts differ: %d vs %d", len(firstResult.Entries), len(secondResult.Entries))
	}
	expectedOrder := []string{"alpha.go", "mid/one.go", "mid/two.go", "zeta.go"}
	for entryIndex, fileEntry := range firstResult.Entries {
		if fileEntry.RelativePath != expectedOrder[entryIndex] {
			t.Errorf("entry %d = %q, expected %q", entryIndex, fileEntry.RelativePath, expectedOrder[entryIndex])
		}
		if secondResult.Entries[entryIndex].RelativePath != fileEntry.RelativePath {
			t.Errorf("traversal order not stable at index %d", entryIndex)
		}
	}
}

func TestWalkIncludePatterns(t *testing.T) {
	rootDirectory := writeTestTree(t, map[string][]byte{
		"main.go":   []byte("package main\n"),
		"README.md": []byte("# readme\n"),
		"notes.txt": []byte("notes\n"),
	})

	walkResult := walkTree(t, rootDirectory, scan.RuleOptions{
		IncludePatterns: []string{".go", "*.md"},
	})
	decisions := decisionsByPath(walkResult)

	if decisions["main.go"] != types.DecisionInclude {
		t.Errorf("main.go = %q, expected include via extension pattern", decisions["main.go"])
	}
	if decisions["README.md"] != types.DecisionInclude {
		t.Errorf("README.md = %q, expected include via glob pattern", decisions["README.md"])
	}
	if decisions["notes.txt"] != types.DecisionExcludeByPattern {
		t.Errorf("notes.txt = %q, expected pattern exclusion", decisions["notes.txt"])
	}
}

func TestWalkExclusionBeatsInclusion(t *testing.T) {
	rootDirectory := writeTestTree(t, map[string][]byte{
		"keep.go":      []byte("package keep\n"),
		"generated.go": []byte("package generated\n"),
	})

	walkResult := walkTree(t, rootDirectory, scan.RuleOptions{
		IncludePatterns: []string{".go"},
		ExcludePatterns: []string{"generated"},
	})
	decisions := decisionsByPath(walkResult)

	if decisions["keep.go"] != types.DecisionInclude {
		t.Errorf("keep.go = %q, expected include", decisions["keep.go"])
	}
	if decisions["generated.go"] != types.DecisionExcludeByPattern {
		t.Errorf("generated.go = %q, expected exclusion to beat inclusion", decisions["generated.go"])
	}
}

func TestWalkHonorsIgnoreFile(t *testing.T) {
	rootDirectory := writeTestTree(t, map[string][]byte{
		".arcignore": []byte("*.log\nbuild/\n"),
		"app.go":     []byte("package app\n"),
		"debug.log":  []byte("line\n"),
		"build/out":  []byte("artifact\n"),
	})

	ruleSet, ruleError := scan.NewRuleSet(scan.RuleOptions{})
	if ruleError != nil {
		t.Fatal(ruleError)
	}
	scan.AttachIgnoreFiles(ruleSet, rootDirectory, true)

	walkResult, walkError := scan.Walk(scan.WalkOptions{
		Root:  types.ValidatedPath{AbsolutePath: rootDirectory, IsDir: true},
		Rules: ruleSet,
	})
	if walkError != nil {
		t.Fatal(walkError)
	}
	decisions := decisionsByPath(walkResult)

	if decisions["app.go"] != types.DecisionInclude {
		t.Errorf("app.go = %q, expected include", decisions["app.go"])
	}
	if decisions["debug.log"] != types.DecisionExcludeByPattern {
		t.Errorf("debug.log = %q, expected ignore-file exclusion", decisions["debug.log"])
	}
	if _, visited := decisions["build/out"]; visited {
		t.Error("build/out visited despite ignored directory")
	}
}

func TestWalkSkipsUnreadableDirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	rootDirectory := writeTestTree(t, map[string][]byte{
		"readable.go":   []byte("package readable\n"),
		"locked/sub.go": []byte("package sub\n"),
	})
	lockedDirectory := filepath.Join(rootDirectory, "locked")
	if chmodError := os.Chmod(lockedDirectory, 0o000); chmodError != nil {
		t.Fatal(chmodError)
	}
	t.Cleanup(func() { os.Chmod(lockedDirectory, 0o755) })

	ruleSet, ruleError := scan.NewRuleSet(scan.RuleOptions{})
	if ruleError != nil {
		t.Fatal(ruleError)
	}
	walkResult, walkError := scan.Walk(scan.WalkOptions{
		Root:  types.ValidatedPath{AbsolutePath: rootDirectory, IsDir: true},
		Rules: ruleSet,
	})
	if walkError != nil {
		t.Fatalf("an unreadable directory must not abort the walk: %v", walkError)
	}
	if len(walkResult.Warnings) != 1 {
		t.Fatalf("got %d warnings, expected 1 for the unreadable directory", len(walkResult.Warnings))
	}
	decisions := decisionsByPath(walkResult)
	if decisions["readable.go"] != types.DecisionInclude {
		t.Errorf("readable.go = %q, walk must continue past the failure", decisions["readable.go"])
	}
	if _, visited := decisions["locked/sub.go"]; visited {
		t.Error("locked/sub.go visited despite unreadable parent")
	}
}

func TestWalkFailFastAbortsOnUnreadableDirectory(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	rootDirectory := writeTestTree(t, map[string][]byte{
		"locked/sub.go": []byte("package sub\n"),
	})
	lockedDirectory := filepath.Join(rootDirectory, "locked")
	if chmodError := os.Chmod(lockedDirectory, 0o000); chmodError != nil {
		t.Fatal(chmodError)
	}
	t.Cleanup(func() { os.Chmod(lockedDirectory, 0o755) })

	ruleSet, ruleError := scan.NewRuleSet(scan.RuleOptions{})
	if ruleError != nil {
		t.Fatal(ruleError)
	}
	_, walkError := scan.Walk(scan.WalkOptions{
		Root:     types.ValidatedPath{AbsolutePath: rootDirectory, IsDir: true},
		Rules:    ruleSet,
		FailFast: true,
	})
	if walkError == nil {
		t.Fatal("fail-fast walk must abort on an unreadable directory")
	}
	var accessError *types.AccessError
	if !errors.As(walkError, &accessError) {
		t.Fatalf("expected *types.AccessError, got %T", walkError)
	}
}

func TestNewRuleSetRejectsInvalidGlob(t *testing.T) {
	_, ruleError := scan.NewRuleSet(scan.RuleOptions{IncludePatterns: []string{"[unclosed"}})
	if ruleError == nil {
		t.Fatal("expected a configuration error for invalid glob syntax")
	}
	if _, isConfigError := ruleError.(*types.ConfigError); !isConfigError {
		t.Fatalf("expected *types.ConfigError, got %T", ruleError)
	}
}

func TestWalkContentContains(t *testing.T) {
	rootDirectory := writeTestTree(t, map[string][]byte{
		"match.go": []byte("package main // needle\n"),
		"other.go": []byte("package main\n"),
	})

	walkResult := walkTree(t, rootDirectory, scan.RuleOptions{
		ContentContains: []string{"needle"},
	})
	decisions := decisionsByPath(walkResult)

	if decisions["match.go"] != types.DecisionInclude {
		t.Errorf("match.go = %q, expected include", decisions["match.go"])
	}
	if decisions["other.go"] != types.DecisionExcludeByPattern {
		t.Errorf("other.go = %q, expected content filter exclusion", decisions["other.go"])
	}
}
