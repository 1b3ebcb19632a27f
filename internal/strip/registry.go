// Package strip removes comments from source text while preserving string
// literals and the input's line count.
package strip

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yml
var embeddedLanguageDefinitions []byte

// UserLanguageFileName is the override file looked up under the user's
// configuration directory.
const UserLanguageFileName = "languages.yml"

// StringRule describes one string-literal form of a language.
type StringRule struct {
	// Delimiter opens and closes the literal.
	Delimiter string `yaml:"delimiter"`
	// Escape enables backslash escaping inside the literal.
	Escape bool `yaml:"escape"`
	// Multiline allows the literal to span newlines.
	Multiline bool `yaml:"multiline"`
}

// BlockCommentRule describes one block-comment pair of a language.
type BlockCommentRule struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Grammar is the lexical comment grammar of one language.
type Grammar struct {
	Extensions    []string           `yaml:"extensions"`
	Filenames     []string           `yaml:"filenames"`
	LineComments  []string           `yaml:"line_comments"`
	BlockComments []BlockCommentRule `yaml:"block_comments"`
	Strings       []StringRule       `yaml:"strings"`
}

// Registry maps file extensions and exact filenames to language grammars.
type Registry struct {
	grammars       map[string]*Grammar
	extensionIndex map[string]string
	filenameIndex  map[string]string
}

// NewRegistry parses the embedded language table and, when present, merges
// the user's override file from the provided configuration directory. An
// empty configuration directory skips the override lookup.
func NewRegistry(configDirectory string) (*Registry, error) {
	grammarTable := map[string]*Grammar{}
	if unmarshalError := yaml.Unmarshal(embeddedLanguageDefinitions, &grammarTable); unmarshalError != nil {
		return nil, fmt.Errorf("parsing embedded language definitions: %w", unmarshalError)
	}
	if configDirectory != "" {
		overridePath := filepath.Join(configDirectory, UserLanguageFileName)
		if overrideBytes, readError := os.ReadFile(overridePath); readError == nil {
			overrideTable := map[string]*Grammar{}
			if unmarshalError := yaml.Unmarshal(overrideBytes, &overrideTable); unmarshalError != nil {
				return nil, fmt.Errorf("parsing %s: %w", overridePath, unmarshalError)
			}
			for languageName, languageGrammar := range overrideTable {
				grammarTable[languageName] = languageGrammar
			}
		}
	}

	registry := &Registry{
		grammars:       grammarTable,
		extensionIndex: map[string]string{},
		filenameIndex:  map[string]string{},
	}
	languageNames := make([]string, 0, len(grammarTable))
	for languageName := range grammarTable {
		languageNames = append(languageNames, languageName)
	}
	sort.Strings(languageNames)
	for _, languageName := range languageNames {
		languageGrammar := grammarTable[languageName]
		sortGrammarRules(languageGrammar)
		for _, extensionValue := range languageGrammar.Extensions {
			loweredExtension := strings.ToLower(extensionValue)
			if _, alreadyClaimed := registry.extensionIndex[loweredExtension]; !alreadyClaimed {
				registry.extensionIndex[loweredExtension] = languageName
			}
		}
		for _, fileName := range languageGrammar.Filenames {
			if _, alreadyClaimed := registry.filenameIndex[fileName]; !alreadyClaimed {
				registry.filenameIndex[fileName] = languageName
			}
		}
	}
	return registry, nil
}

// sortGrammarRules orders markers longest-first so that a marker that is a
// prefix of another (-- inside --[[, ' inside ''') never shadows it.
func sortGrammarRules(languageGrammar *Grammar) {
	sort.SliceStable(languageGrammar.Strings, func(firstIndex, secondIndex int) bool {
		return len(languageGrammar.Strings[firstIndex].Delimiter) > len(languageGrammar.Strings[secondIndex].Delimiter)
	})
	sort.SliceStable(languageGrammar.BlockComments, func(firstIndex, secondIndex int) bool {
		return len(languageGrammar.BlockComments[firstIndex].Start) > len(languageGrammar.BlockComments[secondIndex].Start)
	})
	sort.SliceStable(languageGrammar.LineComments, func(firstIndex, secondIndex int) bool {
		return len(languageGrammar.LineComments[firstIndex]) > len(languageGrammar.LineComments[secondIndex])
	})
}

// Lookup resolves the grammar for a path. Exact filename matches take
// precedence over extension matches; unknown formats report no grammar and
// the caller must pass the content through untouched.
func (registry *Registry) Lookup(filePath string) (string, *Grammar, bool) {
	baseName := filepath.Base(filePath)
	if languageName, isKnown := registry.filenameIndex[baseName]; isKnown {
		return languageName, registry.grammars[languageName], true
	}
	extensionValue := strings.ToLower(filepath.Ext(baseName))
	if extensionValue != "" {
		if languageName, isKnown := registry.extensionIndex[extensionValue]; isKnown {
			return languageName, registry.grammars[languageName], true
		}
	}
	return "", nil, false
}
