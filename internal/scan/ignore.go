package scan

import (
	"os"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/temirov/arc/internal/utils"
)

// AttachIgnoreFiles loads the root's ignore files into the rule set. The
// tool-specific ignore file is always honored; .gitignore is consulted only
// when respectGitignore is set. Missing files are not an error.
func AttachIgnoreFiles(rules *RuleSet, rootPath string, respectGitignore bool) {
	ignoreFileNames := []string{utils.IgnoreFileName}
	if respectGitignore {
		ignoreFileNames = append(ignoreFileNames, utils.GitIgnoreFileName)
	}
	for _, ignoreFileName := range ignoreFileNames {
		ignoreFilePath := filepath.Join(rootPath, ignoreFileName)
		if _, statError := os.Stat(ignoreFilePath); statError != nil {
			continue
		}
		matcher, parseError := gitignore.NewGitIgnore(ignoreFilePath)
		if parseError != nil {
			continue
		}
		rules.AddIgnoreMatcher(matcher)
	}
}
