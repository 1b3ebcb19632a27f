// Package compress normalizes whitespace in rendered file content.
package compress

import "strings"

// Compress trims trailing whitespace from every line and collapses runs of
// consecutive blank lines into a single blank line. The transform is
// idempotent: Compress(Compress(x)) == Compress(x). Token text, indentation,
// and line order are never altered, so the result stays semantically
// equivalent for whitespace-insensitive readers.
func Compress(inputText string) string {
	if inputText == "" {
		return ""
	}
	inputLines := strings.Split(inputText, "\n")
	outputLines := make([]string, 0, len(inputLines))
	previousBlank := false
	for _, inputLine := range inputLines {
		trimmedLine := strings.TrimRight(inputLine, " \t\r")
		if trimmedLine == "" {
			if previousBlank {
				continue
			}
			previousBlank = true
			outputLines = append(outputLines, "")
			continue
		}
		previousBlank = false
		outputLines = append(outputLines, trimmedLine)
	}
	return strings.Join(outputLines, "\n")
}
