package strip

import (
	"strings"

	"github.com/temirov/arc/internal/types"
)

// StripComments removes every comment the grammar describes from the content
// while keeping string literals byte-for-byte intact and preserving the line
// count: a line holding only a comment becomes an empty line, a trailing
// comment is cut at its marker, and a multi-line block comment is replaced
// by the newlines it spanned.
//
// The scanner never guesses. An unterminated block comment or string literal
// makes the whole file ambiguous, so it returns a types.ParseWarning and the
// caller keeps the original content.
func StripComments(content string, grammar *Grammar) (string, error) {
	var outputBuilder strings.Builder
	outputBuilder.Grow(len(content))

	contentLength := len(content)
	position := 0
	for position < contentLength {
		if blockRule := matchBlockCommentStart(content, position, grammar); blockRule != nil {
			bodyStart := position + len(blockRule.Start)
			closeOffset := strings.Index(content[bodyStart:], blockRule.End)
			if closeOffset < 0 {
				return "", &types.ParseWarning{Reason: "unterminated block comment"}
			}
			commentEnd := bodyStart + closeOffset + len(blockRule.End)
			outputBuilder.WriteString(strings.Repeat("\n", strings.Count(content[position:commentEnd], "\n")))
			position = commentEnd
			continue
		}
		if lineMarker := matchLineCommentStart(content, position, grammar); lineMarker != "" {
			if isShebang(content, position, lineMarker) {
				lineEnd := lineEndAfter(content, position)
				outputBuilder.WriteString(content[position:lineEnd])
				position = lineEnd
				continue
			}
			position = lineEndAfter(content, position)
			continue
		}
		if stringRule := matchStringStart(content, position, grammar); stringRule != nil {
			literalEnd, scanError := scanStringLiteral(content, position, stringRule)
			if scanError != nil {
				return "", scanError
			}
			outputBuilder.WriteString(content[position:literalEnd])
			position = literalEnd
			continue
		}
		outputBuilder.WriteByte(content[position])
		position++
	}
	return outputBuilder.String(), nil
}

// matchBlockCommentStart returns the block rule opening at the position.
func matchBlockCommentStart(content string, position int, grammar *Grammar) *BlockCommentRule {
	for ruleIndex := range grammar.BlockComments {
		if strings.HasPrefix(content[position:], grammar.BlockComments[ruleIndex].Start) {
			return &grammar.BlockComments[ruleIndex]
		}
	}
	return nil
}

// matchLineCommentStart returns the line-comment marker opening at the
// position, or the empty string.
func matchLineCommentStart(content string, position int, grammar *Grammar) string {
	for _, lineMarker := range grammar.LineComments {
		if strings.HasPrefix(content[position:], lineMarker) {
			return lineMarker
		}
	}
	return ""
}

// matchStringStart returns the string rule whose delimiter opens at the
// position.
func matchStringStart(content string, position int, grammar *Grammar) *StringRule {
	for ruleIndex := range grammar.Strings {
		if strings.HasPrefix(content[position:], grammar.Strings[ruleIndex].Delimiter) {
			return &grammar.Strings[ruleIndex]
		}
	}
	return nil
}

// scanStringLiteral returns the index just past the closing delimiter of the
// literal opening at the position.
func scanStringLiteral(content string, position int, stringRule *StringRule) (int, error) {
	cursor := position + len(stringRule.Delimiter)
	for cursor < len(content) {
		if stringRule.Escape && content[cursor] == '\\' {
			cursor += 2
			continue
		}
		if strings.HasPrefix(content[cursor:], stringRule.Delimiter) {
			return cursor + len(stringRule.Delimiter), nil
		}
		if content[cursor] == '\n' && !stringRule.Multiline {
			return 0, &types.ParseWarning{Reason: "unterminated string literal"}
		}
		cursor++
	}
	return 0, &types.ParseWarning{Reason: "unterminated string literal"}
}

// isShebang reports whether the marker at the position opens an interpreter
// line, which is kept even though it starts with a comment marker.
func isShebang(content string, position int, lineMarker string) bool {
	return position == 0 && lineMarker == "#" && strings.HasPrefix(content, "#!")
}

// lineEndAfter returns the index of the newline terminating the line at the
// position, or the content length when the line is the last one.
func lineEndAfter(content string, position int) int {
	if newlineOffset := strings.IndexByte(content[position:], '\n'); newlineOffset >= 0 {
		return position + newlineOffset
	}
	return len(content)
}
