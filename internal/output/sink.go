package output

import (
	"fmt"
	"io"
	"os"

	"github.com/temirov/arc/internal/services/clipboard"
)

const writtenFileMode = 0o644

// Sink delivers one fully rendered artifact. Implementations receive the
// complete text in a single call, so a cancelled run never leaves a partial
// artifact behind.
type Sink interface {
	Write(renderedText string) error
}

// StdoutSink streams the artifact to the provided writer, os.Stdout in the
// command wiring.
type StdoutSink struct {
	Writer io.Writer
}

// Write copies the rendered text to the writer.
func (sink StdoutSink) Write(renderedText string) error {
	_, writeError := io.WriteString(sink.Writer, renderedText)
	return writeError
}

// ClipboardSink places the artifact on the system clipboard.
type ClipboardSink struct {
	Copier clipboard.Copier
}

// Write copies the rendered text to the clipboard.
func (sink ClipboardSink) Write(renderedText string) error {
	if copyError := sink.Copier.Copy(renderedText); copyError != nil {
		return fmt.Errorf("copying to clipboard: %w", copyError)
	}
	return nil
}

// FileSink writes the artifact to a file in one operation.
type FileSink struct {
	Path string
}

// Write stores the rendered text at the configured path.
func (sink FileSink) Write(renderedText string) error {
	if writeError := os.WriteFile(sink.Path, []byte(renderedText), writtenFileMode); writeError != nil {
		return fmt.Errorf("writing %s: %w", sink.Path, writeError)
	}
	return nil
}
