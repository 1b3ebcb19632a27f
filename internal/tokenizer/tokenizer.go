// Package tokenizer estimates token counts for rendered artifacts so they
// can be budgeted against a model context window.
package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config captures tokenizer selection parameters provided by the CLI.
type Config struct {
	Model string
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model together with the
// resolved tokenizer name. Models without a registered encoding fall back to
// the default encoding rather than failing the run.
func NewCounter(cfg Config) (Counter, string, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	lowerModel := strings.ToLower(model)

	encoding, encodingErr := tiktoken.EncodingForModel(lowerModel)
	if encodingErr == nil && encoding != nil {
		return openAICounter{encoding: encoding, name: lowerModel}, model, nil
	}
	fallback, fallbackErr := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackErr != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackErr)
	}
	return openAICounter{encoding: fallback, name: defaultEncodingName}, defaultEncodingName, nil
}
