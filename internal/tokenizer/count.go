package tokenizer

import (
	"errors"
	"unicode/utf8"

	"github.com/temirov/arc/internal/utils"
)

// CountResult captures the outcome of counting a byte slice.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates tokens for the provided data using counter. Binary or
// non-UTF-8 data is reported as not counted rather than as an error.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errors.New("nil tokenizer counter")
	}
	if len(data) == 0 {
		tokens, err := counter.CountString("")
		if err != nil {
			return CountResult{}, err
		}
		return CountResult{Tokens: tokens, Counted: true}, nil
	}
	if utils.IsBinary(data) {
		return CountResult{Counted: false}, nil
	}
	if !utf8.Valid(data) {
		return CountResult{Counted: false}, nil
	}
	tokens, err := counter.CountString(string(data))
	if err != nil {
		return CountResult{}, err
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}
