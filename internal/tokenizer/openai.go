package tokenizer

import (
	"errors"

	"github.com/pkoukk/tiktoken-go"
)

// openAICounter counts tokens with a tiktoken encoding resolved for the
// requested model.
type openAICounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// Name returns the resolved encoding or model name for summary labeling.
func (counter openAICounter) Name() string {
	return counter.name
}

// CountString encodes the input and returns the number of tokens.
func (counter openAICounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
