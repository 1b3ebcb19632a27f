package tokenizer_test

import (
	"strings"
	"testing"

	"github.com/temirov/arc/internal/tokenizer"
)

// wordCounter is a deterministic stand-in for an encoding-backed counter.
type wordCounter struct{}

func (wordCounter) Name() string { return "words" }

func (wordCounter) CountString(input string) (int, error) {
	return len(strings.Fields(input)), nil
}

func TestCountBytes(t *testing.T) {
	testCases := []struct {
		name            string
		data            []byte
		expectedTokens  int
		expectedCounted bool
	}{
		{name: "empty input counted", data: nil, expectedTokens: 0, expectedCounted: true},
		{name: "plain text", data: []byte("one two three"), expectedTokens: 3, expectedCounted: true},
		{name: "binary skipped", data: []byte{0x00, 0x01}, expectedCounted: false},
		{name: "invalid utf8 skipped", data: []byte{0xff, 0xfe}, expectedCounted: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			countResult, countError := tokenizer.CountBytes(wordCounter{}, testCase.data)
			if countError != nil {
				t.Fatalf("CountBytes returned error: %v", countError)
			}
			if countResult.Counted != testCase.expectedCounted {
				t.Fatalf("Counted = %v, expected %v", countResult.Counted, testCase.expectedCounted)
			}
			if countResult.Counted && countResult.Tokens != testCase.expectedTokens {
				t.Errorf("Tokens = %d, expected %d", countResult.Tokens, testCase.expectedTokens)
			}
		})
	}
}

func TestCountBytesRejectsNilCounter(t *testing.T) {
	if _, countError := tokenizer.CountBytes(nil, []byte("text")); countError == nil {
		t.Fatal("expected an error for a nil counter")
	}
}
