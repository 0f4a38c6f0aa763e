// Package tokens provides token accounting for compression budgets and
// statistics. The primary counter uses the cl100k_base BPE via tiktoken;
// when the encoding cannot be loaded (offline environments), a fixed
// word-level rule takes over.
//
// Word rule, applied identically everywhere so that achieved ratios are
// reproducible: a token is either a maximal run of letters/digits or a
// single non-space punctuation character. "Id. at 495" counts 4 tokens
// (Id, ., at, 495).
package tokens

import (
	"regexp"

	"github.com/pkoukk/tiktoken-go"

	"github.com/caselaw-ai/legalrag/common/logger"
)

// Counter counts tokens in a text.
type Counter interface {
	Count(text string) int
}

// NewCounter returns the BPE counter when the encoding loads, otherwise
// the word counter.
func NewCounter() Counter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warnf("tokens: cl100k_base unavailable (%v), using word counter", err)
		return WordCounter{}
	}
	return &bpeCounter{enc: enc}
}

type bpeCounter struct {
	enc *tiktoken.Tiktoken
}

func (c *bpeCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

var wordToken = regexp.MustCompile(`[A-Za-z0-9]+|[^\sA-Za-z0-9]`)

// WordCounter implements the fixed word-level rule documented above.
type WordCounter struct{}

func (WordCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(wordToken.FindAllStringIndex(text, -1))
}
