/*
Package corpus supplies tokenized review sentences to the trainer.

A Source returns the sentences of records [start, end) together with the
rating of each record. The n-gram model only uses the sentences; ratings
are passed through for callers that want them.

JSONLSource reads a review dump with one JSON object per line:

	{"text": "Great tacos, friendly staff.", "stars": 5}

Text is lowercased and split on anything that is not a letter, a digit
or an apostrophe.
*/
package corpus

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/bastiangx/wordpredict/pkg/ngram"
)

// Source is the corpus collaborator used for training and testing.
type Source interface {
	ReviewData(start, end int) (sentences [][]string, ratings []float64, err error)
}

// Tokenize lowercases text and splits it into word tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// TrimLeading drops the first skip tokens of every sentence. Sentences
// shorter than skip become empty.
func TrimLeading(sentences [][]string, skip int) [][]string {
	if skip <= 0 {
		return sentences
	}
	out := make([][]string, len(sentences))
	for i, s := range sentences {
		if len(s) > skip {
			out[i] = s[skip:]
		} else {
			out[i] = []string{}
		}
	}
	return out
}

func checkRange(start, end int) error {
	if start < 0 || end < start {
		return fmt.Errorf("record range [%d, %d): %w", start, end, ngram.ErrInvalidConfig)
	}
	return nil
}

// MemorySource serves records held in memory.
type MemorySource struct {
	Sentences [][]string
	Ratings   []float64
}

// ReviewData returns records [start, end), clamped to what is held.
func (m *MemorySource) ReviewData(start, end int) ([][]string, []float64, error) {
	if err := checkRange(start, end); err != nil {
		return nil, nil, err
	}
	end = min(end, len(m.Sentences))
	start = min(start, end)

	ratings := make([]float64, end-start)
	for i := start; i < end; i++ {
		if i < len(m.Ratings) {
			ratings[i-start] = m.Ratings[i]
		}
	}
	return m.Sentences[start:end], ratings, nil
}
