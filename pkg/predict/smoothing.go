package predict

import (
	"fmt"

	"github.com/bastiangx/wordpredict/pkg/ngram"
)

// Smoothing selects how counts become probabilities.
type Smoothing string

const (
	// AddOne scores (count(context+w)+1) / (vocab(w)+|V|).
	AddOne Smoothing = "add_one"
	// NoSmoothing scores count(context+w) / vocab(w).
	NoSmoothing Smoothing = "none"
)

// ParseSmoothing maps a config value to a Smoothing.
func ParseSmoothing(s string) (Smoothing, error) {
	switch Smoothing(s) {
	case AddOne, NoSmoothing:
		return Smoothing(s), nil
	}
	return "", fmt.Errorf("unknown smoothing %q: %w", s, ngram.ErrInvalidConfig)
}

// probability scores one candidate. The add-one denominator uses the
// candidate's own unigram count, not the context total.
func (sm Smoothing) probability(c ngram.Candidate, vocabSize int) (float64, error) {
	switch sm {
	case AddOne:
		return float64(c.Count+1) / float64(c.VocabCount+vocabSize), nil
	case NoSmoothing:
		if c.VocabCount == 0 {
			return 0, fmt.Errorf("word %q has no unigram count: %w", c.Word, ngram.ErrDivisionUndefined)
		}
		return float64(c.Count) / float64(c.VocabCount), nil
	}
	return 0, fmt.Errorf("unknown smoothing %q: %w", string(sm), ngram.ErrInvalidConfig)
}
