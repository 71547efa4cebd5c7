// Package ngram turns token streams into n-gram windows and counts them.
//
// A Store is built once from a training stream and is read-only afterwards,
// so it can be shared between goroutines without locking.
package ngram

import "fmt"

// NGram is an ordered tuple of consecutive tokens.
type NGram []string

// Concat joins tokenized sentences into one flat stream.
// Sentence boundaries are dropped, so windows may span two sentences.
func Concat(sentences [][]string) []string {
	total := 0
	for _, s := range sentences {
		total += len(s)
	}
	out := make([]string, 0, total)
	for _, s := range sentences {
		out = append(out, s...)
	}
	return out
}

// MakeNgrams slides a window of length n over tokens. Position i yields
// tokens[i:i+n], giving len(tokens)-n+1 windows, or none when the stream
// is shorter than n. Windows share the backing array of tokens.
func MakeNgrams(tokens []string, n int) ([]NGram, error) {
	if n < 1 {
		return nil, fmt.Errorf("window size %d: %w", n, ErrInvalidConfig)
	}
	if len(tokens) < n {
		return []NGram{}, nil
	}
	grams := make([]NGram, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, NGram(tokens[i:i+n:i+n]))
	}
	return grams, nil
}

// Split separates an n-gram into its context (all but the last token)
// and its target (the last token). An empty n-gram yields an empty target.
func Split(g NGram) (context []string, target string) {
	if len(g) == 0 {
		return nil, ""
	}
	return g[:len(g)-1], g[len(g)-1]
}
