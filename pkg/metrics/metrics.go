// Package metrics scores prediction lists against the words that were
// actually typed: plain top-k accuracy, and keystroke savings, which
// replays typing the true word one character at a time.
package metrics

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"unicode/utf8"

	"github.com/bastiangx/wordpredict/pkg/ngram"
	"gonum.org/v1/gonum/stat"
)

func validatePairs(trueWords []string, predicted [][]string) error {
	if len(trueWords) != len(predicted) {
		return fmt.Errorf("%d true words but %d prediction lists: %w", len(trueWords), len(predicted), ngram.ErrInvalidConfig)
	}
	if len(trueWords) == 0 {
		return fmt.Errorf("no pairs to score: %w", ngram.ErrEmptyInput)
	}
	return nil
}

// TopKAccuracy returns the fraction of pairs whose true word appears in
// the first k entries of its prediction list.
func TopKAccuracy(trueWords []string, predicted [][]string, k int) (float64, error) {
	if err := validatePairs(trueWords, predicted); err != nil {
		return 0, err
	}
	if k < 0 {
		return 0, fmt.Errorf("negative k %d: %w", k, ngram.ErrInvalidConfig)
	}

	correct := 0
	for i, word := range trueWords {
		list := predicted[i]
		if len(list) > k {
			list = list[:k]
		}
		for _, p := range list {
			if p == word {
				correct++
				break
			}
		}
	}
	return float64(correct) / float64(len(trueWords)), nil
}

// PairSavings scores one pair. Typing trueWord rune by rune, the score is
// 1 - typed/(len+1) at the first prefix where trueWord is among the
// topRank best matches sharing that prefix. It is 0 when no prediction
// shares some prefix or the word is never confidently matched.
func PairSavings(trueWord string, predicted []string, topRank int) float64 {
	rt := NewRankTrie(predicted)
	length := utf8.RuneCountInString(trueWord)

	// prefixes are byte slices of trueWord so they stay comparable with
	// the indexed words even when trueWord is not valid UTF-8
	offset := 0
	for typed := 1; typed <= length; typed++ {
		_, width := utf8.DecodeRuneInString(trueWord[offset:])
		offset += width

		ranks, ok := rt.PrefixMatches(trueWord[:offset])
		if !ok {
			return 0
		}
		for _, rank := range ranks[:min(topRank, len(ranks))] {
			if rt.WordAt(rank) == trueWord {
				return 1 - float64(typed)/float64(length+1)
			}
		}
	}
	return 0
}

// KeystrokeSavings returns the mean PairSavings over all pairs.
func KeystrokeSavings(trueWords []string, predicted [][]string, topRank int) (float64, error) {
	if err := validatePairs(trueWords, predicted); err != nil {
		return 0, err
	}
	if topRank < 1 {
		return 0, fmt.Errorf("top rank %d: %w", topRank, ngram.ErrInvalidConfig)
	}

	scores := make([]float64, len(trueWords))
	for i, word := range trueWords {
		scores[i] = PairSavings(word, predicted[i], topRank)
	}
	return stat.Mean(scores, nil), nil
}

// ParallelKeystrokeSavings computes KeystrokeSavings with pairs spread over
// workers goroutines. Each pair is independent, so the result matches the
// sequential version. workers <= 0 uses GOMAXPROCS.
func ParallelKeystrokeSavings(ctx context.Context, trueWords []string, predicted [][]string, topRank, workers int) (float64, error) {
	if err := validatePairs(trueWords, predicted); err != nil {
		return 0, err
	}
	if topRank < 1 {
		return 0, fmt.Errorf("top rank %d: %w", topRank, ngram.ErrInvalidConfig)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	scores := make([]float64, len(trueWords))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				scores[i] = PairSavings(trueWords[i], predicted[i], topRank)
			}
		}()
	}

	var err error
feed:
	for i := range trueWords {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err != nil {
		return 0, err
	}
	return stat.Mean(scores, nil), nil
}
