package predict

import (
	"fmt"

	"github.com/bastiangx/wordpredict/pkg/ngram"
	"github.com/charmbracelet/log"
)

// Predictor ranks next words from a read-only Store. It is safe for
// concurrent use; the cache is its only mutable state.
type Predictor struct {
	store     *ngram.Store
	smoothing Smoothing
	cache     *Cache
}

// New creates a predictor over store using the given smoothing.
func New(store *ngram.Store, smoothing Smoothing) (*Predictor, error) {
	if store == nil {
		return nil, fmt.Errorf("nil store: %w", ngram.ErrInvalidConfig)
	}
	if _, err := ParseSmoothing(string(smoothing)); err != nil {
		return nil, err
	}
	return &Predictor{
		store:     store,
		smoothing: smoothing,
		cache:     NewCache(),
	}, nil
}

// N returns the n-gram order of the underlying store.
func (p *Predictor) N() int {
	return p.store.N()
}

// Store returns the frequency store the predictor reads from.
func (p *Predictor) Store() *ngram.Store {
	return p.store
}

// Predict returns up to k words, most probable first.
func (p *Predictor) Predict(context []string, k int) ([]string, error) {
	scoredWords, err := p.PredictScored(context, k)
	if err != nil {
		return nil, err
	}
	words := make([]string, len(scoredWords))
	for i, wp := range scoredWords {
		words[i] = wp.Word
	}
	return words, nil
}

// PredictScored returns up to k candidates with their probabilities.
// Equal probabilities keep vocabulary first-seen order, so a shorter k is
// always a prefix of a longer one.
func (p *Predictor) PredictScored(context []string, k int) ([]WordProb, error) {
	if len(context) != p.store.N()-1 {
		return nil, fmt.Errorf("context length %d, want %d: %w", len(context), p.store.N()-1, ngram.ErrInvalidConfig)
	}
	if k < 0 {
		return nil, fmt.Errorf("negative k %d: %w", k, ngram.ErrInvalidConfig)
	}

	key := p.store.ContextKey(context)
	ranked, err := p.cache.GetOrCompute(key, k, func() ([]WordProb, bool, error) {
		return p.rank(context, k)
	})
	if err != nil {
		return nil, err
	}
	out := make([]WordProb, len(ranked))
	copy(out, ranked)
	return out, nil
}

func (p *Predictor) rank(context []string, k int) ([]WordProb, bool, error) {
	vocabSize := p.store.VocabSize()
	sel := newTopK(min(k, vocabSize))

	var scoreErr error
	err := p.store.ForEachCandidate(context, func(c ngram.Candidate) {
		if scoreErr != nil {
			return
		}
		prob, err := p.smoothing.probability(c, vocabSize)
		if err != nil {
			scoreErr = err
			return
		}
		sel.offer(scored{WordProb: WordProb{Word: c.Word, Prob: prob}, index: c.Index})
	})
	if err != nil {
		return nil, false, err
	}
	if scoreErr != nil {
		return nil, false, scoreErr
	}

	ranked := sel.ranked()
	log.Debugf("Ranked %d candidates for context %v (k=%d)", vocabSize, context, k)
	return ranked, k >= vocabSize, nil
}

// Stats merges store and cache statistics.
func (p *Predictor) Stats() map[string]int {
	stats := p.store.Stats()
	for k, v := range p.cache.Stats() {
		stats[k] = v
	}
	return stats
}
