// Package predict ranks the vocabulary as continuations of a context and
// returns the top-k candidates, memoizing each context's ranking.
package predict

// IPredictor defines the interface for next-word prediction engines
type IPredictor interface {
	// Predict returns up to k words, most probable first
	Predict(context []string, k int) ([]string, error)

	// PredictScored is Predict with the probability of each word attached
	PredictScored(context []string, k int) ([]WordProb, error)

	// N returns the n-gram order; contexts hold N()-1 tokens
	N() int

	// Stats returns statistics about the store and the cache
	Stats() map[string]int
}

// WordProb pairs a candidate word with its smoothed probability.
// Ordering between candidates is by Prob alone.
type WordProb struct {
	Word string  `msgpack:"w"`
	Prob float64 `msgpack:"p"`
}
