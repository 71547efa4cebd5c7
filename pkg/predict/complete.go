package predict

import "github.com/bastiangx/wordpredict/pkg/metrics"

// Complete returns up to limit predictions for context that start with
// prefix, keeping their relative order. An empty prefix is plain
// PredictScored. Filtering ranks the whole vocabulary once per context;
// later calls for the same context are served from the cache.
func Complete(p IPredictor, context []string, prefix string, limit int) ([]WordProb, error) {
	if prefix == "" {
		return p.PredictScored(context, limit)
	}

	all, err := p.PredictScored(context, p.Stats()["vocabSize"])
	if err != nil {
		return nil, err
	}
	words := make([]string, len(all))
	for i, wp := range all {
		words[i] = wp.Word
	}

	ranks, ok := metrics.NewRankTrie(words).PrefixMatches(prefix)
	if !ok {
		return []WordProb{}, nil
	}
	ranks = ranks[:min(max(limit, 0), len(ranks))]
	out := make([]WordProb, len(ranks))
	for i, r := range ranks {
		out[i] = all[r]
	}
	return out, nil
}
