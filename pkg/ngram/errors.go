package ngram

import "errors"

// Error kinds shared by the store, the predictor and the metrics.
// Callers match them with errors.Is; the returned errors carry detail.
var (
	// ErrInvalidConfig covers a bad window size or a context of the wrong length.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrDivisionUndefined is returned by unsmoothed scoring when a word has no unigram count.
	ErrDivisionUndefined = errors.New("division undefined")
	// ErrEmptyInput is returned when a metric is asked to average zero pairs.
	ErrEmptyInput = errors.New("empty input")
)
