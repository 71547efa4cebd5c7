package experiment

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/bastiangx/wordpredict/pkg/config"
	"github.com/bastiangx/wordpredict/pkg/corpus"
	"github.com/bastiangx/wordpredict/pkg/ngram"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func scenarioConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Model.N = 2
	cfg.Corpus.TrainStart, cfg.Corpus.TrainEnd = 0, 1
	cfg.Corpus.TestStart, cfg.Corpus.TestEnd = 0, 1
	cfg.Corpus.SkipTokens = 0
	cfg.Eval.AccuracyK = 1
	cfg.Eval.Progress = false
	return cfg
}

func scenarioSource() *corpus.MemorySource {
	return &corpus.MemorySource{
		Sentences: [][]string{{"a", "b", "c", "a", "b", "d"}},
		Ratings:   []float64{4},
	}
}

func TestRun(t *testing.T) {
	report, err := Run(context.Background(), scenarioSource(), scenarioConfig(), quietLogger())
	require.NoError(t, err)

	assert.Equal(t, 2, report.N)
	assert.Equal(t, 5, report.Pairs)
	// only "d" after "b" misses the top slot
	assert.InDelta(t, 0.8, report.Accuracy, 1e-12)
	// every hit is the sole match after one character
	assert.InDelta(t, 0.5, report.KeystrokeSavings, 1e-12)
}

func TestTrainAndPredict(t *testing.T) {
	cfg := scenarioConfig()
	p, err := Train(scenarioSource(), cfg, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 4, p.Store().VocabSize())

	grams, err := TestNgrams(scenarioSource(), cfg)
	require.NoError(t, err)
	require.Len(t, grams, 5)

	var bar bytes.Buffer
	trueWords, predicted, err := Predict(context.Background(), p, grams, 2, &bar, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "b", "d"}, trueWords)
	assert.Equal(t, [][]string{{"b", "c"}, {"c", "d"}, {"a", "c"}, {"b", "c"}, {"c", "d"}}, predicted)
}

func TestRunSkipsLeadingTokens(t *testing.T) {
	cfg := scenarioConfig()
	cfg.Corpus.SkipTokens = 5

	_, err := Run(context.Background(), scenarioSource(), cfg, quietLogger())
	assert.ErrorIs(t, err, ngram.ErrEmptyInput)
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := scenarioConfig()
	cfg.Model.N = 0

	_, err := Run(context.Background(), scenarioSource(), cfg, quietLogger())
	assert.ErrorIs(t, err, ngram.ErrInvalidConfig)
}

func TestPredictCanceled(t *testing.T) {
	cfg := scenarioConfig()
	p, err := Train(scenarioSource(), cfg, quietLogger())
	require.NoError(t, err)
	grams, err := TestNgrams(scenarioSource(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = Predict(ctx, p, grams, 2, nil, quietLogger())
	assert.ErrorIs(t, err, context.Canceled)
}
