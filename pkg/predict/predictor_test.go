package predict

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bastiangx/wordpredict/pkg/ngram"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newPredictor(t *testing.T, tokens []string, n int, sm Smoothing) *Predictor {
	t.Helper()
	store, err := ngram.Build(tokens, n)
	require.NoError(t, err)
	p, err := New(store, sm)
	require.NoError(t, err)
	return p
}

func TestPredictScenario(t *testing.T) {
	p := newPredictor(t, []string{"a", "b", "c", "a", "b", "d"}, 2, AddOne)

	got, err := p.PredictScored([]string{"a"}, 4)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// b: 3/6, c: 1/5, d: 1/5, a: 1/6; c precedes d in vocabulary order
	assert.Equal(t, []string{"b", "c", "d", "a"}, words(got))
	assert.InDelta(t, 0.5, got[0].Prob, 1e-12)
	assert.InDelta(t, 0.2, got[1].Prob, 1e-12)
	assert.InDelta(t, 1.0/6.0, got[3].Prob, 1e-12)

	top2, err := p.Predict([]string{"a"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, top2)
}

func TestPredictNoSmoothing(t *testing.T) {
	p := newPredictor(t, []string{"a", "b", "c", "a", "b", "d"}, 2, NoSmoothing)

	got, err := p.PredictScored([]string{"b"}, 2)
	require.NoError(t, err)
	// c: 1/1, d: 1/1, a: 0, b: 0
	assert.Equal(t, []string{"c", "d"}, words(got))
	assert.Equal(t, 1.0, got[0].Prob)
}

func TestPredictIdempotent(t *testing.T) {
	p := newPredictor(t, corpus(), 3, AddOne)

	first, err := p.Predict([]string{"the", "cat"}, 5)
	require.NoError(t, err)
	second, err := p.Predict([]string{"the", "cat"}, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	stats := p.Stats()
	assert.Equal(t, 1, stats["cacheHits"])
	assert.Equal(t, 1, stats["cacheMisses"])
	assert.Equal(t, 1, stats["cacheContexts"])
}

func TestPredictCacheMatchesFresh(t *testing.T) {
	cached := newPredictor(t, corpus(), 2, AddOne)
	contexts := [][]string{{"the"}, {"sat"}, {"on"}, {"unseen"}}

	for _, ctx := range contexts {
		for _, k := range []int{3, 1, 7, 2, 100, 0} {
			fresh := newPredictor(t, corpus(), 2, AddOne)
			want, err := fresh.Predict(ctx, k)
			require.NoError(t, err)
			got, err := cached.Predict(ctx, k)
			require.NoError(t, err)
			assert.Equal(t, want, got, "context=%v k=%d", ctx, k)
		}
	}
}

func TestPredictPrefixStable(t *testing.T) {
	p := newPredictor(t, corpus(), 2, AddOne)
	full, err := p.Predict([]string{"the"}, 100)
	require.NoError(t, err)
	assert.Len(t, full, p.Store().VocabSize())

	for k := 0; k <= len(full); k++ {
		fresh := newPredictor(t, corpus(), 2, AddOne)
		got, err := fresh.Predict([]string{"the"}, k)
		require.NoError(t, err)
		assert.Equal(t, full[:k], got, "k=%d", k)
	}
}

func TestPredictErrors(t *testing.T) {
	p := newPredictor(t, corpus(), 3, AddOne)

	_, err := p.Predict([]string{"the"}, 3)
	assert.ErrorIs(t, err, ngram.ErrInvalidConfig)

	_, err = p.Predict([]string{"the", "cat"}, -1)
	assert.ErrorIs(t, err, ngram.ErrInvalidConfig)

	got, err := p.Predict([]string{"the", "cat"}, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestNewValidates(t *testing.T) {
	store, err := ngram.Build(corpus(), 2)
	require.NoError(t, err)

	_, err = New(store, Smoothing("kneser_ney"))
	assert.ErrorIs(t, err, ngram.ErrInvalidConfig)

	_, err = New(nil, AddOne)
	assert.ErrorIs(t, err, ngram.ErrInvalidConfig)
}

func TestParseSmoothing(t *testing.T) {
	sm, err := ParseSmoothing("add_one")
	require.NoError(t, err)
	assert.Equal(t, AddOne, sm)

	sm, err = ParseSmoothing("none")
	require.NoError(t, err)
	assert.Equal(t, NoSmoothing, sm)

	_, err = ParseSmoothing("")
	assert.ErrorIs(t, err, ngram.ErrInvalidConfig)
}

func TestUnsmoothedZeroDenominator(t *testing.T) {
	_, err := NoSmoothing.probability(ngram.Candidate{Word: "ghost"}, 3)
	assert.ErrorIs(t, err, ngram.ErrDivisionUndefined)
}

func TestUnigramPredict(t *testing.T) {
	p := newPredictor(t, []string{"x", "y", "y", "z", "y"}, 1, AddOne)
	// y: 4/6, x: 2/4, z: 2/4
	got, err := p.Predict(nil, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x", "z"}, got)
}

func TestPredictConcurrent(t *testing.T) {
	p := newPredictor(t, corpus(), 2, AddOne)
	want := map[string][]string{}
	for _, w := range p.Store().Vocabulary() {
		fresh := newPredictor(t, corpus(), 2, AddOne)
		ranked, err := fresh.Predict([]string{w}, 4)
		require.NoError(t, err)
		want[w] = ranked
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for worker := 0; worker < 8; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				for w, expected := range want {
					got, err := p.Predict([]string{w}, 4)
					if err != nil {
						errs <- err
						return
					}
					if fmt.Sprint(got) != fmt.Sprint(expected) {
						errs <- fmt.Errorf("context %q: got %v want %v", w, got, expected)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestCachePutKeepsLongest(t *testing.T) {
	c := NewCache()
	key := ngram.Key("ctx")
	long := []WordProb{{"a", 0.5}, {"b", 0.3}, {"c", 0.1}}

	c.Put(key, long, false)
	c.Put(key, long[:1], false)

	got, ok := c.Get(key, 2)
	require.True(t, ok)
	assert.Equal(t, long[:2], got)

	_, ok = c.Get(key, 4)
	assert.False(t, ok)

	c.Put(key, long, true)
	got, ok = c.Get(key, 10)
	require.True(t, ok)
	assert.Equal(t, long, got)
}

func TestCachePutCompleteReplacesSameLength(t *testing.T) {
	c := NewCache()
	key := ngram.Key("ctx")
	ranked := []WordProb{{"a", 0.5}, {"b", 0.3}}

	c.Put(key, ranked, false)
	_, ok := c.Get(key, 3)
	require.False(t, ok)

	c.Put(key, ranked, true)
	got, ok := c.Get(key, 3)
	require.True(t, ok, "a complete ranking must serve any k")
	assert.Equal(t, ranked, got)

	// an incomplete ranking never displaces a complete one
	c.Put(key, append(ranked, WordProb{"c", 0.1}), false)
	got, ok = c.Get(key, 10)
	require.True(t, ok)
	assert.Equal(t, ranked, got)
}

func words(wps []WordProb) []string {
	out := make([]string, len(wps))
	for i, wp := range wps {
		out[i] = wp.Word
	}
	return out
}

func corpus() []string {
	return []string{
		"the", "cat", "sat", "on", "the", "mat",
		"the", "cat", "ate", "the", "fish",
		"a", "dog", "sat", "on", "the", "cat",
	}
}

func TestComplete(t *testing.T) {
	p := newPredictor(t, []string{"a", "b", "c", "a", "b", "d", "a", "bc"}, 2, AddOne)

	got, err := Complete(p, []string{"a"}, "b", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "bc"}, words(got))

	got, err = Complete(p, []string{"a"}, "b", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, words(got))

	got, err = Complete(p, []string{"a"}, "x", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	plain, err := Complete(p, []string{"a"}, "", 3)
	require.NoError(t, err)
	direct, err := p.PredictScored([]string{"a"}, 3)
	require.NoError(t, err)
	assert.Equal(t, direct, plain)

	_, err = Complete(p, []string{"a", "b"}, "b", 3)
	assert.ErrorIs(t, err, ngram.ErrInvalidConfig)
}
