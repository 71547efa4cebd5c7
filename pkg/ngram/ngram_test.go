package ngram

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scenario = []string{"a", "b", "c", "a", "b", "d"}

func TestMakeNgrams(t *testing.T) {
	testCases := []struct {
		tokens []string
		n      int
		want   []NGram
	}{
		{scenario, 2, []NGram{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"a", "b"}, {"b", "d"}}},
		{scenario, 6, []NGram{scenario}},
		{scenario, 7, []NGram{}},
		{nil, 1, []NGram{}},
		{[]string{"x", "y"}, 1, []NGram{{"x"}, {"y"}}},
	}

	for _, tc := range testCases {
		got, err := MakeNgrams(tc.tokens, tc.n)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "n=%d tokens=%v", tc.n, tc.tokens)
	}
}

func TestMakeNgramsInvalid(t *testing.T) {
	_, err := MakeNgrams(scenario, 0)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestMakeNgramsDoesNotAlias(t *testing.T) {
	tokens := []string{"a", "b", "c"}
	grams, err := MakeNgrams(tokens, 2)
	require.NoError(t, err)
	grams[0] = append(grams[0], "z")
	assert.Equal(t, []string{"a", "b", "c"}, tokens)
}

func TestSplit(t *testing.T) {
	ctx, target := Split(NGram{"the", "quick", "fox"})
	assert.Equal(t, []string{"the", "quick"}, ctx)
	assert.Equal(t, "fox", target)

	ctx, target = Split(NGram{"solo"})
	assert.Empty(t, ctx)
	assert.Equal(t, "solo", target)
}

func TestConcat(t *testing.T) {
	got := Concat([][]string{{"a", "b"}, {}, {"c"}})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestBuildScenario(t *testing.T) {
	s, err := Build(scenario, 2)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"a b": 2, "b c": 1, "c a": 1, "b d": 1}, s.NgramCounts())
	assert.Equal(t, 2, s.VocabCount("a"))
	assert.Equal(t, 2, s.VocabCount("b"))
	assert.Equal(t, 1, s.VocabCount("c"))
	assert.Equal(t, 1, s.VocabCount("d"))
	assert.Equal(t, 0, s.VocabCount("zzz"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Vocabulary())
	assert.Equal(t, 2, s.Count(NGram{"a", "b"}))
	assert.Equal(t, 0, s.Count(NGram{"a", "d"}))
	assert.Equal(t, 0, s.Count(NGram{"a"}))
	assert.Equal(t, 5, s.Observations())
}

func TestBuildObservationTotals(t *testing.T) {
	stream := []string{"x", "y", "x", "x", "y", "z", "x", "y", "y"}
	for n := 1; n <= len(stream)+1; n++ {
		s, err := Build(stream, n)
		require.NoError(t, err)

		want := len(stream) - n + 1
		if want < 0 {
			want = 0
		}
		sum := 0
		for _, c := range s.NgramCounts() {
			sum += c
		}
		assert.Equal(t, want, s.Observations(), "n=%d", n)
		assert.Equal(t, want, sum, "n=%d", n)
	}
}

func TestBuildInvalid(t *testing.T) {
	_, err := Build(scenario, 0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestForEachCandidate(t *testing.T) {
	s, err := Build(scenario, 2)
	require.NoError(t, err)

	counts := map[string]int{}
	var order []string
	err = s.ForEachCandidate([]string{"a"}, func(c Candidate) {
		counts[c.Word] = c.Count
		order = append(order, c.Word)
		assert.Equal(t, s.VocabCount(c.Word), c.VocabCount)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, order)
	assert.Equal(t, map[string]int{"a": 0, "b": 2, "c": 0, "d": 0}, counts)

	err = s.ForEachCandidate([]string{"a", "b"}, func(Candidate) {})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	unseen := 0
	err = s.ForEachCandidate([]string{"nope"}, func(c Candidate) { unseen += c.Count })
	require.NoError(t, err)
	assert.Zero(t, unseen)
}

func TestContextKey(t *testing.T) {
	s, err := Build(scenario, 3)
	require.NoError(t, err)

	assert.Equal(t, s.ContextKey([]string{"a", "b"}), s.ContextKey([]string{"a", "b"}))
	assert.NotEqual(t, s.ContextKey([]string{"a", "b"}), s.ContextKey([]string{"b", "a"}))
	assert.NotEqual(t, s.ContextKey([]string{"q", "r"}), s.ContextKey([]string{"qr", ""}))
}
