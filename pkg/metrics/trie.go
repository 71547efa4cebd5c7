package metrics

import (
	"sort"

	"github.com/tchap/go-patricia/v2/patricia"
)

// RankTrie indexes one prediction list by word, mapping each distinct word
// to its position. A word listed twice keeps its later position.
type RankTrie struct {
	trie  *patricia.Trie
	words []string
}

// NewRankTrie builds the prefix index for predicted.
func NewRankTrie(predicted []string) *RankTrie {
	rt := &RankTrie{
		trie:  patricia.NewTrie(),
		words: predicted,
	}
	for rank, word := range predicted {
		// No prefix of length >= 1 can reach an empty word.
		if word == "" {
			continue
		}
		rt.trie.Set(patricia.Prefix(word), rank)
	}
	return rt
}

// PrefixMatches returns the ranks of every indexed word starting with
// prefix, best (lowest) first. ok is false when nothing shares the prefix.
func (rt *RankTrie) PrefixMatches(prefix string) (ranks []int, ok bool) {
	_ = rt.trie.VisitSubtree(patricia.Prefix(prefix), func(_ patricia.Prefix, item patricia.Item) error {
		ranks = append(ranks, item.(int))
		return nil
	})
	if len(ranks) == 0 {
		return nil, false
	}
	sort.Ints(ranks)
	return ranks, true
}

// WordAt returns the word predicted at rank.
func (rt *RankTrie) WordAt(rank int) string {
	return rt.words[rank]
}
