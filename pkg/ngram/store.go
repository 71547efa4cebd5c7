package ngram

import (
	"encoding/binary"
	"fmt"
)

// idWidth is the number of bytes one token id occupies inside a Key.
const idWidth = 4

// Key is the comparable lookup form of an n-gram: the fixed-width
// little-endian encoding of its token ids. Two keys are equal iff every
// position holds the same token.
type Key string

// Store holds unigram and n-gram counts for one training stream.
type Store struct {
	n            int
	ids          map[string]uint32
	words        []string
	vocabCounts  []int
	ngramCounts  map[Key]int
	observations int
}

// Build counts every token and every contiguous window of length n.
func Build(tokens []string, n int) (*Store, error) {
	if n < 1 {
		return nil, fmt.Errorf("window size %d: %w", n, ErrInvalidConfig)
	}

	s := &Store{
		n:           n,
		ids:         make(map[string]uint32),
		ngramCounts: make(map[Key]int),
	}

	seq := make([]uint32, len(tokens))
	for i, tok := range tokens {
		id, ok := s.ids[tok]
		if !ok {
			id = uint32(len(s.words))
			s.ids[tok] = id
			s.words = append(s.words, tok)
			s.vocabCounts = append(s.vocabCounts, 0)
		}
		s.vocabCounts[id]++
		seq[i] = id
	}

	buf := make([]byte, 0, n*idWidth)
	for i := 0; i+n <= len(seq); i++ {
		buf = buf[:0]
		for _, id := range seq[i : i+n] {
			buf = binary.LittleEndian.AppendUint32(buf, id)
		}
		s.ngramCounts[Key(buf)]++
		s.observations++
	}

	return s, nil
}

// N returns the window size the store was built with.
func (s *Store) N() int {
	return s.n
}

// VocabSize returns the number of distinct tokens.
func (s *Store) VocabSize() int {
	return len(s.words)
}

// Vocabulary returns the distinct tokens in first-seen order.
// The returned slice must not be modified.
func (s *Store) Vocabulary() []string {
	return s.words
}

// VocabCount returns the unigram count of word, zero if unseen.
func (s *Store) VocabCount(word string) int {
	id, ok := s.ids[word]
	if !ok {
		return 0
	}
	return s.vocabCounts[id]
}

// Observations returns the number of windows counted (len(tokens)-n+1, or 0).
func (s *Store) Observations() int {
	return s.observations
}

// UniqueNgrams returns the number of distinct n-grams.
func (s *Store) UniqueNgrams() int {
	return len(s.ngramCounts)
}

// Count returns how often g occurred. N-grams of the wrong length or with
// unseen tokens count zero.
func (s *Store) Count(g NGram) int {
	if len(g) != s.n {
		return 0
	}
	key, ok := s.appendKey(make([]byte, 0, s.n*idWidth), g)
	if !ok {
		return 0
	}
	return s.ngramCounts[Key(key)]
}

// NgramCounts returns a copy of the n-gram counts keyed by token tuple
// joined with a single space. Intended for inspection and tests.
func (s *Store) NgramCounts() map[string]int {
	out := make(map[string]int, len(s.ngramCounts))
	for k, c := range s.ngramCounts {
		raw := []byte(k)
		words := make([]byte, 0, len(raw))
		for i := 0; i < len(raw); i += idWidth {
			if i > 0 {
				words = append(words, ' ')
			}
			words = append(words, s.words[binary.LittleEndian.Uint32(raw[i:])]...)
		}
		out[string(words)] = c
	}
	return out
}

// Candidate describes one vocabulary word as a continuation of a context.
type Candidate struct {
	Index      int
	Word       string
	Count      int
	VocabCount int
}

// ForEachCandidate calls fn for every vocabulary word, in first-seen order,
// with the count of context followed by that word. context must hold
// exactly n-1 tokens.
func (s *Store) ForEachCandidate(context []string, fn func(Candidate)) error {
	if len(context) != s.n-1 {
		return fmt.Errorf("context length %d, want %d: %w", len(context), s.n-1, ErrInvalidConfig)
	}

	buf, known := s.appendKey(make([]byte, 0, s.n*idWidth), context)
	base := len(buf)
	for id, word := range s.words {
		c := Candidate{Index: id, Word: word, VocabCount: s.vocabCounts[id]}
		if known {
			buf = binary.LittleEndian.AppendUint32(buf[:base], uint32(id))
			c.Count = s.ngramCounts[Key(buf)]
		}
		fn(c)
	}
	return nil
}

// ContextKey encodes context for use as a cache key. Unseen tokens are
// encoded by value so distinct unseen contexts stay distinct.
func (s *Store) ContextKey(context []string) Key {
	buf := make([]byte, 0, len(context)*idWidth)
	for _, tok := range context {
		if id, ok := s.ids[tok]; ok {
			buf = append(buf, 'k')
			buf = binary.LittleEndian.AppendUint32(buf, id)
			continue
		}
		buf = append(buf, 'u')
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tok)))
		buf = append(buf, tok...)
	}
	return Key(buf)
}

// Stats reports the store size in the same shape as the completer stats.
func (s *Store) Stats() map[string]int {
	return map[string]int{
		"n":            s.n,
		"vocabSize":    len(s.words),
		"uniqueNgrams": len(s.ngramCounts),
		"observations": s.observations,
	}
}

func (s *Store) appendKey(dst []byte, tokens []string) ([]byte, bool) {
	for _, tok := range tokens {
		id, ok := s.ids[tok]
		if !ok {
			return dst, false
		}
		dst = binary.LittleEndian.AppendUint32(dst, id)
	}
	return dst, true
}
