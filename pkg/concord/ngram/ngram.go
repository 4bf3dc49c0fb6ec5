// Package ngram builds windowed bigram and trigram frequency tables over
// a token sequence.
package ngram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/concord/pkg/concord/internalerr"
)

// DefaultWindow is the default window size in tokens.
const DefaultWindow = 5

// Gram is an ordered tuple of Order tokens (2 or 3).
type Gram struct {
	Order int
	T     [3]string
}

// Bigram returns the gram (a, b).
func Bigram(a, b string) Gram {
	return Gram{Order: 2, T: [3]string{a, b}}
}

// Trigram returns the gram (a, b, c).
func Trigram(a, b, c string) Gram {
	return Gram{Order: 3, T: [3]string{a, b, c}}
}

// Tokens returns the gram's tokens in order.
func (g Gram) Tokens() []string {
	out := make([]string, g.Order)
	copy(out, g.T[:g.Order])
	return out
}

// String joins the tokens with single spaces.
func (g Gram) String() string {
	return strings.Join(g.T[:g.Order], " ")
}

// Less orders grams lexicographically by token.
func (g Gram) Less(o Gram) bool {
	for i := 0; i < 3; i++ {
		if g.T[i] != o.T[i] {
			return g.T[i] < o.T[i]
		}
	}
	return g.Order < o.Order
}

// Table holds n-gram counts over a corpus.
type Table struct {
	order    int
	window   int
	grams    map[Gram]int64
	unigrams map[string]int64
	tokens   int64 // total number of tokens
	slots    int64 // n-gram candidates scanned
}

// Build counts n-grams of order n (2 or 3) over tokens. Every position i
// starts a window tokens[i:i+win], right-truncated at the end of the
// sequence, and contributes every ordered n-combination of the window
// whose first member is tokens[i]. Each set of n positions lying within
// win tokens of each other is therefore counted exactly once.
func Build(tokens []string, n, win int) (*Table, error) {
	if n != 2 && n != 3 {
		return nil, fmt.Errorf("n-gram order %d not supported: %w", n, internalerr.ErrInvalidConfig)
	}
	if win < n {
		return nil, fmt.Errorf("window %d smaller than n-gram order %d: %w", win, n, internalerr.ErrInvalidConfig)
	}

	t := &Table{
		order:    n,
		window:   win,
		grams:    make(map[Gram]int64),
		unigrams: make(map[string]int64),
		tokens:   int64(len(tokens)),
	}

	for i := range tokens {
		t.unigrams[tokens[i]]++

		// Look ahead within window
		end := min(len(tokens), i+win)
		for j := i + 1; j < end; j++ {
			if n == 2 {
				t.grams[Bigram(tokens[i], tokens[j])]++
				t.slots++
				continue
			}
			for k := j + 1; k < end; k++ {
				t.grams[Trigram(tokens[i], tokens[j], tokens[k])]++
				t.slots++
			}
		}
	}

	return t, nil
}

// FilterFreq removes every n-gram counted fewer than minFreq times and
// returns the number removed. Unigram counts are left untouched.
func (t *Table) FilterFreq(minFreq int64) int {
	removed := 0
	for g, count := range t.grams {
		if count < minFreq {
			delete(t.grams, g)
			removed++
		}
	}
	return removed
}

// Order returns the n-gram order.
func (t *Table) Order() int { return t.order }

// Window returns the window size.
func (t *Table) Window() int { return t.window }

// Len returns the number of distinct n-grams.
func (t *Table) Len() int { return len(t.grams) }

// Count returns the count of g.
func (t *Table) Count(g Gram) int64 { return t.grams[g] }

// UnigramCount returns the frequency of token.
func (t *Table) UnigramCount(token string) int64 { return t.unigrams[token] }

// TotalTokens returns the number of tokens the table was built from.
func (t *Table) TotalTokens() int64 { return t.tokens }

// Slots returns the number of n-gram candidates scanned, which equals
// the sum of all counts before filtering.
func (t *Table) Slots() int64 { return t.slots }

// SlotsPerWindow returns the number of candidates a full window
// contributes: C(win-1, n-1).
func (t *Table) SlotsPerWindow() int64 {
	k := int64(t.window - 1)
	if t.order == 2 {
		return k
	}
	return k * (k - 1) / 2
}

// Each calls fn for every n-gram and its count, in no particular order.
func (t *Table) Each(fn func(g Gram, count int64)) {
	for g, count := range t.grams {
		fn(g, count)
	}
}

// Grams returns every n-gram in lexicographic order.
func (t *Table) Grams() []Gram {
	out := make([]Gram, 0, len(t.grams))
	for g := range t.grams {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
