package ngram

import (
	"errors"
	"strings"
	"testing"

	"github.com/cognicore/concord/pkg/concord/internalerr"
)

var catTokens = strings.Fields("the cat sat on the mat the cat ran")

func TestBuildBigrams(t *testing.T) {
	table, err := Build(catTokens, 2, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cases := []struct {
		gram Gram
		want int64
	}{
		{Bigram("the", "cat"), 2},
		{Bigram("cat", "sat"), 1},
		{Bigram("cat", "on"), 1},
		{Bigram("cat", "ran"), 1},
		{Bigram("the", "the"), 1},
		{Bigram("cat", "the"), 0},
	}
	for _, tc := range cases {
		if got := table.Count(tc.gram); got != tc.want {
			t.Errorf("Count(%s) = %d, want %d", tc.gram, got, tc.want)
		}
	}

	if table.UnigramCount("the") != 3 {
		t.Errorf("Expected unigram count 3 for 'the', got %d", table.UnigramCount("the"))
	}
	if table.TotalTokens() != 9 {
		t.Errorf("Expected 9 tokens, got %d", table.TotalTokens())
	}
	if table.Slots() != 15 {
		t.Errorf("Expected 15 slots, got %d", table.Slots())
	}
}

func TestBuildTrigrams(t *testing.T) {
	table, err := Build(catTokens, 3, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Window 3 yields only contiguous trigrams
	if table.Slots() != 7 {
		t.Errorf("Expected 7 slots, got %d", table.Slots())
	}
	if table.Count(Trigram("the", "cat", "sat")) != 1 {
		t.Error("Expected trigram (the cat sat)")
	}
	if table.Count(Trigram("the", "cat", "on")) != 0 {
		t.Error("Trigram (the cat on) spans 4 tokens and should not be counted")
	}

	wide, _ := Build(catTokens, 3, 4)
	if wide.Count(Trigram("the", "cat", "on")) != 1 {
		t.Error("Expected (the cat on) within a window of 4")
	}
	if wide.SlotsPerWindow() != 3 {
		t.Errorf("Expected 3 slots per window, got %d", wide.SlotsPerWindow())
	}
}

func TestCountsSumToSlots(t *testing.T) {
	tokens := strings.Fields("a b a c b a d a b c a a b")

	for _, n := range []int{2, 3} {
		for win := n; win <= 7; win++ {
			table, err := Build(tokens, n, win)
			if err != nil {
				t.Fatalf("Build(n=%d, win=%d): %v", n, win, err)
			}
			var sum int64
			table.Each(func(_ Gram, count int64) { sum += count })
			if sum != table.Slots() {
				t.Errorf("n=%d win=%d: counts sum to %d, slots %d", n, win, sum, table.Slots())
			}
		}
	}
}

func TestBuildInvalidConfig(t *testing.T) {
	if _, err := Build(catTokens, 3, 2); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("window < n should fail with ErrInvalidConfig, got %v", err)
	}
	if _, err := Build(catTokens, 4, 5); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("order 4 should fail with ErrInvalidConfig, got %v", err)
	}
}

func TestBuildEmpty(t *testing.T) {
	table, err := Build(nil, 2, 5)
	if err != nil {
		t.Fatalf("empty corpus should not error: %v", err)
	}
	if table.Len() != 0 || table.Slots() != 0 {
		t.Errorf("Expected empty table, got %d grams", table.Len())
	}
}

func TestFilterFreq(t *testing.T) {
	table, _ := Build(catTokens, 2, 3)
	before := table.Len()

	removed := table.FilterFreq(2)
	if table.Len() != 1 {
		t.Errorf("Expected only (the cat) to survive, got %v", table.Grams())
	}
	if removed != before-1 {
		t.Errorf("Expected %d removed, got %d", before-1, removed)
	}
	if table.UnigramCount("sat") != 1 {
		t.Error("Frequency filter must not touch unigram counts")
	}
}

func TestGramsSorted(t *testing.T) {
	table, _ := Build(strings.Fields("b a c"), 2, 3)

	grams := table.Grams()
	for i := 1; i < len(grams); i++ {
		if !grams[i-1].Less(grams[i]) {
			t.Errorf("Grams not sorted: %v", grams)
		}
	}
	if grams[0].String() != "a c" {
		t.Errorf("Expected first gram 'a c', got %q", grams[0])
	}
}
