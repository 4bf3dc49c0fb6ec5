package pmi

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/ngram"
)

var catTokens = strings.Fields("the cat sat on the mat the cat ran")

func TestPMIBasic(t *testing.T) {
	// (cat, ran) with window 3: count 1, 18 slots, c(cat)=2, c(ran)=1, N=9
	pmi := PMI(1, 18, []int64{2, 1}, 9)

	// Classical windowed form: log2(c*N / ((win-1) * c1 * c2))
	expected := math.Log2(9.0 / (2 * 2 * 1))
	if math.Abs(pmi-expected) > 1e-9 {
		t.Errorf("PMI = %f, expected %f", pmi, expected)
	}
}

func TestPMIIndependent(t *testing.T) {
	// P(ab) = 25/400 = 1/16 = P(a) * P(b)
	pmi := PMI(25, 400, []int64{50, 50}, 200)

	if math.Abs(pmi) > 1e-9 {
		t.Errorf("PMI for independent tokens should be 0, got %f", pmi)
	}
}

func TestPMINegative(t *testing.T) {
	pmi := PMI(1, 400, []int64{100, 100}, 200)

	if pmi >= 0 {
		t.Errorf("PMI for anti-correlated tokens should be negative, got %f", pmi)
	}
}

func TestPMIZeroCounts(t *testing.T) {
	if PMI(0, 10, []int64{1, 1}, 10) != 0 {
		t.Error("PMI of an unseen n-gram should be 0")
	}
	if PMI(1, 0, []int64{1, 1}, 0) != 0 {
		t.Error("PMI with zero tokens should be 0")
	}
	if PMI(1, 10, []int64{0, 1}, 10) != 0 {
		t.Error("PMI with a zero marginal should be 0")
	}
}

func TestPMIVeryLargeN(t *testing.T) {
	pmi := PMI(10000, 4e10, []int64{100000, 100000, 100000}, 10000000000)

	if math.IsInf(pmi, 0) || math.IsNaN(pmi) {
		t.Error("PMI with very large N should not overflow")
	}
}

func TestNPMIRange(t *testing.T) {
	testCases := []struct {
		count    int64
		unigrams []int64
	}{
		{50, []int64{50, 50}},
		{1, []int64{50, 50}},
		{10, []int64{20, 20}},
	}

	for _, tc := range testCases {
		npmi := NPMI(tc.count, 400, tc.unigrams, 200)
		if npmi < -1.0 || npmi > 1.0 {
			t.Errorf("NPMI out of range [-1, 1]: %f for case %+v", npmi, tc)
		}
	}
}

func TestParseMeasure(t *testing.T) {
	cases := map[string]Measure{"": MeasurePMI, "PMI": MeasurePMI, "npmi": MeasureNPMI}
	for in, want := range cases {
		got, err := ParseMeasure(in)
		if err != nil || got != want {
			t.Errorf("ParseMeasure(%q) = %v, %v; want %v", in, got, err, want)
		}
	}

	if _, err := ParseMeasure("dice"); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for unknown measure, got %v", err)
	}
	if MeasureNPMI.String() != "npmi" {
		t.Errorf("Unexpected name %q", MeasureNPMI.String())
	}
}

func TestScorerOrdering(t *testing.T) {
	table, err := ngram.Build(catTokens, 2, 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	scored := NewScorer(MeasurePMI).Score(table)
	if len(scored) != table.Len() {
		t.Fatalf("Expected %d scored grams, got %d", table.Len(), len(scored))
	}
	for i := 1; i < len(scored); i++ {
		prev, cur := scored[i-1], scored[i]
		if prev.Score < cur.Score {
			t.Errorf("Scores not descending at %d: %f < %f", i, prev.Score, cur.Score)
		}
		if prev.Score == cur.Score && !prev.Gram.Less(cur.Gram) {
			t.Errorf("Ties not broken lexicographically at %d: %s, %s", i, prev.Gram, cur.Gram)
		}
	}
	for _, s := range scored {
		if s.Freq != table.Count(s.Gram) {
			t.Errorf("Freq of %s = %d, table says %d", s.Gram, s.Freq, table.Count(s.Gram))
		}
	}
}

func TestScorerDeterministic(t *testing.T) {
	build := func() []Scored {
		table, _ := ngram.Build(catTokens, 3, 4)
		return NewScorer(MeasurePMI).Score(table)
	}

	first, second := build(), build()
	if len(first) != len(second) {
		t.Fatalf("Lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Result %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestScorerSkipsFilteredGrams(t *testing.T) {
	table, _ := ngram.Build(catTokens, 2, 3)
	table.FilterFreq(2)

	scored := NewScorer(MeasurePMI).Score(table)
	if len(scored) != 1 || scored[0].Gram != ngram.Bigram("the", "cat") {
		t.Errorf("Only (the cat) should be scored, got %+v", scored)
	}
}

func TestScorerNPMI(t *testing.T) {
	table, _ := ngram.Build(catTokens, 2, 3)

	for _, s := range NewScorer(MeasureNPMI).Score(table) {
		if s.Score < -1.0 || s.Score > 1.0 {
			t.Errorf("Bigram NPMI out of range for %s: %f", s.Gram, s.Score)
		}
	}
}

func TestFilterScore(t *testing.T) {
	scored := []Scored{{Score: 2}, {Score: 0}, {Score: -1}}

	if got := FilterScore(scored, 0); len(got) != 2 {
		t.Errorf("Expected 2 results at min 0, got %d", len(got))
	}
	if got := FilterScore(scored, -100); len(got) != 3 {
		t.Errorf("Expected all results at min -100, got %d", len(got))
	}
	if got := FilterScore(scored, 5); len(got) != 0 {
		t.Errorf("Expected no results at min 5, got %d", len(got))
	}
}
