package pmi

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/ngram"
)

// Measure selects the association score.
type Measure int

const (
	// MeasurePMI is pointwise mutual information in bits.
	MeasurePMI Measure = iota
	// MeasureNPMI is PMI normalized by -log2 P(ngram).
	MeasureNPMI
)

// String returns the measure's name.
func (m Measure) String() string {
	switch m {
	case MeasureNPMI:
		return "npmi"
	default:
		return "pmi"
	}
}

// ParseMeasure parses "pmi" or "npmi" (case-insensitive; "" is pmi).
func ParseMeasure(s string) (Measure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pmi":
		return MeasurePMI, nil
	case "npmi":
		return MeasureNPMI, nil
	}
	return 0, fmt.Errorf("unknown measure %q: %w", s, internalerr.ErrInvalidConfig)
}

// Scored is an n-gram with its frequency and association score.
type Scored struct {
	Gram  ngram.Gram
	Freq  int64
	Score float64
}

// Scorer computes association scores over an n-gram table.
type Scorer struct {
	measure Measure
}

// NewScorer creates a scorer for the given measure.
func NewScorer(m Measure) *Scorer {
	return &Scorer{measure: m}
}

// Score scores every n-gram left in the table. Results are ordered by
// descending score; equal scores fall back to lexicographic n-gram
// order so the ranking is total.
func (s *Scorer) Score(t *ngram.Table) []Scored {
	n := t.TotalTokens()
	slots := float64(n) * float64(t.SlotsPerWindow())

	out := make([]Scored, 0, t.Len())
	t.Each(func(g ngram.Gram, count int64) {
		unigrams := make([]int64, g.Order)
		for i, tok := range g.T[:g.Order] {
			unigrams[i] = t.UnigramCount(tok)
		}

		var score float64
		switch s.measure {
		case MeasureNPMI:
			score = NPMI(count, slots, unigrams, n)
		default:
			score = PMI(count, slots, unigrams, n)
		}
		out = append(out, Scored{Gram: g, Freq: count, Score: score})
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Gram.Less(out[j].Gram)
	})
	return out
}

// PMI calculates the pointwise mutual information of an n-gram
//
// PMI = log2( P(ngram) / Π P(token_i) )
//
// Where:
//   - P(ngram) = count / slots, slots being the number of n-gram
//     candidates observed
//   - P(token_i) = unigrams[i] / N
//
// The computation runs in log space so large corpora cannot overflow.
func PMI(count int64, slots float64, unigrams []int64, N int64) float64 {
	if count <= 0 || slots <= 0 || N <= 0 {
		return 0
	}

	score := math.Log2(float64(count)) - math.Log2(slots)
	for _, u := range unigrams {
		if u <= 0 {
			return 0
		}
		score -= math.Log2(float64(u)) - math.Log2(float64(N))
	}
	return score
}

// NPMI calculates normalized PMI
// NPMI = PMI / -log2(P(ngram))
// Bigram scores fall in [-1, 1]; trigram scores are not bounded above by 1.
func NPMI(count int64, slots float64, unigrams []int64, N int64) float64 {
	if count <= 0 || slots <= 0 {
		return 0
	}

	logP := math.Log2(float64(count) / slots)
	if logP == 0 {
		return 0
	}
	return PMI(count, slots, unigrams, N) / -logP
}

// FilterScore keeps the scored n-grams whose score is at least minScore,
// preserving order.
func FilterScore(scored []Scored, minScore float64) []Scored {
	out := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if s.Score >= minScore {
			out = append(out, s)
		}
	}
	return out
}
