// Package collocate extracts the collocates of one or two query keys from
// a scored n-gram list and classifies where they stand relative to the
// keys.
package collocate

import (
	"fmt"
	"strings"

	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/ngram"
	"github.com/cognicore/concord/pkg/concord/pmi"
)

// Mode selects what a result names.
type Mode int

const (
	// ModeCollocate names the non-key token and tags its position.
	ModeCollocate Mode = iota
	// ModeNGram names the whole n-gram and carries no position tag.
	ModeNGram
)

// Position tags. R and L are bigram tags relative to the single key;
// the trigram tags spell the slot order, 1 and 2 being the keys and X
// the collocate.
const (
	PosRight = "R"
	PosLeft  = "L"
	Pos12X   = "1 2 X"
	PosX12   = "X 1 2"
	Pos1X2   = "1 X 2"
	Pos2X1   = "2 X 1"
	Pos21X   = "2 1 X"
	PosX21   = "X 2 1"
)

// Result is one collocate of the query.
type Result struct {
	Collocate string     // non-key token, or the joined n-gram in ModeNGram
	Gram      ngram.Gram // underlying n-gram
	Freq      int64
	Score     float64
	Position  string // empty in ModeNGram
}

// StopChecker reports whether a token should never be reported as a
// collocate.
type StopChecker interface {
	IsStop(token string) bool
}

// Options tune extraction.
type Options struct {
	Mode Mode
	Stop StopChecker // optional
}

type pattern struct {
	key1, key2, coll int
	tag              string
}

// trigramPatterns lists the slots of key 1, key 2 and the collocate.
var trigramPatterns = []pattern{
	{0, 1, 2, Pos12X},
	{1, 2, 0, PosX12},
	{0, 2, 1, Pos1X2},
	{2, 0, 1, Pos2X1},
	{1, 0, 2, Pos21X},
	{2, 1, 0, PosX21},
}

// CheckArity validates the number of query keys.
func CheckArity(keys []string) error {
	switch {
	case len(keys) == 0:
		return fmt.Errorf("collocation needs a key: %w", internalerr.ErrInvalidInput)
	case len(keys) > 2:
		return fmt.Errorf("collocation takes at most two keys, got %d: %w", len(keys), internalerr.ErrUnsupportedArity)
	}
	return nil
}

// Extract returns the collocates of keys in scored, in scored's order.
//
// Keys match a token when the token contains the key as a substring.
// With one key, a bigram whose first token matches yields its second
// token tagged R, and one whose second token matches yields its first
// token tagged L; a bigram matching in both slots has no collocate and
// is skipped. With two keys, each trigram is tested against every
// positional pattern and yields one result per matching pattern.
//
// In ModeNGram the whole n-gram is reported instead, and keys must
// equal a token exactly.
func Extract(scored []pmi.Scored, keys []string, opts Options) ([]Result, error) {
	if err := CheckArity(keys); err != nil {
		return nil, err
	}
	if opts.Mode == ModeNGram {
		return extractNGrams(scored, keys, opts.Stop), nil
	}

	var out []Result
	for _, s := range scored {
		if s.Gram.Order != len(keys)+1 {
			continue
		}
		if len(keys) == 1 {
			out = appendBigram(out, s, keys[0], opts.Stop)
		} else {
			out = appendTrigram(out, s, keys[0], keys[1], opts.Stop)
		}
	}
	return out, nil
}

func appendBigram(out []Result, s pmi.Scored, key string, stop StopChecker) []Result {
	a, b := s.Gram.T[0], s.Gram.T[1]
	inA, inB := strings.Contains(a, key), strings.Contains(b, key)

	var coll, tag string
	switch {
	case inA && !inB:
		coll, tag = b, PosRight
	case inB && !inA:
		coll, tag = a, PosLeft
	default:
		return out
	}
	if isStop(stop, coll) {
		return out
	}
	return append(out, Result{Collocate: coll, Gram: s.Gram, Freq: s.Freq, Score: s.Score, Position: tag})
}

func appendTrigram(out []Result, s pmi.Scored, key1, key2 string, stop StopChecker) []Result {
	for _, p := range trigramPatterns {
		if !strings.Contains(s.Gram.T[p.key1], key1) || !strings.Contains(s.Gram.T[p.key2], key2) {
			continue
		}
		coll := s.Gram.T[p.coll]
		if isStop(stop, coll) {
			continue
		}
		out = append(out, Result{Collocate: coll, Gram: s.Gram, Freq: s.Freq, Score: s.Score, Position: p.tag})
	}
	return out
}

func extractNGrams(scored []pmi.Scored, keys []string, stop StopChecker) []Result {
	var out []Result
	for _, s := range scored {
		if s.Gram.Order != len(keys)+1 {
			continue
		}
		toks := s.Gram.T[:s.Gram.Order]
		if !containsAll(toks, keys) || hasStopCollocate(toks, keys, stop) {
			continue
		}
		out = append(out, Result{Collocate: s.Gram.String(), Gram: s.Gram, Freq: s.Freq, Score: s.Score})
	}
	return out
}

func containsAll(toks, keys []string) bool {
	for _, k := range keys {
		found := false
		for _, t := range toks {
			if t == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// hasStopCollocate reports whether a token that is not a key is a stopword.
func hasStopCollocate(toks, keys []string, stop StopChecker) bool {
	if stop == nil {
		return false
	}
	for _, t := range toks {
		if isKey(t, keys) {
			continue
		}
		if stop.IsStop(t) {
			return true
		}
	}
	return false
}

func isKey(tok string, keys []string) bool {
	for _, k := range keys {
		if tok == k {
			return true
		}
	}
	return false
}

func isStop(stop StopChecker, tok string) bool {
	return stop != nil && stop.IsStop(tok)
}

// Stoplist is a case-insensitive set of tokens.
type Stoplist map[string]struct{}

// NewStoplist builds a stoplist from terms.
func NewStoplist(terms []string) Stoplist {
	sl := make(Stoplist, len(terms))
	for _, t := range terms {
		sl[strings.ToLower(t)] = struct{}{}
	}
	return sl
}

// IsStop implements StopChecker.
func (s Stoplist) IsStop(token string) bool {
	_, ok := s[strings.ToLower(token)]
	return ok
}
