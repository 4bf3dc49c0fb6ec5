package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer splits raw text into word and punctuation tokens.
// Case is preserved; corpus work needs the surface forms.
type Tokenizer struct {
	lexicon      *Lexicon // Optional: lemma normalization
	splitClitics bool
}

// NewTokenizer creates a tokenizer that splits English clitics
// ("don't" → "do", "n't"; "cat's" → "cat", "'s").
func NewTokenizer() *Tokenizer {
	return &Tokenizer{splitClitics: true}
}

// SetLexicon assigns a lexicon for lemma normalization.
// When set, every word token is replaced by its lemma.
// Example: "was" → "be", "cats" → "cat"
func (t *Tokenizer) SetLexicon(lex *Lexicon) {
	t.lexicon = lex
}

// SetSplitClitics toggles clitic splitting.
func (t *Tokenizer) SetSplitClitics(split bool) {
	t.splitClitics = split
}

// Tokenize splits text into tokens. Words are maximal runs of letters,
// digits and marks; hyphens and apostrophes join word characters,
// periods and commas only join digits ("3.5", "1,000"). Every other
// non-space rune is its own token, except repeated runs such as "..."
// or "--" which stay together.
func (t *Tokenizer) Tokenize(text string) ([]string, error) {
	runes := []rune(text)
	tokens := make([]string, 0, len(runes)/5)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isWordRune(r):
			j := i + 1
			for j < len(runes) {
				if isWordRune(runes[j]) {
					j++
					continue
				}
				if j+1 < len(runes) && joins(runes[j-1], runes[j], runes[j+1]) {
					j += 2
					continue
				}
				break
			}
			tokens = t.appendWord(tokens, string(runes[i:j]))
			i = j
		default:
			j := i + 1
			for j < len(runes) && runes[j] == r && isRepeatable(r) {
				j++
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j
		}
	}

	return tokens, nil
}

func (t *Tokenizer) appendWord(tokens []string, word string) []string {
	parts := []string{word}
	if t.splitClitics {
		if base, clitic := splitClitic(word); clitic != "" {
			parts = []string{base, clitic}
		}
	}
	for _, p := range parts {
		if t.lexicon != nil {
			p = t.lexicon.Lemma(p)
		}
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

var clitics = map[string]struct{}{
	"s": {}, "re": {}, "ve": {}, "ll": {}, "d": {}, "m": {},
}

// splitClitic returns the word split before a trailing clitic, or the
// word and "" when there is none.
func splitClitic(word string) (string, string) {
	idx := strings.LastIndexAny(word, "'’")
	if idx <= 0 {
		return word, ""
	}
	_, size := utf8.DecodeRuneInString(word[idx:])
	suffix := strings.ToLower(word[idx+size:])

	if suffix == "t" {
		// n't belongs to the clitic, not the base: "don't" → "do" + "n't"
		if idx >= 2 && (word[idx-1] == 'n' || word[idx-1] == 'N') {
			return word[:idx-1], word[idx-1:]
		}
		return word, ""
	}
	if _, ok := clitics[suffix]; ok {
		return word[:idx], word[idx:]
	}
	return word, ""
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// joins reports whether sep glues the runes on either side into one word.
func joins(prev, sep, next rune) bool {
	if !isWordRune(prev) || !isWordRune(next) {
		return false
	}
	switch sep {
	case '-', '\'', '’':
		return true
	case '.', ',':
		return unicode.IsDigit(prev) && unicode.IsDigit(next)
	}
	return false
}

func isRepeatable(r rune) bool {
	switch r {
	case '.', '-', '!', '?', '*', '=':
		return true
	}
	return false
}
