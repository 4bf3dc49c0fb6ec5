package ingest

import (
	"strings"
	"unicode"
)

// DefaultAbbreviations are period-final words that do not end a sentence.
var DefaultAbbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st", "vs", "etc",
	"e.g", "i.e", "inc", "ltd", "co", "corp", "no", "fig", "gen", "gov",
	"sen", "rep", "jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep",
	"sept", "oct", "nov", "dec", "u.s", "u.k",
}

// Splitter segments text into sentences.
type Splitter struct {
	abbreviations map[string]struct{}
}

// NewSplitter creates a splitter. With no abbreviations given,
// DefaultAbbreviations is used.
func NewSplitter(abbreviations ...string) *Splitter {
	if len(abbreviations) == 0 {
		abbreviations = DefaultAbbreviations
	}
	abbrevs := make(map[string]struct{}, len(abbreviations))
	for _, a := range abbreviations {
		abbrevs[strings.TrimSuffix(strings.ToLower(a), ".")] = struct{}{}
	}
	return &Splitter{abbreviations: abbrevs}
}

// Split returns the sentences of text in order, trimmed of surrounding
// whitespace. A sentence ends after a run of terminators (. ! ?) plus
// any closing quotes or brackets, when followed by whitespace or the end
// of the text, and also at a blank line. A single period after a known
// abbreviation or a one-letter initial does not end a sentence.
func (s *Splitter) Split(text string) ([]string, error) {
	runes := []rune(text)
	var sentences []string
	start := 0

	emit := func(end int) {
		sent := strings.TrimSpace(string(runes[start:end]))
		if sent != "" {
			sentences = append(sentences, sent)
		}
		start = end
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '\n' && blankLineFollows(runes, i) {
			emit(i)
			continue
		}
		if !isTerminator(r) {
			continue
		}

		j := i
		for j < len(runes) && isTerminator(runes[j]) {
			j++
		}
		single := r == '.' && j-i == 1
		for j < len(runes) && isCloser(runes[j]) {
			j++
		}
		if j < len(runes) && !unicode.IsSpace(runes[j]) {
			i = j - 1
			continue
		}
		if single && s.isAbbreviation(precedingWord(runes, i)) {
			i = j - 1
			continue
		}
		emit(j)
		i = j - 1
	}
	emit(len(runes))

	return sentences, nil
}

func (s *Splitter) isAbbreviation(word string) bool {
	if word == "" {
		return false
	}
	if r := []rune(word); len(r) == 1 && unicode.IsLetter(r[0]) {
		return true
	}
	_, ok := s.abbreviations[strings.ToLower(word)]
	return ok
}

// precedingWord returns the non-space run ending just before runes[i],
// stripped of opening punctuation.
func precedingWord(runes []rune, i int) string {
	j := i
	for j > 0 && !unicode.IsSpace(runes[j-1]) {
		j--
	}
	return strings.TrimLeft(string(runes[j:i]), "\"'“‘([")
}

func blankLineFollows(runes []rune, i int) bool {
	for j := i + 1; j < len(runes); j++ {
		switch runes[j] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return false
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', ')', ']':
		return true
	}
	return false
}
