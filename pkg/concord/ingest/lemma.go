package ingest

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon maps inflected word forms to their lemmas.
//
// Lookups are case-insensitive; a form that is not in the lexicon is its
// own lemma.
type Lexicon struct {
	// lemma -> all forms (including the lemma itself)
	// Example: "be" -> ["be", "am", "is", "are", "was", "were"]
	forms map[string][]string

	// form -> lemma
	// Example: "was" -> "be"
	reverseIndex map[string]string
}

// NewLexicon creates an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		forms:        make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadLexicon loads lemma mappings from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - lemma: be
//	    forms: [am, is, are, was, were, been, being]
//	  - lemma: police
//	    forms: [policeman, policemen]
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLexicon(data)
}

// ParseLexicon parses the YAML lemma table accepted by LoadLexicon.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var config struct {
		Lemmas []struct {
			Lemma string   `yaml:"lemma"`
			Forms []string `yaml:"forms"`
		} `yaml:"lemmas"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := NewLexicon()
	for _, entry := range config.Lemmas {
		lex.Add(entry.Lemma, entry.Forms)
	}
	return lex, nil
}

// Add registers forms for a lemma. Forms already assigned to another
// lemma are moved to this one.
func (l *Lexicon) Add(lemma string, forms []string) {
	lemma = strings.ToLower(strings.TrimSpace(lemma))
	if lemma == "" {
		return
	}

	all := append([]string{lemma}, forms...)
	for _, f := range all {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if prev, ok := l.reverseIndex[f]; ok {
			if prev == lemma {
				continue
			}
			l.forms[prev] = remove(l.forms[prev], f)
		}
		l.reverseIndex[f] = lemma
		l.forms[lemma] = append(l.forms[lemma], f)
	}
}

// Lemma returns the lemma of word, or word unchanged when unknown.
func (l *Lexicon) Lemma(word string) string {
	if lemma, ok := l.reverseIndex[strings.ToLower(word)]; ok {
		return lemma
	}
	return word
}

// Forms returns every known form of lemma, sorted, or nil.
func (l *Lexicon) Forms(lemma string) []string {
	forms := l.forms[strings.ToLower(lemma)]
	if len(forms) == 0 {
		return nil
	}
	out := make([]string, len(forms))
	copy(out, forms)
	sort.Strings(out)
	return out
}

// Size returns the number of lemmas.
func (l *Lexicon) Size() int {
	return len(l.forms)
}

// Lemmatize tokenizes text and rewrites it as space-joined lemmas.
func Lemmatize(text string, lex *Lexicon) (string, error) {
	tok := NewTokenizer()
	tok.SetLexicon(lex)
	tokens, err := tok.Tokenize(text)
	if err != nil {
		return "", err
	}
	return strings.Join(tokens, " "), nil
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}
