// Package corpus holds an immutable tokenized text with its sentence
// segmentation and an inverted index from token to positions.
package corpus

import "fmt"

// Tokenizer turns raw text into an ordered token sequence.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}

// Splitter turns raw text into an ordered sentence sequence.
type Splitter interface {
	Split(text string) ([]string, error)
}

// Corpus is a tokenized text. It is never mutated after construction,
// so concurrent readers need no synchronization. Slices returned by its
// accessors must not be modified.
type Corpus struct {
	raw       string
	tokens    []string
	sentences []string
	index     map[string][]int // token -> positions, ascending
}

// New tokenizes and sentence-splits raw. Collaborator errors are
// returned unchanged.
func New(raw string, tok Tokenizer, split Splitter) (*Corpus, error) {
	tokens, err := tok.Tokenize(raw)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	sentences, err := split.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("split sentences: %w", err)
	}
	return Restore(raw, tokens, sentences), nil
}

// FromTokens builds a corpus from an already tokenized text.
func FromTokens(tokens, sentences []string) *Corpus {
	c := &Corpus{
		tokens:    make([]string, len(tokens)),
		sentences: make([]string, len(sentences)),
		index:     make(map[string][]int),
	}
	copy(c.tokens, tokens)
	copy(c.sentences, sentences)
	for i, tok := range c.tokens {
		c.index[tok] = append(c.index[tok], i)
	}
	return c
}

// Restore rebuilds a stored corpus from its text and tokens.
func Restore(raw string, tokens, sentences []string) *Corpus {
	c := FromTokens(tokens, sentences)
	c.raw = raw
	return c
}

// Raw returns the text the corpus was built from ("" for FromTokens).
func (c *Corpus) Raw() string { return c.raw }

// Tokens returns the token sequence.
func (c *Corpus) Tokens() []string { return c.tokens }

// Len returns the number of tokens.
func (c *Corpus) Len() int { return len(c.tokens) }

// Sentences returns the sentence sequence.
func (c *Corpus) Sentences() []string { return c.sentences }

// Positions returns the ascending positions where token occurs.
func (c *Corpus) Positions(token string) []int { return c.index[token] }

// Vocabulary returns the number of distinct tokens.
func (c *Corpus) Vocabulary() int { return len(c.index) }
