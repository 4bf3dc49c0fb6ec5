package syntax

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cognicore/concord/pkg/concord/internalerr"
)

// Treebank answers parses from a CoNLL-U file. Sentences are looked up by
// their "# text =" comment with whitespace normalized.
type Treebank struct {
	parses map[string][]Token
}

// LoadTreebank reads a CoNLL-U file.
func LoadTreebank(path string) (*Treebank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open treebank: %w", err)
	}
	defer f.Close()

	tb, err := ReadTreebank(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tb, nil
}

// ReadTreebank parses CoNLL-U from r.
func ReadTreebank(r io.Reader) (*Treebank, error) {
	sents, err := ReadCoNLLU(r)
	if err != nil {
		return nil, err
	}
	tb := &Treebank{parses: make(map[string][]Token, len(sents))}
	for _, s := range sents {
		tb.parses[normalize(s.Text)] = s.Tokens
	}
	return tb, nil
}

// Sentence is one parsed sentence of a CoNLL-U document.
type Sentence struct {
	Text   string
	Tokens []Token
}

// ReadCoNLLU reads every sentence of a CoNLL-U document. A sentence
// without a "# text =" comment takes its word forms joined with spaces
// as its text.
func ReadCoNLLU(r io.Reader) ([]Sentence, error) {
	var (
		sents  []Sentence
		cur    Sentence
		lineNo int
	)
	flush := func() {
		if len(cur.Tokens) > 0 {
			if cur.Text == "" {
				forms := make([]string, len(cur.Tokens))
				for i, tok := range cur.Tokens {
					forms[i] = tok.Text
				}
				cur.Text = strings.Join(forms, " ")
			}
			sents = append(sents, cur)
		}
		cur = Sentence{}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case strings.HasPrefix(line, "#"):
			if key, val, ok := strings.Cut(strings.TrimPrefix(line, "#"), "="); ok && strings.TrimSpace(key) == "text" {
				cur.Text = strings.TrimSpace(val)
			}
		default:
			fields := strings.Split(line, "\t")
			if len(fields) < 8 {
				return nil, fmt.Errorf("line %d: %d fields, want 10: %w", lineNo, len(fields), internalerr.ErrInvalidInput)
			}
			// multiword ranges (1-2) and empty nodes (1.1) carry no dependency
			if strings.ContainsAny(fields[0], "-.") {
				continue
			}
			cur.Tokens = append(cur.Tokens, Token{
				Text:  fields[1],
				Lemma: fields[2],
				POS:   fields[3],
				Dep:   fields[7],
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read conllu: %w", err)
	}
	flush()
	return sents, nil
}

// Parse returns the stored parse of sentence or internalerr.ErrNotFound.
func (tb *Treebank) Parse(ctx context.Context, sentence string) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tokens, ok := tb.parses[normalize(sentence)]
	if !ok {
		return nil, internalerr.ErrNotFound
	}
	out := make([]Token, len(tokens))
	copy(out, tokens)
	return out, nil
}

// Len returns the number of stored sentences.
func (tb *Treebank) Len() int { return len(tb.parses) }

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
