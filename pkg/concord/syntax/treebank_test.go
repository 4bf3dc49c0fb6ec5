package syntax

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/concord/pkg/concord/internalerr"
)

const sample = `# sent_id = 1
# text = Police beat protesters.
1	Police	police	NOUN	NNS	_	2	nsubj	_	_
2	beat	beat	VERB	VBD	_	0	root	_	_
3	protesters	protester	NOUN	NNS	_	2	obj	_	SpaceAfter=No
4	.	.	PUNCT	.	_	2	punct	_	_

# sent_id = 2
1-2	don't	_	_	_	_	_	_	_	_
1	do	do	AUX	VBP	_	3	aux	_	_
2	n't	not	PART	RB	_	3	advmod	_	_
3	run	run	VERB	VB	_	0	root	_	_
`

func TestReadTreebank(t *testing.T) {
	tb, err := ReadTreebank(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadTreebank: %v", err)
	}
	if tb.Len() != 2 {
		t.Fatalf("expected 2 sentences, got %d", tb.Len())
	}

	tokens, err := tb.Parse(context.Background(), "Police  beat\nprotesters.")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(tokens))
	}
	if tokens[2].Text != "protesters" || tokens[2].Lemma != "protester" || tokens[2].Dep != "obj" {
		t.Errorf("token 3 = %+v", tokens[2])
	}

	// no text comment: keyed by forms, multiword range skipped
	tokens, err = tb.Parse(context.Background(), "do n't run")
	if err != nil {
		t.Fatalf("Parse forms: %v", err)
	}
	if len(tokens) != 3 {
		t.Errorf("expected 3 tokens, got %+v", tokens)
	}
}

func TestTreebankUnknownSentence(t *testing.T) {
	tb, err := ReadTreebank(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tb.Parse(context.Background(), "Nobody came."); !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadTreebankRejectsShortRows(t *testing.T) {
	_, err := ReadTreebank(strings.NewReader("1\tPolice\tpolice\n"))
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTreebankFeedsAnalysis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "parses.conllu")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	tb, err := LoadTreebank(path)
	if err != nil {
		t.Fatalf("LoadTreebank: %v", err)
	}

	frames, skipped, err := Collect(context.Background(), tb, []string{"Police beat protesters.", "Unparsed sentence."})
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d", skipped)
	}
	got := Analyze(frames, []string{"protesters"})[0]
	if got.Occurrences != 1 || got.Subject != 0 || got.Object != 1 {
		t.Errorf("tally = %+v", got)
	}
}

func TestLoadTreebankMissingFile(t *testing.T) {
	if _, err := LoadTreebank(filepath.Join(t.TempDir(), "missing.conllu")); err == nil {
		t.Fatal("expected error")
	}
}

func TestReadCoNLLUKeepsOrder(t *testing.T) {
	sents, err := ReadCoNLLU(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	if len(sents) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(sents))
	}
	if sents[0].Text != "Police beat protesters." || sents[1].Text != "do n't run" {
		t.Errorf("texts = %q, %q", sents[0].Text, sents[1].Text)
	}
}
