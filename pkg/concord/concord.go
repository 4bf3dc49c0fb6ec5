// Package concord ties corpus loading, concordance, collocation and
// agency analysis to their collaborators.
package concord

import (
	"context"
	"fmt"

	"github.com/cognicore/concord/pkg/concord/collocate"
	"github.com/cognicore/concord/pkg/concord/corpus"
	"github.com/cognicore/concord/pkg/concord/ingest"
	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/store"
	"github.com/cognicore/concord/pkg/concord/syntax"
)

// Concord is the toolkit facade
type Concord struct {
	tokenizer corpus.Tokenizer
	splitter  corpus.Splitter
	parser    syntax.Parser
	store     store.Store
}

// Options configures a Concord instance. Nil Tokenizer and Splitter fall
// back to the ingest defaults; Parser and Store are optional.
type Options struct {
	Tokenizer corpus.Tokenizer
	Splitter  corpus.Splitter
	Parser    syntax.Parser
	Store     store.Store
}

// New creates a Concord instance with the given dependencies
func New(opts Options) *Concord {
	c := &Concord{
		tokenizer: opts.Tokenizer,
		splitter:  opts.Splitter,
		parser:    opts.Parser,
		store:     opts.Store,
	}
	if c.tokenizer == nil {
		c.tokenizer = ingest.NewTokenizer()
	}
	if c.splitter == nil {
		c.splitter = ingest.NewSplitter()
	}
	return c
}

// Close closes the store, if any
func (c *Concord) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

// HasStore reports whether a corpus library is configured.
func (c *Concord) HasStore() bool { return c.store != nil }

// Keys tokenizes a query with the corpus tokenizer, so keys match the
// tokens they were indexed as: "cat's" is the two keys "cat" and "'s".
func (c *Concord) Keys(query string) ([]string, error) {
	keys, err := c.tokenizer.Tokenize(query)
	if err != nil {
		return nil, fmt.Errorf("tokenize query %q: %w", query, err)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("query %q has no tokens: %w", query, internalerr.ErrInvalidInput)
	}
	return keys, nil
}

// Load builds a corpus from cleaned text.
func (c *Concord) Load(raw string) (*corpus.Corpus, error) {
	return corpus.New(raw, c.tokenizer, c.splitter)
}

// Import builds a corpus and saves it in the library under name.
func (c *Concord) Import(ctx context.Context, name, raw string) (*corpus.Corpus, error) {
	if c.store == nil {
		return nil, fmt.Errorf("import %s: %w", name, internalerr.ErrStoreUnavailable)
	}
	corp, err := c.Load(raw)
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveCorpus(ctx, store.Corpus{Name: name, Raw: raw, Tokens: corp.Tokens()}); err != nil {
		return nil, fmt.Errorf("save corpus %s: %w", name, err)
	}
	return corp, nil
}

// Open loads a corpus from the library. Stored tokens are used as they
// are; sentences are split again from the stored text.
func (c *Concord) Open(ctx context.Context, name string) (*corpus.Corpus, error) {
	if c.store == nil {
		return nil, fmt.Errorf("open %s: %w", name, internalerr.ErrStoreUnavailable)
	}
	sc, err := c.store.GetCorpus(ctx, name)
	if err != nil {
		return nil, err
	}
	sents, err := c.splitter.Split(sc.Raw)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", name, err)
	}
	return corpus.Restore(sc.Raw, sc.Tokens, sents), nil
}

// Corpora lists the library.
func (c *Concord) Corpora(ctx context.Context) ([]store.CorpusInfo, error) {
	if c.store == nil {
		return nil, fmt.Errorf("list corpora: %w", internalerr.ErrStoreUnavailable)
	}
	return c.store.ListCorpora(ctx)
}

// Collocates finds the collocates of one key, or of a two-key phrase.
func (c *Concord) Collocates(corp *corpus.Corpus, keys []string, cfg collocate.Config) ([]collocate.Result, error) {
	return collocate.NewFinder(cfg).Find(corp.Tokens(), keys)
}

// Concordance lists the occurrences of keys[0], filtered by the other
// keys appearing nearby.
func (c *Concord) Concordance(corp *corpus.Corpus, keys []string, width int) ([]corpus.Line, error) {
	return corp.Concordance(keys, width)
}

// Agency is the result of an agency analysis.
type Agency struct {
	Tallies   []syntax.Tally
	Sentences int // sentences containing every key
	Skipped   int // sentences the parser had no parse for
}

// Agency parses every sentence containing all keys and tallies how often
// each key is a subject or an object.
func (c *Concord) Agency(ctx context.Context, corp *corpus.Corpus, keys []string) (Agency, error) {
	if len(keys) == 0 {
		return Agency{}, fmt.Errorf("agency needs a key: %w", internalerr.ErrInvalidInput)
	}
	if c.parser == nil {
		return Agency{}, fmt.Errorf("agency: no parser configured: %w", internalerr.ErrInvalidConfig)
	}

	sents := corp.SentencesWith(keys)
	frames, skipped, err := syntax.Collect(ctx, c.parser, sents)
	if err != nil {
		return Agency{}, err
	}
	return Agency{
		Tallies:   syntax.Analyze(frames, keys),
		Sentences: len(sents),
		Skipped:   skipped,
	}, nil
}

// SaveOutput records a command result in the library.
func (c *Concord) SaveOutput(ctx context.Context, corpusName, command, body string) (store.Output, error) {
	if c.store == nil {
		return store.Output{}, fmt.Errorf("save output: %w", internalerr.ErrStoreUnavailable)
	}
	return c.store.SaveOutput(ctx, store.Output{Corpus: corpusName, Command: command, Body: body})
}

// Outputs lists saved results, newest first.
func (c *Concord) Outputs(ctx context.Context, corpusName string, limit int) ([]store.Output, error) {
	if c.store == nil {
		return nil, fmt.Errorf("list outputs: %w", internalerr.ErrStoreUnavailable)
	}
	return c.store.ListOutputs(ctx, corpusName, limit)
}
