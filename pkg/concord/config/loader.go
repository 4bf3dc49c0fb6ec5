package config

import (
	"fmt"

	"github.com/cognicore/concord/pkg/concord/collocate"
	"github.com/cognicore/concord/pkg/concord/ingest"
	"github.com/cognicore/concord/pkg/concord/syntax"
)

// Loader loads all configuration files and constructs components
type Loader struct {
	StoplistPath  string
	LexiconPath   string
	TreebankPath  string
	Abbreviations []string
}

// LoaderFor returns a loader for the resource files named in s.
func LoaderFor(s Settings) Loader {
	return Loader{
		StoplistPath: s.Stoplist,
		LexiconPath:  s.Lexicon,
		TreebankPath: s.Treebank,
	}
}

// Components holds all loaded configuration components
type Components struct {
	Tokenizer *ingest.Tokenizer
	Splitter  *ingest.Splitter
	Lexicon   *ingest.Lexicon
	Stoplist  collocate.Stoplist
	Treebank  *syntax.Treebank // nil without a treebank file
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{
		Tokenizer: ingest.NewTokenizer(),
		Splitter:  ingest.NewSplitter(l.Abbreviations...),
	}

	// Load stoplist
	if l.StoplistPath != "" {
		stoplist, err := LoadStoplist(l.StoplistPath)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		comp.Stoplist = collocate.NewStoplist(stoplist.Terms)
	} else {
		comp.Stoplist = collocate.NewStoplist(nil)
	}

	// Load lexicon
	if l.LexiconPath != "" {
		lex, err := ingest.LoadLexicon(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = ingest.NewLexicon()
	}

	// Load treebank
	if l.TreebankPath != "" {
		tb, err := syntax.LoadTreebank(l.TreebankPath)
		if err != nil {
			return nil, fmt.Errorf("load treebank: %w", err)
		}
		comp.Treebank = tb
	}

	return comp, nil
}
