package collocate

import (
	"fmt"

	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/ngram"
	"github.com/cognicore/concord/pkg/concord/pmi"
)

// Config holds the collocation thresholds.
type Config struct {
	Window   int
	MinFreq  int64
	MinScore float64
	Measure  pmi.Measure
	Mode     Mode
	Stop     StopChecker
}

// DefaultConfig returns window 5, minimum frequency 1, minimum score 0.
func DefaultConfig() Config {
	return Config{
		Window:   ngram.DefaultWindow,
		MinFreq:  1,
		MinScore: 0,
		Measure:  pmi.MeasurePMI,
	}
}

// Validate checks the thresholds that do not depend on the query.
func (c Config) Validate() error {
	if c.Window < 2 {
		return fmt.Errorf("window %d must be at least 2: %w", c.Window, internalerr.ErrInvalidConfig)
	}
	if c.MinFreq < 0 {
		return fmt.Errorf("minimum frequency %d is negative: %w", c.MinFreq, internalerr.ErrInvalidConfig)
	}
	return nil
}

// Finder runs the collocation pipeline over a token sequence: build the
// windowed table, drop rare n-grams, score, drop low scores, extract.
// Nothing is cached between calls.
type Finder struct {
	cfg    Config
	scorer *pmi.Scorer
}

// NewFinder creates a finder with cfg.
func NewFinder(cfg Config) *Finder {
	return &Finder{cfg: cfg, scorer: pmi.NewScorer(cfg.Measure)}
}

// Config returns the finder's configuration.
func (f *Finder) Config() Config { return f.cfg }

// Find returns the collocates of keys (one or two) in tokens.
func (f *Finder) Find(tokens, keys []string) ([]Result, error) {
	if err := CheckArity(keys); err != nil {
		return nil, err
	}
	if err := f.cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := ngram.Build(tokens, len(keys)+1, f.cfg.Window)
	if err != nil {
		return nil, err
	}
	table.FilterFreq(f.cfg.MinFreq)

	scored := pmi.FilterScore(f.scorer.Score(table), f.cfg.MinScore)
	return Extract(scored, keys, Options{Mode: f.cfg.Mode, Stop: f.cfg.Stop})
}
