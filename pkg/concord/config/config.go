package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/concord/pkg/concord/collocate"
	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/pmi"
)

// Settings holds the query defaults and the resource files of a session.
type Settings struct {
	Concordance Concordance `yaml:"concordance"`
	Collocation Collocation `yaml:"collocation"`

	Stoplist string `yaml:"stoplist,omitempty"`
	Lexicon  string `yaml:"lexicon,omitempty"`
	Treebank string `yaml:"treebank,omitempty"`
}

// Concordance settings
type Concordance struct {
	Width int `yaml:"width"`
}

// Collocation settings
type Collocation struct {
	Window   int     `yaml:"window"`
	MinFreq  int64   `yaml:"min_freq"`
	MinScore float64 `yaml:"min_score"`
	Measure  string  `yaml:"measure"`
	NGrams   bool    `yaml:"ngrams"`
}

// Default returns the interactive defaults.
func Default() Settings {
	return Settings{
		Concordance: Concordance{Width: 50},
		Collocation: Collocation{
			Window:   5,
			MinFreq:  20,
			MinScore: 0,
			Measure:  pmi.MeasurePMI.String(),
		},
	}
}

// LoadSettings reads settings from a YAML file over the defaults. Relative
// resource paths are resolved against the file's directory.
func LoadSettings(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for _, p := range []*string{&s.Stoplist, &s.Lexicon, &s.Treebank} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate reports settings no query could run with.
func (s Settings) Validate() error {
	if s.Concordance.Width <= 0 {
		return fmt.Errorf("concordance width %d must be positive: %w", s.Concordance.Width, internalerr.ErrInvalidConfig)
	}
	if s.Collocation.Window < 2 {
		return fmt.Errorf("collocation window %d must be at least 2: %w", s.Collocation.Window, internalerr.ErrInvalidConfig)
	}
	if s.Collocation.MinFreq < 0 {
		return fmt.Errorf("min_freq %d must not be negative: %w", s.Collocation.MinFreq, internalerr.ErrInvalidConfig)
	}
	if _, err := pmi.ParseMeasure(s.Collocation.Measure); err != nil {
		return err
	}
	return nil
}

// Set changes one setting by name. Names match loosely: "span" or
// "width", "win", "freq", "score", "measure", "ngrams". The settings are
// left unchanged when the new value is invalid.
func (s *Settings) Set(name, value string) error {
	next := *s
	name = strings.ToLower(name)

	var err error
	switch {
	case strings.Contains(name, "span"), strings.Contains(name, "width"):
		next.Concordance.Width, err = strconv.Atoi(value)
	case strings.Contains(name, "win"):
		next.Collocation.Window, err = strconv.Atoi(value)
	case strings.Contains(name, "freq"):
		next.Collocation.MinFreq, err = strconv.ParseInt(value, 10, 64)
	case strings.Contains(name, "score"):
		next.Collocation.MinScore, err = strconv.ParseFloat(value, 64)
	case strings.Contains(name, "measure"):
		next.Collocation.Measure = strings.ToLower(value)
	case strings.Contains(name, "ngram"):
		next.Collocation.NGrams, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("unknown setting %q: %w", name, internalerr.ErrInvalidConfig)
	}
	if err != nil {
		return fmt.Errorf("setting %s: %v: %w", name, err, internalerr.ErrInvalidConfig)
	}
	if err := next.Validate(); err != nil {
		return err
	}

	*s = next
	return nil
}

// CollocateConfig converts the collocation settings for a finder.
func (s Settings) CollocateConfig() (collocate.Config, error) {
	m, err := pmi.ParseMeasure(s.Collocation.Measure)
	if err != nil {
		return collocate.Config{}, err
	}
	mode := collocate.ModeCollocate
	if s.Collocation.NGrams {
		mode = collocate.ModeNGram
	}
	return collocate.Config{
		Window:   s.Collocation.Window,
		MinFreq:  s.Collocation.MinFreq,
		MinScore: s.Collocation.MinScore,
		Measure:  m,
		Mode:     mode,
	}, nil
}

func (s Settings) String() string {
	c := s.Collocation
	return fmt.Sprintf("Concordance settings\n  [span]: %d\nCollocation settings\n  [win]dow: %d | minimum [freq]uency: %d | minimum [score]: %g | [measure]: %s | [ngrams]: %t\n",
		s.Concordance.Width, c.Window, c.MinFreq, c.MinScore, c.Measure, c.NGrams)
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
