package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/concord/internal/rss"
	"github.com/cognicore/concord/pkg/concord"
	"github.com/cognicore/concord/pkg/concord/config"
	"github.com/cognicore/concord/pkg/concord/corpus"
	"github.com/cognicore/concord/pkg/concord/format"
	"github.com/cognicore/concord/pkg/concord/ingest"
	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/store"
	"github.com/cognicore/concord/pkg/concord/store/sqlite"
	"github.com/cognicore/concord/pkg/concord/syntax"
)

// env is what every command runs with: settings, loaded resources, the
// facade and the logger.
type env struct {
	settings config.Settings
	comps    *config.Components
	app      *concord.Concord
	logger   *zap.Logger
	theme    format.Theme
}

type envOptions struct {
	treebank string        // overrides the settings treebank
	parser   syntax.Parser // used when no treebank is configured
}

func newEnv(cmd *cobra.Command, opts envOptions) (*env, error) {
	logger, err := newLogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	settings := config.Default()
	if configPath != "" {
		if settings, err = config.LoadSettings(configPath); err != nil {
			return nil, err
		}
		logger.Debug("settings loaded", zap.String("path", configPath))
	}
	if opts.treebank != "" {
		settings.Treebank = opts.treebank
	}

	loader := config.LoaderFor(settings)
	comps, err := loader.Load()
	if err != nil {
		return nil, err
	}

	var st store.Store
	if dbPath != "" {
		if st, err = sqlite.OpenSQLite(cmd.Context(), dbPath); err != nil {
			return nil, fmt.Errorf("open library %s: %w", dbPath, err)
		}
		logger.Debug("library opened", zap.String("db", dbPath))
	}

	parser := opts.parser
	if comps.Treebank != nil {
		parser = comps.Treebank
		logger.Debug("treebank loaded", zap.Int("sentences", comps.Treebank.Len()))
	}

	return &env{
		settings: settings,
		comps:    comps,
		app: concord.New(concord.Options{
			Tokenizer: comps.Tokenizer,
			Splitter:  comps.Splitter,
			Parser:    parser,
			Store:     st,
		}),
		logger: logger,
		theme:  themeFor(stdoutFile(cmd)),
	}, nil
}

func (e *env) Close() error {
	_ = e.logger.Sync()
	return e.app.Close()
}

// loadCorpus resolves arg to a stored corpus when a library is open and
// to a file otherwise.
func (e *env) loadCorpus(ctx context.Context, arg string) (string, *corpus.Corpus, error) {
	if e.app.HasStore() {
		c, err := e.app.Open(ctx, arg)
		if err == nil {
			e.logger.Debug("corpus opened from library", zap.String("name", arg), zap.Int("tokens", c.Len()))
			return arg, c, nil
		}
		if !errors.Is(err, internalerr.ErrNotFound) {
			return "", nil, err
		}
	}

	text, err := e.readText(arg, false)
	if err != nil {
		return "", nil, err
	}
	c, err := e.app.Load(text)
	if err != nil {
		return "", nil, fmt.Errorf("load %s: %w", arg, err)
	}
	e.logger.Debug("corpus loaded", zap.String("path", arg), zap.Int("tokens", c.Len()))
	return filepath.Base(arg), c, nil
}

// readText reads a corpus file. HTML is stripped and cleaned, JSONL news
// dumps are joined item by item, anything else is taken as cleaned text
// unless clean is set.
func (e *env) readText(path string, clean bool) (string, error) {
	return readText(path, clean, rss.Filter{}, e.logger)
}

func readText(path string, clean bool, filter rss.Filter, logger *zap.Logger) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl":
		items, skipped, err := rss.LoadFromJSONL(path)
		for _, s := range skipped {
			logger.Warn("skipping malformed item", zap.String("path", path), zap.Int("line", s.Line), zap.Error(s.Err))
		}
		if err != nil {
			return "", err
		}
		text, used, err := rss.Text(items, filter)
		if err != nil {
			return "", err
		}
		logger.Debug("news items joined", zap.Int("items", len(items)), zap.Int("used", used))
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		if text, err = ingest.StripHTML(text); err != nil {
			return "", fmt.Errorf("strip html %s: %w", path, err)
		}
		clean = true
	}
	if clean {
		text = ingest.Clean(text)
	}
	return text, nil
}

// stdoutFile returns the command's output as a file when it is one.
func stdoutFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.OutOrStdout().(*os.File)
	return f
}
