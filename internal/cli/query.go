package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/concord/internal/llm"
	"github.com/cognicore/concord/pkg/concord/collocate"
	"github.com/cognicore/concord/pkg/concord/config"
	"github.com/cognicore/concord/pkg/concord/format"
	"github.com/cognicore/concord/pkg/concord/syntax"
)

var (
	concWidth int

	collWindow   int
	collMinFreq  int64
	collMinScore float64
	collNGrams   bool
	collStoplist string
	collMeasure  string

	agencyTreebank string
	agencyLLMURL   string
	agencyLLMModel string
)

var concCmd = &cobra.Command{
	Use:   "conc FILE KEY...",
	Short: "Concordance lines for a word",
	Long: `Prints a line for every occurrence of the first KEY with its left and
right context. Further keys keep only the lines where every key occurs as a
whole token within the line width.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConc,
}

var collCmd = &cobra.Command{
	Use:   "coll FILE KEY [KEY2]",
	Short: "Rank the collocates of a word or a two word phrase",
	Long: `Counts every bigram (one key) or trigram (two keys) within a token window,
scores them by pointwise mutual information and lists the n-grams that hold
the keys. Keys match as substrings of tokens. Each collocate is reported with
its position relative to the keys, or as the whole n-gram with --ngrams.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runColl,
}

var agencyCmd = &cobra.Command{
	Use:   "agency FILE KEY...",
	Short: "Count how often words are subjects or objects",
	Long: `Parses every sentence holding all KEYs and reports, per key, how often it
occurs, how often it is the subject and how often an object. Parses come from
a CoNLL-U treebank (--treebank, or treebank: in the settings) or from an
OpenAI-compatible chat endpoint (--llm-url and --llm-model, with the API key
in CONCORD_LLM_API_KEY).`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAgency,
}

func init() {
	concCmd.Flags().IntVarP(&concWidth, "width", "w", 50, "character span on each side")
	rootCmd.AddCommand(concCmd)

	collCmd.Flags().IntVar(&collWindow, "window", 5, "n-gram window in tokens")
	collCmd.Flags().Int64Var(&collMinFreq, "min-freq", 20, "minimum n-gram frequency")
	collCmd.Flags().Float64Var(&collMinScore, "min-score", 0, "minimum association score")
	collCmd.Flags().BoolVar(&collNGrams, "ngrams", false, "list whole n-grams instead of positioned collocates")
	collCmd.Flags().StringVar(&collStoplist, "stoplist", "", "stoplist YAML (terms:) of collocates to skip")
	collCmd.Flags().StringVar(&collMeasure, "measure", "pmi", "association measure: pmi or npmi")
	rootCmd.AddCommand(collCmd)

	agencyCmd.Flags().StringVar(&agencyTreebank, "treebank", "", "CoNLL-U file with the sentence parses")
	agencyCmd.Flags().StringVar(&agencyLLMURL, "llm-url", "", "chat completion endpoint used to parse sentences")
	agencyCmd.Flags().StringVar(&agencyLLMModel, "llm-model", "", "model name for --llm-url")
	rootCmd.AddCommand(agencyCmd)
}

func runConc(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	_, c, err := e.loadCorpus(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	width := e.settings.Concordance.Width
	if cmd.Flags().Changed("width") {
		width = concWidth
	}

	keys, err := e.app.Keys(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	lines, err := e.app.Concordance(c, keys, width)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No occurrences of %s.\n", strings.Join(args[1:], " "))
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), e.theme.Concordance(format.Lines(lines), keys))
	return nil
}

func runColl(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	s := e.settings
	flags := cmd.Flags()
	if flags.Changed("window") {
		s.Collocation.Window = collWindow
	}
	if flags.Changed("min-freq") {
		s.Collocation.MinFreq = collMinFreq
	}
	if flags.Changed("min-score") {
		s.Collocation.MinScore = collMinScore
	}
	if flags.Changed("ngrams") {
		s.Collocation.NGrams = collNGrams
	}
	if flags.Changed("measure") {
		s.Collocation.Measure = collMeasure
	}
	cfg, err := s.CollocateConfig()
	if err != nil {
		return err
	}
	cfg.Stop = e.comps.Stoplist
	if collStoplist != "" {
		sl, err := loadStoplist(collStoplist)
		if err != nil {
			return err
		}
		cfg.Stop = sl
	}

	_, c, err := e.loadCorpus(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	keys, err := e.app.Keys(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	results, err := e.app.Collocates(c, keys, cfg)
	if err != nil {
		return err
	}
	e.logger.Debug("collocates",
		zap.Strings("keys", keys),
		zap.Int("window", cfg.Window),
		zap.Int64("min_freq", cfg.MinFreq),
		zap.Int("results", len(results)),
	)
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No collocates found.")
		return nil
	}
	fmt.Fprint(cmd.OutOrStdout(), e.theme.Table(format.Results(results, cfg.Mode), keys))
	return nil
}

func runAgency(cmd *cobra.Command, args []string) error {
	opts := envOptions{treebank: agencyTreebank}
	if agencyLLMURL != "" {
		opts.parser = &llm.Client{
			BaseURL: agencyLLMURL,
			Model:   agencyLLMModel,
			APIKey:  os.Getenv("CONCORD_LLM_API_KEY"),
		}
	}
	e, err := newEnv(cmd, opts)
	if err != nil {
		return err
	}
	defer e.Close()

	_, c, err := e.loadCorpus(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	keys, err := e.app.Keys(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	agency, err := e.app.Agency(cmd.Context(), c, keys)
	if err != nil {
		return err
	}
	if agency.Skipped > 0 {
		e.logger.Warn("sentences without a parse", zap.Int("skipped", agency.Skipped), zap.Int("sentences", agency.Sentences))
	}
	fmt.Fprint(cmd.OutOrStdout(), syntax.Report(agency.Tallies))
	return nil
}

func loadStoplist(path string) (collocate.Stoplist, error) {
	sl, err := config.LoadStoplist(path)
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}
	return collocate.NewStoplist(sl.Terms), nil
}
