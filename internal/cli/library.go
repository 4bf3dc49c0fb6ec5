package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/concord/internal/rss"
	"github.com/cognicore/concord/pkg/concord/ingest"
	"github.com/cognicore/concord/pkg/concord/internalerr"
)

var (
	cleanOut     string
	lemmaOut     string
	lemmaLexicon string

	importOutlet   string
	importCategory string

	outputsLimit int
	outputsFull  bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean FILE",
	Short: "Prepare a raw text for loading",
	Long: `Drops blank lines and ends every line with a period unless it already ends
in punctuation, so each line break becomes a sentence boundary. HTML files
(.html, .htm) are reduced to their text first.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

var lemmatizeCmd = &cobra.Command{
	Use:   "lemmatize FILE",
	Short: "Replace every word with its lemma",
	Long: `Tokenizes a cleaned text and replaces every token with its lemma from a
YAML lexicon (--lexicon, or lexicon: in the settings). Unknown words are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runLemmatize,
}

var importCmd = &cobra.Command{
	Use:   "import NAME FILE",
	Short: "Store a corpus in the library",
	Long: `Tokenizes FILE and stores it in the --db library under NAME, replacing any
corpus of that name. JSONL news dumps (one item per line with title and text)
are joined item by item and can be narrowed with --outlet and --category.`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

var corporaCmd = &cobra.Command{
	Use:   "corpora",
	Short: "List the corpora in the library",
	Args:  cobra.NoArgs,
	RunE:  runCorpora,
}

var outputsCmd = &cobra.Command{
	Use:   "outputs [CORPUS]",
	Short: "List outputs saved from the shell",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runOutputs,
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanOut, "out", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(cleanCmd)

	lemmatizeCmd.Flags().StringVarP(&lemmaOut, "out", "o", "", "write to this file instead of stdout")
	lemmatizeCmd.Flags().StringVar(&lemmaLexicon, "lexicon", "", "lemma lexicon YAML")
	rootCmd.AddCommand(lemmatizeCmd)

	importCmd.Flags().StringVar(&importOutlet, "outlet", "", "only news items from this outlet")
	importCmd.Flags().StringVar(&importCategory, "category", "", "only news items in this source category")
	rootCmd.AddCommand(importCmd)

	rootCmd.AddCommand(corporaCmd)

	outputsCmd.Flags().IntVarP(&outputsLimit, "limit", "n", 20, "maximum number of outputs")
	outputsCmd.Flags().BoolVar(&outputsFull, "full", false, "print the saved bodies")
	rootCmd.AddCommand(outputsCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	text, err := e.readText(args[0], true)
	if err != nil {
		return err
	}
	return writeOut(cmd, cleanOut, text)
}

func runLemmatize(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	lex := e.comps.Lexicon
	if lemmaLexicon != "" {
		if lex, err = ingest.LoadLexicon(lemmaLexicon); err != nil {
			return fmt.Errorf("load lexicon: %w", err)
		}
	}
	if lex.Size() == 0 {
		return fmt.Errorf("lemmatize needs a lexicon: %w", internalerr.ErrInvalidConfig)
	}

	text, err := e.readText(args[0], false)
	if err != nil {
		return err
	}
	out, err := ingest.Lemmatize(text, lex)
	if err != nil {
		return err
	}
	return writeOut(cmd, lemmaOut, out+"\n")
}

func runImport(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	name, path := args[0], args[1]
	text, err := readText(path, false, rss.Filter{Outlet: importOutlet, Category: importCategory}, e.logger)
	if err != nil {
		return err
	}
	c, err := e.app.Import(cmd.Context(), name, text)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d tokens, %d sentences\n", name, c.Len(), len(c.Sentences()))
	return nil
}

func runCorpora(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	list, err := e.app.Corpora(cmd.Context())
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No corpora stored.")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(cmd.OutOrStdout(), "%s | Tokens: %d | Imported: %s\n", c.Name, c.Tokens, c.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runOutputs(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	corpusName := ""
	if len(args) == 1 {
		corpusName = args[0]
	}
	outs, err := e.app.Outputs(cmd.Context(), corpusName, outputsLimit)
	if err != nil {
		return err
	}
	if len(outs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved outputs.")
		return nil
	}
	for _, o := range outs {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  %s\n", o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), o.Corpus, o.Command)
		if outputsFull {
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(o.Body, "\n"))
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}
	return nil
}

func writeOut(cmd *cobra.Command, path, text string) error {
	if path == "" {
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Written to %s\n", path)
	return nil
}
