package shell

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cognicore/concord/pkg/concord/format"
	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/syntax"
)

type command struct {
	name    string
	aliases []string
	usage   string
	quit    bool
	run     func(ctx context.Context, s *Session, args []string) error
}

var commands []command

func init() {
	commands = []command{
		{name: "conc", aliases: []string{"concordance"}, usage: "*[conc]ordance |word OR index| (additional words) (character span width)", run: runConc},
		{name: "coll", aliases: []string{"collocation", "collocates"}, usage: "*[coll]ocation |word| (second word) (window) (min ngram frequency) (min collocation score)", run: runColl},
		{name: "parse", usage: "*[parse] |word| (more words)", run: runParse},
		{name: "switch", usage: "*[switch] corpora (name)", run: runSwitch},
		{name: "list", usage: "*[list] corpora", run: runList},
		{name: "settings", usage: "*[settings] (name value)", run: runSettings},
		{name: "save", usage: "*[save] last output (filename), to the library without one", run: runSave},
		{name: "history", usage: "*[history] of saved outputs (count)", run: runHistory},
		{name: "help", run: runHelp},
		{name: "quit", aliases: []string{"exit"}, quit: true},
	}
}

func lookup(name string) (command, bool) {
	name = strings.ToLower(name)
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
		for _, a := range c.aliases {
			if a == name {
				return c, true
			}
		}
	}
	return command{}, false
}

const helpHeader = `concord: concordance, collocation and agency analysis.

Possible commands are listed below. [square brackets] are command names,
|straight brackets| are necessary arguments, and (parentheses) are optional arguments.

Commands:`

func helpText() string {
	var b strings.Builder
	b.WriteString(helpHeader)
	b.WriteByte('\n')
	for _, c := range commands {
		if c.usage != "" {
			b.WriteString("    " + c.usage + "\n")
		}
	}
	b.WriteString("    *[quit] or [exit]\n")
	return b.String()
}

func runHelp(_ context.Context, s *Session, _ []string) error {
	fmt.Fprint(s.out, helpText())
	return nil
}

func runConc(_ context.Context, s *Session, args []string) error {
	e, err := s.corpus()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("[conc] needs a word or an index: %w", internalerr.ErrInvalidInput)
	}
	width := s.settings.Concordance.Width
	line := "conc " + strings.Join(args, " ")

	// index concordance
	if pos, err := strconv.Atoi(args[0]); err == nil {
		if len(args) > 2 {
			return fmt.Errorf("index concordance takes an index and a width: %w", internalerr.ErrInvalidInput)
		}
		if len(args) == 2 {
			if width, err = strconv.Atoi(args[1]); err != nil {
				return fmt.Errorf("width %q: %w", args[1], internalerr.ErrInvalidInput)
			}
		}
		l, err := e.Corpus.Line(pos, width)
		if err != nil {
			return err
		}
		s.remember(line, l.String(), l.String())
		return nil
	}

	words, nums := splitKeys(args)
	if len(nums) > 1 {
		return fmt.Errorf("concordance takes words and one width: %w", internalerr.ErrInvalidInput)
	}
	if len(nums) == 1 {
		if width, err = strconv.Atoi(nums[0]); err != nil {
			return fmt.Errorf("width %q: %w", nums[0], internalerr.ErrInvalidInput)
		}
	}
	keys, err := s.app.Keys(strings.Join(words, " "))
	if err != nil {
		return err
	}

	lines, err := s.app.Concordance(e.Corpus, keys, width)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintf(s.out, "No occurrences of %s.\n", strings.Join(keys, " "))
		return nil
	}
	plain := format.Lines(lines)
	s.remember(line, plain, s.theme.Concordance(plain, keys))
	return nil
}

func runColl(_ context.Context, s *Session, args []string) error {
	e, err := s.corpus()
	if err != nil {
		return err
	}
	words, nums := splitKeys(args)
	if len(words) == 0 {
		return fmt.Errorf("[coll] needs at least a key: %w", internalerr.ErrInvalidInput)
	}
	keys, err := s.app.Keys(strings.Join(words, " "))
	if err != nil {
		return err
	}
	if len(nums) > 3 {
		return fmt.Errorf("collocation takes a window, a frequency and a score: %w", internalerr.ErrInvalidInput)
	}

	cfg, err := s.settings.CollocateConfig()
	if err != nil {
		return err
	}
	cfg.Stop = s.stop
	for i, n := range nums {
		switch i {
		case 0:
			cfg.Window, err = strconv.Atoi(n)
		case 1:
			cfg.MinFreq, err = strconv.ParseInt(n, 10, 64)
		case 2:
			cfg.MinScore, err = strconv.ParseFloat(n, 64)
		}
		if err != nil {
			return fmt.Errorf("argument %q: %w", n, internalerr.ErrInvalidInput)
		}
	}

	fmt.Fprintf(s.out, "Finding collocates of %s...\n", strings.Join(words, " "))
	results, err := s.app.Collocates(e.Corpus, keys, cfg)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(s.out, "No collocates found.")
		return nil
	}
	plain := format.Results(results, cfg.Mode)
	s.remember("coll "+strings.Join(args, " "), plain, s.theme.Table(plain, keys))
	return nil
}

func runParse(ctx context.Context, s *Session, args []string) error {
	e, err := s.corpus()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("[parse] needs at least a key: %w", internalerr.ErrInvalidInput)
	}

	keys, err := s.app.Keys(strings.Join(args, " "))
	if err != nil {
		return err
	}
	agency, err := s.app.Agency(ctx, e.Corpus, keys)
	if err != nil {
		return err
	}
	plain := syntax.Report(agency.Tallies) +
		fmt.Sprintf("(%d sentences, %d without a parse)\n", agency.Sentences, agency.Skipped)
	s.remember("parse "+strings.Join(args, " "), plain, plain)
	return nil
}

func runSwitch(_ context.Context, s *Session, args []string) error {
	if len(s.corpora) == 0 {
		return fmt.Errorf("no corpus loaded: %w", internalerr.ErrInvalidInput)
	}
	if len(args) == 0 {
		s.current = (s.current + 1) % len(s.corpora)
		s.printSelected(s.corpora[s.current])
		return nil
	}
	for i, e := range s.corpora {
		if e.Name == args[0] {
			s.current = i
			s.printSelected(e)
			return nil
		}
	}
	return fmt.Errorf("corpus %q: %w", args[0], internalerr.ErrNotFound)
}

func runList(_ context.Context, s *Session, _ []string) error {
	for i, e := range s.corpora {
		mark := "  "
		if i == s.current {
			mark = "* "
		}
		fmt.Fprintf(s.out, "%s%s | Tokens: %d\n", mark, e.Name, e.Corpus.Len())
	}
	return nil
}

func runSettings(_ context.Context, s *Session, args []string) error {
	switch len(args) {
	case 0:
	case 2:
		if err := s.settings.Set(args[0], args[1]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("enter a setting and a new value: %w", internalerr.ErrInvalidInput)
	}
	fmt.Fprint(s.out, s.settings.String())
	return nil
}

func runSave(ctx context.Context, s *Session, args []string) error {
	if s.lastOut == "" {
		return fmt.Errorf("nothing to save yet: %w", internalerr.ErrInvalidInput)
	}
	if len(args) > 0 {
		if err := os.WriteFile(args[0], []byte(s.lastOut), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Saved to %s\n", args[0])
		return nil
	}

	e, _ := s.Current()
	o, err := s.app.SaveOutput(ctx, e.Name, s.lastCmd, s.lastOut)
	if err != nil {
		return fmt.Errorf("save needs a filename without a library: %w", err)
	}
	fmt.Fprintf(s.out, "Saved output %s\n", o.ID)
	return nil
}

func runHistory(ctx context.Context, s *Session, args []string) error {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("count %q: %w", args[0], internalerr.ErrInvalidInput)
		}
		limit = n
	}
	e, _ := s.Current()
	outs, err := s.app.Outputs(ctx, e.Name, limit)
	if err != nil {
		return err
	}
	if len(outs) == 0 {
		fmt.Fprintln(s.out, "No saved outputs.")
		return nil
	}
	for _, o := range outs {
		fmt.Fprintf(s.out, "%s  %s  %s\n", o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), o.Command)
	}
	return nil
}

// splitKeys separates the leading word arguments from the numeric ones
// after them.
func splitKeys(args []string) (keys, nums []string) {
	i := 0
	for i < len(args) && !isNumber(args[i]) {
		i++
	}
	return args[:i], args[i:]
}

func isNumber(s string) bool {
	if s == "" || !strings.ContainsAny(s[:1], "0123456789-+.") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
