// Package shell implements the interactive concordance session: a line
// oriented loop over one or more loaded corpora.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/concord/pkg/concord"
	"github.com/cognicore/concord/pkg/concord/collocate"
	"github.com/cognicore/concord/pkg/concord/config"
	"github.com/cognicore/concord/pkg/concord/corpus"
	"github.com/cognicore/concord/pkg/concord/format"
	"github.com/cognicore/concord/pkg/concord/internalerr"
)

// Prompt is printed before every command when the session reads from a
// terminal.
const Prompt = "-> "

// Entry is a loaded corpus.
type Entry struct {
	Name   string
	Corpus *corpus.Corpus
}

// Options configures a Session.
type Options struct {
	App      *concord.Concord
	Settings config.Settings
	Stop     collocate.StopChecker
	Out      io.Writer
	Theme    format.Theme
	Logger   *zap.Logger
	Prompt   bool
}

// Session holds the loaded corpora, the current settings and the last
// output.
type Session struct {
	app      *concord.Concord
	settings config.Settings
	stop     collocate.StopChecker
	out      io.Writer
	theme    format.Theme
	logger   *zap.Logger
	prompt   bool

	corpora []Entry
	current int
	lastOut string
	lastCmd string
}

// New creates a session with no corpora loaded.
func New(opts Options) *Session {
	s := &Session{
		app:      opts.App,
		settings: opts.Settings,
		stop:     opts.Stop,
		out:      opts.Out,
		theme:    opts.Theme,
		logger:   opts.Logger,
		prompt:   opts.Prompt,
	}
	if s.app == nil {
		s.app = concord.New(concord.Options{})
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Add loads a corpus into the session and selects it.
func (s *Session) Add(name string, c *corpus.Corpus) {
	s.corpora = append(s.corpora, Entry{Name: name, Corpus: c})
	s.current = len(s.corpora) - 1
	s.logger.Debug("corpus added", zap.String("name", name), zap.Int("tokens", c.Len()))
}

// Current returns the selected corpus.
func (s *Session) Current() (Entry, bool) {
	if len(s.corpora) == 0 {
		return Entry{}, false
	}
	return s.corpora[s.current], true
}

// Corpora returns the loaded corpora in load order.
func (s *Session) Corpora() []Entry { return s.corpora }

// Settings returns the current settings.
func (s *Session) Settings() config.Settings { return s.settings }

// LastOutput returns the uncolored text of the last concordance,
// collocation or parse command.
func (s *Session) LastOutput() string { return s.lastOut }

// Run reads commands from in until it is exhausted or a quit command.
// Command errors are printed and the loop goes on.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	if e, ok := s.Current(); ok {
		s.printSelected(e)
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	for {
		if s.prompt {
			fmt.Fprint(s.out, Prompt)
		}
		if !scanner.Scan() {
			break
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		quit, err := s.Exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintln(s.out, err)
			if errors.Is(err, context.Canceled) {
				return err
			}
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// Exec runs one command line. It reports whether the line asked to quit.
func (s *Session) Exec(ctx context.Context, line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}

	cmd, ok := lookup(args[0])
	if !ok {
		return false, fmt.Errorf("unknown command %q, try help: %w", args[0], internalerr.ErrInvalidInput)
	}
	if cmd.quit {
		return true, nil
	}

	start := time.Now()
	err := cmd.run(ctx, s, args[1:])
	s.logger.Debug("command",
		zap.String("cmd", cmd.name),
		zap.Strings("args", args[1:]),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)
	return false, err
}

func (s *Session) corpus() (Entry, error) {
	e, ok := s.Current()
	if !ok {
		return Entry{}, fmt.Errorf("no corpus loaded: %w", internalerr.ErrInvalidInput)
	}
	return e, nil
}

// remember records a result for save, then prints it with colors.
func (s *Session) remember(line, plain, colored string) {
	s.lastOut = plain
	s.lastCmd = line
	fmt.Fprint(s.out, colored)
	if !strings.HasSuffix(colored, "\n") {
		fmt.Fprintln(s.out)
	}
}

func (s *Session) printSelected(e Entry) {
	fmt.Fprintf(s.out, "Corpus selected: %s | Tokens in corpus: %d\n", e.Name, e.Corpus.Len())
}
