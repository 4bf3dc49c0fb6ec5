package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/cognicore/concord/internal/shell"
	"github.com/cognicore/concord/pkg/concord/internalerr"
)

var shellCmd = &cobra.Command{
	Use:   "shell [FILE...]",
	Short: "Interactive concordance session",
	Long: `Loads every FILE (or, with --db and no FILE, every stored corpus) and reads
commands from stdin: conc, coll, parse, switch, list, settings, save, history,
help and quit. Type help in the session for the argument forms.`,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	names := args
	if len(names) == 0 {
		if !e.app.HasStore() {
			return fmt.Errorf("shell needs a FILE or a --db library: %w", internalerr.ErrInvalidInput)
		}
		list, err := e.app.Corpora(ctx)
		if err != nil {
			return err
		}
		for _, c := range list {
			names = append(names, c.Name)
		}
		if len(names) == 0 {
			return fmt.Errorf("library %s is empty: %w", dbPath, internalerr.ErrNotFound)
		}
	}

	in := cmd.InOrStdin()
	prompt := false
	if f, ok := in.(*os.File); ok {
		prompt = term.IsTerminal(int(f.Fd()))
	}

	sess := shell.New(shell.Options{
		App:      e.app,
		Settings: e.settings,
		Stop:     e.comps.Stoplist,
		Out:      cmd.OutOrStdout(),
		Theme:    e.theme,
		Logger:   e.logger,
		Prompt:   prompt,
	})
	for _, name := range names {
		n, c, err := e.loadCorpus(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s loaded!\n", n)
		sess.Add(n, c)
	}
	e.logger.Debug("session started", zap.Int("corpora", len(names)))

	return sess.Run(ctx, in)
}
