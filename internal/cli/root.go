// Package cli implements the concord command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/cognicore/concord/pkg/concord/format"
)

var (
	configPath string
	dbPath     string
	verbose    bool
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "concord",
	Short: "Concordance, collocation and agency analysis for text corpora",
	Long: `concord reads cleaned plain text corpora and answers three questions about them:
where a word occurs (concordance), which words keep company with it (PMI
collocation over a token window) and how often it acts as a subject or an
object (agency, from dependency parses).

Corpora can be kept in a sqlite library with --db; FILE arguments then name
a stored corpus first and a file on disk otherwise.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings YAML file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite corpus library")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger returns a development logger when verbose and a warn level
// console logger otherwise, both on stderr.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level.SetLevel(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// themeFor colors output only on a terminal.
func themeFor(f *os.File) format.Theme {
	if noColor || f == nil || !term.IsTerminal(int(f.Fd())) {
		return format.PlainTheme()
	}
	return format.DefaultTheme()
}
