package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/codelens/internal/adapters/treesitter"
	"github.com/corey/codelens/internal/app"
)

var (
	rootFlag    string
	verboseFlag bool
	noColorFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "codelens",
	Short:         "codelens: significant lines of source files",
	Long:          "Identify languages, classify code-lens lines with tree-sitter, and keep a per-project index of them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(os.Stderr))
	},
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "project root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log debug output")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")

	rootCmd.AddCommand(langCmd)
	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(highlightCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(grammarCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

// projectRoot returns the absolute project root: --root, else the first
// positional directory argument, else cwd.
func projectRoot(args ...string) (string, error) {
	dir := rootFlag
	if dir == "" && len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	return filepath.Abs(dir)
}

func newLogger(w *os.File) *slog.Logger {
	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newClassifier returns the tree-sitter classifier with the project's
// grammar search paths configured.
func newClassifier(root string) *treesitter.Classifier {
	return treesitter.NewClassifier(treesitter.DefaultGrammarPaths(root))
}

// openApp opens the project's store, translating lock timeouts into advice.
func openApp(root string) (*app.App, error) {
	a, err := app.New(app.Config{
		ProjectRoot: root,
		Classifier:  newClassifier(root),
		Logger:      slog.Default(),
	})
	if err != nil {
		if isDBLockError(err) {
			return nil, fmt.Errorf("%s", diagnoseDBLock(app.NewPaths(root)))
		}
		return nil, err
	}
	return a, nil
}
