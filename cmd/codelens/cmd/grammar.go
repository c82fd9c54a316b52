package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/codelens/internal/adapters/treesitter"
)

var grammarCmd = &cobra.Command{
	Use:   "grammar",
	Short: "Inspect tree-sitter grammars",
	Long:  "Show where each language's grammar comes from: compiled in, or a shared library on the search path.",
}

var grammarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List languages and their grammar source",
	RunE:  runGrammarList,
}

var grammarPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show grammar search paths",
	RunE:  runGrammarPath,
}

func init() {
	grammarCmd.AddCommand(grammarListCmd)
	grammarCmd.AddCommand(grammarPathCmd)
}

func runGrammarList(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	treesitter.SetGrammarPaths(treesitter.DefaultGrammarPaths(root))

	out := cmd.OutOrStdout()
	langs := treesitter.Languages()
	fmt.Fprintf(out, "%s\n", paint(colorBold, fmt.Sprintf("⚡ %d languages", len(langs))))
	for _, lang := range langs {
		source := treesitter.GrammarSource(lang)
		if source == "" {
			source = paint(colorYellow, "missing")
		} else {
			source = paint(colorGreen, source)
		}
		fmt.Fprintf(out, "  %-12s %-6s %s\n", paint(colorCyan, lang.String()), lang.Extension(), source)
	}
	return nil
}

func runGrammarPath(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", paint(colorBold, "⚡ grammar search paths"))
	for i, p := range treesitter.DefaultGrammarPaths(root) {
		fmt.Fprintf(out, "  %d. %s\n", i+1, p)
	}
	fmt.Fprintf(out, "  %s\n", paint(colorGray, "prepend with $"+treesitter.GrammarPathEnv))
	return nil
}
