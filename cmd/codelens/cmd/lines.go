package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/codelens/internal/adapters/ahocorasick"
	"github.com/corey/codelens/internal/adapters/treesitter"
	"github.com/corey/codelens/internal/ports"
)

var (
	linesJSON       bool
	linesMatch      []string
	linesIgnoreCase bool
)

var linesCmd = &cobra.Command{
	Use:   "lines <file>",
	Short: "Print the significant lines of a file",
	Long: `Parses the file and prints its code-lens lines, 1-based. --json prints the raw 0-based indices.

--match keeps only significant lines containing any of the given substrings:

  codelens lines src/lib.rs --match impl,trait`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLines,
}

func init() {
	linesCmd.Flags().BoolVar(&linesJSON, "json", false, "print JSON with 0-based line indices")
	linesCmd.Flags().StringSliceVar(&linesMatch, "match", nil, "keep only lines containing one of these substrings")
	linesCmd.Flags().BoolVarP(&linesIgnoreCase, "ignore-case", "i", false, "ASCII case-insensitive --match")
}

// linesResult is the --json shape of `codelens lines`.
type linesResult struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Lines    []uint `json:"lines"`
}

func runLines(cmd *cobra.Command, args []string) error {
	path := args[0]
	root, err := projectRoot()
	if err != nil {
		return err
	}
	treesitter.SetGrammarPaths(treesitter.DefaultGrammarPaths(root))

	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lang, set, err := treesitter.SignificantLines(path, source)
	if errors.Is(err, ports.ErrUnsupportedLanguage) {
		return fmt.Errorf("%s: no supported language for this extension", path)
	}
	if err != nil {
		return err
	}
	lines := ahocorasick.NewLineFilter(linesMatch, linesIgnoreCase).Lines(source, set.Sorted())

	out := cmd.OutOrStdout()
	if linesJSON {
		if lines == nil {
			lines = []uint{}
		}
		return writeJSON(out, linesResult{Path: path, Language: lang.String(), Lines: lines})
	}

	fmt.Fprintf(out, "%s (%s) │ %d lines\n",
		paint(colorBold, "⚡ "+path), paint(colorMagenta, lang.String()), len(lines))
	fmt.Fprint(out, formatLines(strings.Split(string(source), "\n"), lines))
	return nil
}

// formatLines renders each significant line as "  N: text" with N 1-based.
func formatLines(src []string, lines []uint) string {
	var sb strings.Builder
	for _, l := range lines {
		text := ""
		if int(l) < len(src) {
			text = strings.TrimRight(src[l], "\r")
		}
		sb.WriteString(fmt.Sprintf("  %s: %s\n", paint(colorCyan, fmt.Sprintf("%4d", l+1)), paint(colorGray, text)))
	}
	return sb.String()
}
