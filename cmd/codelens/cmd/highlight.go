package cmd

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/corey/codelens/internal/adapters/treesitter"
)

// highlightNames are the highlight groups an editor theme styles. They cover
// the capture names the bundled grammar queries emit; sub-names such as
// "punctuation.bracket" fall back to their dotted prefix.
var highlightNames = []string{
	"attribute",
	"comment",
	"constant",
	"constant.builtin",
	"constructor",
	"embedded",
	"escape",
	"function",
	"function.builtin",
	"function.macro",
	"function.method",
	"keyword",
	"label",
	"number",
	"operator",
	"property",
	"punctuation",
	"string",
	"tag",
	"type",
	"type.builtin",
	"variable",
	"variable.builtin",
	"variable.parameter",
}

var highlightJSON bool

var highlightCmd = &cobra.Command{
	Use:   "highlight <file>",
	Short: "Print the highlight captures of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runHighlight,
}

func init() {
	highlightCmd.Flags().BoolVar(&highlightJSON, "json", false, "print spans as JSON")
}

// highlightSpan is the --json shape of one capture.
type highlightSpan struct {
	Line      uint   `json:"line"`
	StartByte uint   `json:"start_byte"`
	EndByte   uint   `json:"end_byte"`
	Capture   string `json:"capture"`
	Group     string `json:"group,omitempty"`
}

func runHighlight(cmd *cobra.Command, args []string) error {
	path := args[0]
	lang, ok := treesitter.Identify(path)
	if !ok {
		return fmt.Errorf("%s: no supported language for this extension", path)
	}
	root, err := projectRoot()
	if err != nil {
		return err
	}
	treesitter.SetGrammarPaths(treesitter.DefaultGrammarPaths(root))
	if !treesitter.HasGrammar(lang) {
		return fmt.Errorf("%s: grammar not available (see `codelens grammar path`)", lang)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	cfg := treesitter.NewHighlightConfig(lang)
	defer cfg.Close()
	cfg.Configure(highlightNames)

	tree := treesitter.Parse(lang, source)
	if tree == nil {
		return fmt.Errorf("%s: parse failed", path)
	}
	defer tree.Close()

	spans := make([]highlightSpan, 0)
	for _, s := range cfg.Highlight(tree, source) {
		span := highlightSpan{
			Line:      s.StartLine,
			StartByte: s.StartByte,
			EndByte:   s.EndByte,
			Capture:   s.Capture,
		}
		if s.Highlight >= 0 {
			span.Group = highlightNames[s.Highlight]
		}
		spans = append(spans, span)
	}

	out := cmd.OutOrStdout()
	if highlightJSON {
		return writeJSON(out, spans)
	}
	fmt.Fprintf(out, "%s (%s) │ %d spans\n",
		paint(colorBold, "⚡ "+path), paint(colorMagenta, lang.String()), len(spans))
	for _, s := range spans {
		text := truncate(string(source[s.StartByte:s.EndByte]), 40)
		fmt.Fprintf(out, "  %s  %-20s %s\n",
			paint(colorCyan, fmt.Sprintf("%4d:%d-%d", s.Line+1, s.StartByte, s.EndByte)),
			paint(colorGreen, s.Capture), paint(colorGray, fmt.Sprintf("%q", text)))
	}
	return nil
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
