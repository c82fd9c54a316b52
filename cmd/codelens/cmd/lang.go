package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/codelens/internal/adapters/treesitter"
)

var langCmd = &cobra.Command{
	Use:   "lang <path>...",
	Short: "Identify the language of each path by extension",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLang,
}

func runLang(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, path := range args {
		lang, ok := treesitter.Identify(path)
		name := paint(colorYellow, "unsupported")
		if ok {
			name = paint(colorGreen, lang.String())
		}
		fmt.Fprintf(out, "%s\t%s\n", path, name)
	}
	return nil
}
