// codelens reports the structurally significant lines of source files.
// Tree-sitter parses each file and a per-language node-kind table decides
// which line boundaries an editor should treat as code-lens anchors.
package main

import (
	"os"

	"github.com/corey/codelens/cmd/codelens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
