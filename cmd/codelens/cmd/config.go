package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/corey/codelens/internal/adapters/socket"
	"github.com/corey/codelens/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration",
	Long:  "Shows the project root and the resolved .codelens/ paths. Creates nothing.",
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	paths := app.NewPaths(root)

	dbStatus := paint(colorYellow, "✗ not scanned")
	if _, err := os.Stat(paths.DB); err == nil {
		dbStatus = paint(colorGreen, "✓ present")
	}

	sockPath := socket.SocketPath(root)
	watchStatus := paint(colorYellow, "✗ not running")
	if socket.NewClient(sockPath).Ping() {
		watchStatus = paint(colorGreen, "✓ watching")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", paint(colorBold, "⚡ codelens config"))
	fmt.Fprintf(out, "  Project:    %s\n", paths.ProjectID())
	fmt.Fprintf(out, "  Root:       %s\n", paths.ProjectRoot)
	fmt.Fprintf(out, "  DB:         %s (%s)\n", paths.DB, dbStatus)
	fmt.Fprintf(out, "  Watch log:  %s\n", paths.WatchLog)
	fmt.Fprintf(out, "  Grammars:   %s\n", paths.GrammarsDir)
	fmt.Fprintf(out, "  Socket:     %s (%s)\n", sockPath, watchStatus)
	return nil
}
