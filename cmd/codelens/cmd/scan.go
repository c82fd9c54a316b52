package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/corey/codelens/internal/adapters/socket"
)

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Classify every supported file and store the results",
	Long:  "Walks the project, classifies files whose content changed since the last scan, and saves their significant lines to .codelens/codelens.db.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	root, err := projectRoot(args...)
	if err != nil {
		return err
	}
	client := socket.NewClient(socket.SocketPath(root))
	if client.Ping() {
		res, err := client.Rescan()
		if err != nil {
			return fmt.Errorf("scan via watcher: %w", err)
		}
		printScan(cmd, filepath.Base(root), res)
		return nil
	}

	a, err := openApp(root)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := a.Rescan(ctx)
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}
	printScan(cmd, a.ProjectID, res)
	return nil
}

func printScan(cmd *cobra.Command, project string, res *socket.RescanResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s │ %d files │ %s\n", paint(colorBold, "⚡ scanned "+project), res.Files, res.Elapsed)
	fmt.Fprintf(out, "  Classified:  %d (%d lines)\n", res.Classified, res.Lines)
	fmt.Fprintf(out, "  Unchanged:   %d\n", res.Unchanged)
	if res.Skipped > 0 {
		fmt.Fprintf(out, "  Skipped:     %s\n", paint(colorYellow, fmt.Sprint(res.Skipped)))
	}
	if res.Removed > 0 {
		fmt.Fprintf(out, "  Removed:     %d\n", res.Removed)
	}
}
