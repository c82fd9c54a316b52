package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/codelens/internal/adapters/socket"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running `codelens watch` for the project",
	RunE:  runStop,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether a watcher is running for the project",
	RunE:  runStatus,
}

func runStop(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	client := socket.NewClient(socket.SocketPath(root))
	if !client.Ping() {
		fmt.Fprintln(cmd.OutOrStdout(), "no watcher running")
		return nil
	}
	if err := client.Shutdown(); err != nil {
		return fmt.Errorf("stop watcher: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", paint(colorGreen, "⚡ watcher stopped"))
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	client := socket.NewClient(socket.SocketPath(root))
	if !client.Ping() {
		fmt.Fprintf(out, "%s\n", paint(colorYellow, "✗ no watcher running"))
		return nil
	}
	h, err := client.Health()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", paint(colorBold, "⚡ codelens watch"))
	fmt.Fprintf(out, "  Status:   %s\n", paint(colorGreen, h.Status))
	fmt.Fprintf(out, "  Project:  %s\n", h.Project)
	fmt.Fprintf(out, "  Files:    %d\n", h.Files)
	fmt.Fprintf(out, "  Uptime:   %s\n", h.Uptime)
	return nil
}
