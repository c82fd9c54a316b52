package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/corey/codelens/internal/adapters/socket"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Scan, then keep results fresh as files change",
	Long: "Runs a scan and then reclassifies files on every save until interrupted or `codelens stop`. " +
		"While running it answers `scan` and `show` over a Unix socket. Logs go to stderr and .codelens/log/watch.log.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, err := projectRoot(args...)
	if err != nil {
		return err
	}
	a, err := openApp(root)
	if err != nil {
		return err
	}
	defer a.Close()

	logFile, err := os.OpenFile(a.Paths.WatchLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open watch log: %w", err)
	}
	defer logFile.Close()

	level := slog.LevelInfo
	if verboseFlag {
		level = slog.LevelDebug
	}
	a.Logger = slog.New(slog.NewTextHandler(io.MultiWriter(os.Stderr, logFile),
		&slog.HandlerOptions{Level: level})).With("project", a.ProjectID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv, err := a.Serve(socket.SocketPath(root))
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	defer srv.Stop()
	go func() {
		select {
		case <-srv.ShutdownCh():
			cancel()
		case <-ctx.Done():
		}
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s (Ctrl-C to stop)\n", paint(colorBold, "⚡ watching"), paint(colorCyan, root))
	return a.Watch(ctx, func(path string, err error) {
		if err != nil {
			return
		}
		fmt.Fprintf(out, "  %s %s\n", paint(colorGreen, "↻"), path)
	})
}
