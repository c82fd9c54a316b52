package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/corey/codelens/internal/adapters/socket"
	"github.com/corey/codelens/internal/ports"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print the stored record of a scanned file",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the record as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return err
	}
	rec, err := lookup(root, filepath.ToSlash(rel))
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%s: not scanned (run `codelens scan`)", args[0])
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showJSON {
		return writeJSON(out, rec)
	}
	fmt.Fprintf(out, "%s (%s)\n", paint(colorBold, "⚡ "+rec.Path), paint(colorMagenta, rec.Language))
	fmt.Fprintf(out, "  Lines:    %v\n", oneBased(rec.Lines))
	fmt.Fprintf(out, "  Hash:     %s\n", paint(colorGray, rec.Hash))
	fmt.Fprintf(out, "  Updated:  %s\n", time.Unix(rec.Updated, 0).Format(time.RFC3339))
	return nil
}

// lookup asks a running watcher first and falls back to opening the store.
func lookup(root, rel string) (*ports.FileLines, error) {
	client := socket.NewClient(socket.SocketPath(root))
	if client.Ping() {
		return client.Lookup(rel)
	}
	a, err := openApp(root)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.Lookup(rel)
}

func oneBased(lines []uint) []uint {
	out := make([]uint, len(lines))
	for i, l := range lines {
		out[i] = l + 1
	}
	return out
}
