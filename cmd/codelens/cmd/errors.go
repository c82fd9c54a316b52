package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/codelens/internal/adapters/socket"
	"github.com/corey/codelens/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, bolt.ErrTimeout) || strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance when a bbolt open fails due to
// lock contention. It distinguishes a live watcher, a stale socket, and an
// unknown lock holder.
func diagnoseDBLock(paths *app.Paths) string {
	sockPath := socket.SocketPath(paths.ProjectRoot)
	if socket.NewClient(sockPath).Ping() {
		return "database is locked by a running `codelens watch`\n" +
			"  → stop it first:  codelens stop\n" +
			"  → then retry your command"
	}

	if _, err := os.Stat(sockPath); err == nil {
		return fmt.Sprintf("database is locked: watcher socket exists but is not responding\n"+
			"  → a previous watcher may have crashed\n"+
			"  → find the process:  ps aux | grep 'codelens watch'\n"+
			"  → kill it:           kill <PID>\n"+
			"  → clean up socket:   rm %s", sockPath)
	}

	return fmt.Sprintf("database is locked by another process\n"+
		"  → find the process:  ps aux | grep codelens\n"+
		"  → kill it, then retry your command\n"+
		"  → db:                %s", paths.DB)
}
