package app

import (
	"context"
	"fmt"
)

// Watch runs an initial Scan and then refreshes files as they change until
// ctx is cancelled.
func (a *App) Watch(ctx context.Context, onRefresh func(path string, err error)) error {
	if _, err := a.Scan(ctx); err != nil {
		return fmt.Errorf("initial scan: %w", err)
	}

	w, err := a.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	err = w.Watch(a.Paths.ProjectRoot, func(path string) {
		err := a.Refresh(path)
		if err != nil {
			a.Logger.Error("refresh failed", "path", path, "err", err)
		}
		if onRefresh != nil {
			onRefresh(path, err)
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", a.Paths.ProjectRoot, err)
	}

	a.Logger.Info("watching", "root", a.Paths.ProjectRoot)
	<-ctx.Done()
	return nil
}
