package index

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/radovskyb/watcher"
)

// Watch builds once, then rebuilds whenever something in the source
// directory changes. It blocks until ctx is cancelled.
// onBuild is called after every build with its outcome.
func (b *Builder) Watch(ctx context.Context, interval time.Duration, onBuild func(*Result, error)) error {
	onBuild(b.Build())

	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create, watcher.Remove, watcher.Rename, watcher.Move)

	if err := w.Add(b.opts.SourceDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", b.opts.SourceDir, err)
	}

	go func() {
		for {
			select {
			case event := <-w.Event:
				slog.Debug("source changed", "op", event.Op.String(), "path", event.Path)
				onBuild(b.Build())
			case err := <-w.Error:
				slog.Warn("watcher error", "error", err)
			case <-w.Closed:
				return
			}
		}
	}()

	// Close is a no-op until Start is running, so wait for it first.
	go func() {
		<-ctx.Done()
		w.Wait()
		w.Close()
	}()

	slog.Info("watching for changes", "dir", b.opts.SourceDir, "interval", interval)
	if err := w.Start(interval); err != nil {
		return fmt.Errorf("watcher stopped: %w", err)
	}
	return nil
}
