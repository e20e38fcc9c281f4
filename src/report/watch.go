package report

import (
	"context"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"github.com/jom-io/gorig-prof/src/source"
	"github.com/jom-io/gorig/utils/logger"
	"go.uber.org/zap"
	"path/filepath"
	"strings"
)

// Watch hands a fresh report to fn now and after every change of the source
// file, until ctx is done or fn fails.
func (s *Serv) Watch(ctx context.Context, fn func(*Report) error) error {
	location := s.conf.Source
	if !source.IsLocal(location) {
		return fmt.Errorf("watch needs a local source file, got %s", location)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create watcher: %w", err)
	}
	defer watcher.Close()

	// watch the directory, sqlite writes go through -journal/-wal siblings
	// and dumps are often replaced by rename
	dir, base := filepath.Split(filepath.Clean(location))
	if dir == "" {
		dir = "."
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("unable to watch %s: %w", dir, err)
	}

	if err := fn(s.Load(ctx)); err != nil {
		return err
	}
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, base) {
				continue
			}
			logger.Info(ctx, "Profiler source changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if err := fn(s.Load(ctx)); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		case <-ctx.Done():
			return nil
		}
	}
}

func relevant(event fsnotify.Event, base string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == base || strings.HasPrefix(name, base+"-")
}
