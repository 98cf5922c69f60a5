package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Source hands out the current catalog snapshot. Readers never observe a
// partially reloaded catalog.
type Source struct {
	current atomic.Pointer[Catalog]
	dir     string
	logger  *zap.Logger
}

// NewStaticSource wraps a fixed catalog.
func NewStaticSource(c *Catalog) *Source {
	s := &Source{logger: zap.NewNop()}
	s.current.Store(c)
	return s
}

// OpenSource loads from fsys/dir once. When dir is a real directory (see
// OpenDirSource) the source can also be watched for changes.
func OpenSource(fsys fs.FS, dir string) (*Source, error) {
	c, err := LoadFS(fsys, dir)
	if err != nil {
		return nil, err
	}
	return NewStaticSource(c), nil
}

// OpenDirSource loads the catalog from a directory on disk.
func OpenDirSource(dir string, logger *zap.Logger) (*Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := LoadFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("load catalog from %s: %w", dir, err)
	}
	s := &Source{dir: dir, logger: logger}
	s.current.Store(c)
	return s, nil
}

// Current returns the active snapshot.
func (s *Source) Current() *Catalog {
	return s.current.Load()
}

// Reload re-reads the directory. On failure the previous snapshot stays active.
func (s *Source) Reload() error {
	if s.dir == "" {
		return nil
	}
	c, err := LoadFS(os.DirFS(s.dir), ".")
	if err != nil {
		return err
	}
	s.current.Store(c)
	return nil
}

// Watch reloads the catalog whenever a file in the directory changes, until
// ctx is done. Bursts of events are coalesced with a short settle delay.
func (s *Source) Watch(ctx context.Context) error {
	if s.dir == "" {
		return fmt.Errorf("catalog: watch requires a directory source")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	s.logger.Info("catalog watcher started", zap.String("dir", s.dir))

	go func() {
		defer watcher.Close()
		var settle *time.Timer
		reload := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				if settle != nil {
					settle.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !relevant(event) {
					continue
				}
				if settle != nil {
					settle.Stop()
				}
				settle = time.AfterFunc(150*time.Millisecond, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			case <-reload:
				if err := s.Reload(); err != nil {
					s.logger.Warn("catalog reload failed; keeping previous snapshot", zap.Error(err))
					continue
				}
				c := s.Current()
				s.logger.Info("catalog reloaded", zap.Int("items", len(c.Items)), zap.Int("updates", len(c.Updates)))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Warn("catalog watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}

func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	switch filepath.Base(event.Name) {
	case botsFile, updatesFile, auxFile:
		return true
	}
	return false
}
