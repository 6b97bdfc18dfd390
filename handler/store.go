package handler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ContentStore reads files from the public content root. Loaded files are
// cached when caching is on; Watch drops cache entries as files change.
type ContentStore struct {
	root   string
	cache  bool
	logger zerolog.Logger

	mu    sync.RWMutex
	files map[string]string
}

func NewContentStore(root string, cache bool, logger zerolog.Logger) *ContentStore {
	return &ContentStore{
		root:   filepath.Clean(root),
		cache:  cache,
		logger: logger,
		files:  make(map[string]string),
	}
}

func (s *ContentStore) Root() string {
	return s.root
}

// resolve maps a request name onto a path under root. Names that would
// escape the root are refused.
func (s *ContentStore) resolve(name string) (string, bool) {
	if len(name) == 0 {
		return "", false
	}

	full := filepath.Join(s.root, filepath.Clean("/"+name))
	if full != s.root && !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", false
	}

	return full, true
}

// LoadFile returns the content of name relative to the root, or false when
// it cannot be read.
func (s *ContentStore) LoadFile(name string) (string, bool) {
	full, ok := s.resolve(name)
	if !ok {
		s.logger.Warn().Str("name", name).Msg("refusing file outside content root")
		return "", false
	}

	if s.cache {
		s.mu.RLock()
		content, hit := s.files[full]
		s.mu.RUnlock()
		if hit {
			return content, true
		}
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		s.logger.Debug().Str("path", full).Msg("content file not found")
		return "", false
	}

	data, err := os.ReadFile(full)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", full).Msg("could not read content file")
		return "", false
	}

	content := string(data)
	if s.cache {
		s.mu.Lock()
		s.files[full] = content
		s.mu.Unlock()
	}

	return content, true
}

func (s *ContentStore) invalidate(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.files, filepath.Clean(path))
}

// Watch starts an fsnotify watcher over the root and every directory below
// it. Changed, removed and renamed files are dropped from the cache. The
// watcher stops when ctx is done.
func (s *ContentStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}

	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return fmt.Errorf("could not watch %s: %w", s.root, err)
	}

	go s.watch(ctx, watcher)
	return nil
}

func (s *ContentStore) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}

			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watcher.Add(ev.Name); err != nil {
						s.logger.Warn().Err(err).Str("path", ev.Name).Msg("could not watch new directory")
					}
				}
			}

			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				s.invalidate(ev.Name)
				s.logger.Debug().Str("path", ev.Name).Str("op", ev.Op.String()).Msg("content changed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn().Err(err).Msg("content watcher error")
		}
	}
}
