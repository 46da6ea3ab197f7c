package personality

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads a profile file whenever it is written and passes the new
// profile to a callback. The callback runs on the watcher goroutine.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(Profile)
	onError  func(error)
	log      zerolog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// OnReloadError registers a callback for profiles that fail to parse.
func OnReloadError(fn func(error)) WatchOption {
	return func(w *Watcher) { w.onError = fn }
}

// NewWatcher starts watching path. The parent directory is watched so that
// editors which replace the file on save are handled.
func NewWatcher(path string, onChange func(Profile), log zerolog.Logger, opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profile path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		watcher:  fw,
		path:     abs,
		onChange: onChange,
		log:      log,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.watchLoop()
	return w, nil
}

func (w *Watcher) watchLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			p, err := LoadProfile(w.path)
			if err != nil {
				w.log.Warn().Err(err).Str("path", w.path).Msg("profile reload failed")
				if w.onError != nil {
					w.onError(err)
				}
				continue
			}
			w.log.Info().Str("profile", p.Name).Stringer("traits", p.Traits).Msg("profile reloaded")
			w.onChange(p)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("profile watcher error")
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}
