package referrals

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce batches rapid successive writes (editors and atomic
// renames produce several events per save) into one reload.
const reloadDebounce = 200 * time.Millisecond

// Watcher reloads a Network when its data file changes on disk.
//
// The parent directory is watched rather than the file itself so that
// atomic replace-by-rename, the usual way config files are updated,
// keeps working.
type Watcher struct {
	network  *Network
	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// Watch starts watching the network's data file. Close the returned
// Watcher to stop.
func Watch(network *Network) (*Watcher, error) {
	if network.path == "" {
		return nil, fmt.Errorf("network has no data file to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(network.path)
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		network: network,
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.run()

	slog.Info("watching referral data for changes", "path", network.path)
	return w, nil
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	var timer *time.Timer
	var timerC <-chan time.Time

	target := filepath.Clean(w.network.path)
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if err := w.network.Reload(); err != nil {
				// Keep serving the previous index on a bad write.
				slog.Warn("referral reload failed, keeping previous data", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("referral watcher error", "error", err)
		}
	}
}
