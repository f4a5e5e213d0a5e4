// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// THREAD DIRECTORY WATCHER
// =============================================================================

// ChangeHandler is invoked with the ids of externally modified threads.
// An empty id means the active-thread sidecar changed.
type ChangeHandler func(threadIDs []string)

// ThreadWatcher observes the thread directory for changes made by another
// process. Writes are last-write-wins across processes, so the watcher's
// job is to let this one reload instead of clobbering blindly.
type ThreadWatcher struct {
	dir      string
	handler  ChangeHandler
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewThreadWatcher creates a watcher over the store's directory.
func NewThreadWatcher(store *ThreadStore, debounce time.Duration, handler ChangeHandler) (*ThreadWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ThreadWatcher{
		dir:      store.BaseDir(),
		handler:  handler,
		watcher:  watcher,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts observing. Events are debounced so an atomic write's
// temp-file churn collapses into one notification.
func (tw *ThreadWatcher) Watch() error {
	if err := tw.watcher.Add(tw.dir); err != nil {
		return err
	}
	go tw.processEvents()
	go tw.processPending()
	return nil
}

// Close stops watching and releases resources.
func (tw *ThreadWatcher) Close() error {
	tw.cancel()
	return tw.watcher.Close()
}

func (tw *ThreadWatcher) processEvents() {
	for {
		select {
		case <-tw.ctx.Done():
			return

		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(event.Name)
			if strings.HasPrefix(name, ".tmp-") {
				continue // Our own atomic-write temp files
			}
			if name != activeFileName && !strings.HasSuffix(name, ".json") {
				continue
			}

			tw.mu.Lock()
			tw.pending[name] = time.Now()
			tw.mu.Unlock()

		case _, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (tw *ThreadWatcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-tw.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			tw.mu.Lock()
			var changed []string
			for name, at := range tw.pending {
				if now.Sub(at) >= tw.debounce {
					changed = append(changed, strings.TrimSuffix(name, ".json"))
					delete(tw.pending, name)
				}
			}
			tw.mu.Unlock()

			if len(changed) > 0 && tw.handler != nil {
				ids := make([]string, 0, len(changed))
				for _, name := range changed {
					if name == activeFileName {
						ids = append(ids, "")
					} else {
						ids = append(ids, name)
					}
				}
				tw.handler(ids)
			}
		}
	}
}
