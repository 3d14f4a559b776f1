package sync

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/franz/mishmash/internal/util"
)

// SyncInterval is how long the watcher coalesces filesystem events before
// posting re-sync requests. Duplicate events within a window collapse.
const SyncInterval = 10 * time.Second

// WatchRequest asks the watcher to monitor a directory for a library.
type WatchRequest struct {
	Lib string
	Dir string
}

// SyncRequest tells the sync loop to re-sync a directory.
type SyncRequest struct {
	Lib string
	Dir string
}

// pendingSet coalesces dirty directories between flushes.
type pendingSet struct {
	dirs map[string]string
}

func newPendingSet() *pendingSet {
	return &pendingSet{dirs: make(map[string]string)}
}

func (p *pendingSet) add(lib, dir string) {
	p.dirs[dir] = lib
}

// flush drains the set, dropping directories that no longer exist. Output is
// sorted for deterministic re-sync order.
func (p *pendingSet) flush() []SyncRequest {
	var requests []SyncRequest
	for dir, lib := range p.dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			requests = append(requests, SyncRequest{Lib: lib, Dir: dir})
		}
		delete(p.dirs, dir)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].Dir < requests[j].Dir })
	return requests
}

// Watcher turns filesystem notifications into coalesced re-sync requests.
// The sync loop never shares a session with it; the two channels are the
// only contact surface.
type Watcher struct {
	In  chan WatchRequest
	Out chan SyncRequest

	fsw      *fsnotify.Watcher
	interval time.Duration
	watched  map[string]string // dir -> lib
	pending  *pendingSet
}

// NewWatcher creates a watcher. Call Run to start it.
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		In:       make(chan WatchRequest, 256),
		Out:      make(chan SyncRequest, 256),
		fsw:      fsw,
		interval: SyncInterval,
		watched:  make(map[string]string),
		pending:  newPendingSet(),
	}, nil
}

// Run processes watch requests and filesystem events until the context is
// cancelled, flushing the pending set every SyncInterval.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	defer w.teardown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-w.In:
			w.watch(req.Lib, req.Dir)
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			util.WarnLog("Watcher error: %v", err)
		case <-ticker.C:
			for _, req := range w.pending.flush() {
				select {
				case w.Out <- req:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

func (w *Watcher) watch(lib, dir string) {
	if _, ok := w.watched[dir]; ok {
		return
	}
	if err := w.fsw.Add(dir); err != nil {
		util.WarnLog("Failed to watch %s: %v", dir, err)
		return
	}
	w.watched[dir] = lib
	util.DebugLog("Watching %s (%s)", dir, lib)
}

func (w *Watcher) unwatch(dir string) {
	if _, ok := w.watched[dir]; !ok {
		return
	}
	w.fsw.Remove(dir)
	delete(w.watched, dir)
	util.DebugLog("Unwatching %s", dir)
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	const mask = fsnotify.Create | fsnotify.Write | fsnotify.Remove |
		fsnotify.Rename | fsnotify.Chmod
	if event.Op&mask == 0 {
		return
	}

	path := event.Name
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			// New album directory: watch it and sync its contents
			if lib, ok := w.libFor(path); ok {
				w.watch(lib, path)
				w.pending.add(lib, path)
			}
			return
		}
	}
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		if _, ok := w.watched[path]; ok {
			w.unwatch(path)
			w.markDirty(filepath.Dir(path))
			return
		}
	}

	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}
	w.markDirty(dir)
}

func (w *Watcher) markDirty(dir string) {
	if lib, ok := w.libFor(dir); ok {
		w.pending.add(lib, dir)
	}
}

// libFor resolves the library owning a path via its nearest watched ancestor.
func (w *Watcher) libFor(path string) (string, bool) {
	for p := path; ; {
		if lib, ok := w.watched[p]; ok {
			return lib, true
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", false
		}
		p = parent
	}
}

func (w *Watcher) teardown() {
	for dir := range w.watched {
		w.fsw.Remove(dir)
		delete(w.watched, dir)
	}
	w.fsw.Close()
}
