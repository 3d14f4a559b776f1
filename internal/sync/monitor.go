package sync

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/franz/mishmash/internal/util"
)

// Monitor starts the watcher over every directory of the given libraries and
// re-syncs directories as change notifications arrive. It blocks until the
// context is cancelled.
func (s *Syncer) Monitor(ctx context.Context, specs []LibrarySpec) error {
	watcher, err := NewWatcher()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	for _, spec := range specs {
		if !spec.Sync && !s.opts.Force {
			continue
		}
		excludes, err := compileExcludes(spec.Excludes)
		if err != nil {
			return err
		}
		for _, root := range spec.Paths {
			err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil || !d.IsDir() {
					return nil
				}
				if excluded(path, excludes) {
					return filepath.SkipDir
				}
				select {
				case watcher.In <- WatchRequest{Lib: spec.Name, Dir: path}:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
	}

	util.InfoLog("Monitoring for changes")
	for {
		select {
		case <-ctx.Done():
			return <-done
		case req := <-watcher.Out:
			util.InfoLog("Re-syncing %s (%s)", req.Dir, req.Lib)
			if err := s.SyncDirectory(req.Lib, req.Dir); err != nil {
				util.ErrorLog("Failed to re-sync %s: %v", req.Dir, err)
			}
		}
	}
}
