package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/franz/mishmash/internal/art"
	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/tagread"
	"github.com/franz/mishmash/internal/util"
)

// LibrarySpec describes one library to sync: its catalog name, its filesystem
// roots, and exclude patterns applied to paths during the walk.
type LibrarySpec struct {
	Name     string
	Paths    []string
	Excludes []string
	Sync     bool
}

// Options tune a sync run.
type Options struct {
	Fast          bool
	NoPurge       bool
	Force         bool
	ResolveArtist ResolveArtistFunc
}

// Stats reports what one library pass did.
type Stats struct {
	Directories   int
	Files         int
	TracksAdded   int
	TracksUpdated int
	TracksSkipped int
	FilesSkipped  int
	Purge         catalog.PurgeResult
}

// Syncer drives the sync pipeline against one catalog store.
type Syncer struct {
	store *catalog.Store
	opts  Options

	// injectable for tests; defaults to the real tag reader
	readFile func(path string) (*tagread.AudioFile, error)
}

// New creates a syncer.
func New(store *catalog.Store, opts Options) *Syncer {
	return &Syncer{
		store:    store,
		opts:     opts,
		readFile: tagread.ReadFile,
	}
}

// directory is one unit of work: the audio and sidecar image files found
// under a single path.
type directory struct {
	path   string
	audio  []string
	images []string
}

// SyncLibrary runs the full pipeline for one library: walk the roots, sync
// each directory in its own transaction, then purge orphans.
func (s *Syncer) SyncLibrary(ctx context.Context, spec LibrarySpec) (*Stats, error) {
	if !spec.Sync && !s.opts.Force {
		util.InfoLog("Library %s has sync disabled, skipping", spec.Name)
		return &Stats{}, nil
	}

	libID, err := s.ensureLibrary(spec.Name)
	if err != nil {
		return nil, err
	}

	excludes, err := compileExcludes(spec.Excludes)
	if err != nil {
		return nil, err
	}

	util.InfoLog("Syncing library %s", spec.Name)
	dirs, err := collectDirectories(ctx, spec.Paths, excludes)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	var bar *progressbar.ProgressBar
	if util.IsTerminal(os.Stdout.Fd()) && !util.IsQuiet() {
		bar = progressbar.NewOptions(len(dirs),
			progressbar.OptionSetDescription("Syncing "+spec.Name),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(200*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, dir := range dirs {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if err := s.syncDirectory(libID, dir, stats); err != nil {
			// Per-directory errors must not poison the library sync
			util.ErrorLog("Failed to sync %s: %v", dir.path, err)
		}
		stats.Directories++
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	err = s.store.Transaction(func(sess *catalog.Session) error {
		now := time.Now()
		if err := sess.TouchLibraryLastSync(libID, now); err != nil {
			return err
		}
		return sess.TouchLastSync(now)
	})
	if err != nil {
		return nil, err
	}

	if !s.opts.NoPurge {
		err = s.store.Transaction(func(sess *catalog.Session) error {
			result, err := sess.PurgeOrphans(nil)
			if err != nil {
				return err
			}
			stats.Purge = result
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	util.SuccessLog("Synced %s: %d directories, %d files (%d added, %d updated, %d unchanged)",
		spec.Name, stats.Directories, stats.Files,
		stats.TracksAdded, stats.TracksUpdated, stats.TracksSkipped)
	return stats, nil
}

// SyncDirectory re-syncs a single directory, used by monitor mode.
func (s *Syncer) SyncDirectory(libName, path string) error {
	libID, err := s.ensureLibrary(libName)
	if err != nil {
		return err
	}

	dir := directory{path: path}
	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		full := filepath.Join(path, entry.Name())
		switch {
		case tagread.IsAudioFile(full):
			dir.audio = append(dir.audio, full)
		case art.IsImageFile(full):
			dir.images = append(dir.images, full)
		}
	}

	stats := &Stats{}
	return s.syncDirectory(libID, dir, stats)
}

// syncDirectory processes one directory inside one transaction.
func (s *Syncer) syncDirectory(libID int64, dir directory, stats *Stats) error {
	var views []*tagread.AudioFile
	for _, path := range dir.audio {
		audio, err := s.readFile(path)
		if err != nil {
			util.WarnLog("Skipping unreadable file %s: %v", path, err)
			stats.FilesSkipped++
			continue
		}
		views = append(views, audio)
	}
	if len(views) == 0 {
		return nil
	}

	albumType := Classify(views)
	if albumType == "" {
		albumType = catalog.TypeLP
	}
	isVarious := albumType == catalog.TypeVarious

	return s.store.Transaction(func(sess *catalog.Session) error {
		r := &resolver{
			sess:          sess,
			libID:         libID,
			resolveArtist: s.opts.ResolveArtist,
		}

		var dirAlbum *catalog.Album
		var dirArtist *catalog.Artist

		for _, view := range views {
			stats.Files++
			if view.Tag.Artist == "" {
				util.WarnLog("Skipping file with no artist tag: %s", view.Path)
				stats.FilesSkipped++
				continue
			}

			artist, err := r.artist(view.Tag.Artist, Origin{
				City:    view.Tag.OriginCity,
				State:   view.Tag.OriginState,
				Country: view.Tag.OriginCountry,
			})
			if errors.Is(err, ErrResolveAbort) {
				util.WarnLog("Ambiguous artist %q, skipping %s", view.Tag.Artist, view.Path)
				stats.FilesSkipped++
				continue
			}
			if err != nil {
				return err
			}

			albumArtist := artist
			switch {
			case isVarious:
				albumArtist, err = sess.VariousArtists()
			case view.Tag.AlbumArtist != "" && view.Tag.AlbumArtist != view.Tag.Artist:
				albumArtist, err = r.artist(view.Tag.AlbumArtist, Origin{})
			}
			if errors.Is(err, ErrResolveAbort) {
				util.WarnLog("Ambiguous album artist %q, skipping %s",
					view.Tag.AlbumArtist, view.Path)
				stats.FilesSkipped++
				continue
			}
			if err != nil {
				return err
			}

			var albumID int64
			if view.Tag.Album != "" {
				album, err := r.album(&view.Tag, albumArtist, albumType)
				if err != nil {
					return err
				}
				albumID = album.ID
				if dirAlbum == nil {
					dirAlbum = album
				}
			}
			if dirArtist == nil {
				dirArtist = artist
			}

			_, status, err := r.track(view, artist, albumID, s.opts.Fast)
			if err != nil {
				return err
			}
			switch status {
			case trackAdded:
				stats.TracksAdded++
			case trackUpdated:
				stats.TracksUpdated++
			default:
				stats.TracksSkipped++
			}

			if err := s.attachTagImages(sess, view, artist, albumID); err != nil {
				return err
			}
		}

		return s.attachSidecarImages(sess, dir.images, dirAlbum, dirArtist)
	})
}

// attachTagImages stores artwork embedded in the file's tag.
func (s *Syncer) attachTagImages(sess *catalog.Session, view *tagread.AudioFile,
	artist *catalog.Artist, albumID int64) error {

	for _, pic := range view.Tag.Pictures {
		img, err := art.FromPicture(pic)
		if err != nil {
			util.WarnLog("Skipping bad image in %s: %v", view.Path, err)
			continue
		}
		if img == nil {
			util.WarnLog("Skipping unmapped picture type %q in %s", pic.Type, view.Path)
			continue
		}

		var owner catalog.ImageOwner
		if art.IsAlbumRole(img.Role) {
			if albumID == 0 {
				continue
			}
			album, err := sess.AlbumByID(albumID)
			if err != nil {
				return err
			}
			owner = album
		} else {
			owner = artist
		}
		if err := art.SyncImage(sess, img, owner); err != nil {
			return err
		}
	}
	return nil
}

// attachSidecarImages stores image files living next to the audio. Album
// covers go to the directory's album; logos and portraits to its artist.
func (s *Syncer) attachSidecarImages(sess *catalog.Session, paths []string,
	album *catalog.Album, artist *catalog.Artist) error {

	for _, path := range paths {
		role, ok := art.SidecarRole(path)
		if !ok {
			continue
		}

		var owner catalog.ImageOwner
		if art.IsAlbumRole(role) {
			if album == nil {
				continue
			}
			owner = album
		} else {
			if album != nil {
				albumArtist, err := sess.ArtistByID(album.ArtistID)
				if err != nil {
					return err
				}
				if albumArtist != nil && !albumArtist.IsVariousArtist() {
					artist = albumArtist
				}
			}
			if artist == nil {
				continue
			}
			owner = artist
		}

		img, err := art.FromFile(path, role)
		if err != nil {
			util.WarnLog("Skipping bad image %s: %v", path, err)
			continue
		}
		if err := art.SyncImage(sess, img, owner); err != nil {
			return err
		}
	}
	return nil
}

// ensureLibrary returns the library row id, creating the row on first sync.
func (s *Syncer) ensureLibrary(name string) (int64, error) {
	var libID int64
	err := s.store.Transaction(func(sess *catalog.Session) error {
		lib, err := sess.LibraryByName(name)
		if err != nil {
			return err
		}
		if lib == nil {
			lib = &catalog.Library{Name: name}
			if err := sess.InsertLibrary(lib); err != nil {
				return err
			}
			util.InfoLog("Creating library: %s", name)
		}
		libID = lib.ID
		return nil
	})
	return libID, err
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	var excludes []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, re)
	}
	return excludes, nil
}

func excluded(path string, excludes []*regexp.Regexp) bool {
	for _, re := range excludes {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// collectDirectories walks the roots depth-first, grouping audio and sidecar
// image files per directory.
func collectDirectories(ctx context.Context, roots []string, excludes []*regexp.Regexp) ([]directory, error) {
	byPath := make(map[string]*directory)
	var order []string

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if err != nil {
				util.WarnLog("Error accessing %s: %v", path, err)
				return nil
			}
			if excluded(path, excludes) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}

			parent := filepath.Dir(path)
			dir, ok := byPath[parent]
			if !ok {
				dir = &directory{path: parent}
				byPath[parent] = dir
				order = append(order, parent)
			}
			switch {
			case tagread.IsAudioFile(path):
				dir.audio = append(dir.audio, path)
			case art.IsImageFile(path):
				dir.images = append(dir.images, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	dirs := make([]directory, 0, len(order))
	for _, path := range order {
		dir := byPath[path]
		sort.Strings(dir.audio)
		if len(dir.audio) > 0 {
			dirs = append(dirs, *dir)
		}
	}
	return dirs, nil
}
