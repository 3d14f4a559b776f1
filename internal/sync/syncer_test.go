package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/tagread"
)

func newSyncStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Init(false); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store
}

// fakeLibrary writes placeholder audio files and returns a reader that serves
// scripted views keyed by file base name.
type fakeLibrary struct {
	root  string
	views map[string]*tagread.AudioFile
}

func newFakeLibrary(t *testing.T) *fakeLibrary {
	t.Helper()
	return &fakeLibrary{
		root:  t.TempDir(),
		views: make(map[string]*tagread.AudioFile),
	}
}

func (l *fakeLibrary) addFile(t *testing.T, relPath, artist, album, title string, trackNum int) string {
	t.Helper()
	path := filepath.Join(l.root, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	v := &tagread.AudioFile{Path: path, MetadataFormat: "ID3v2.4"}
	v.Info.SizeBytes = 5
	v.Tag.Artist = artist
	v.Tag.Album = album
	v.Tag.Title = title
	v.Tag.TrackNum = trackNum
	l.views[path] = v
	return path
}

func (l *fakeLibrary) read(path string) (*tagread.AudioFile, error) {
	v, ok := l.views[path]
	if !ok {
		return nil, fmt.Errorf("unreadable file: %s", path)
	}
	return v, nil
}

func (l *fakeLibrary) spec() LibrarySpec {
	return LibrarySpec{Name: "Music", Paths: []string{l.root}, Sync: true}
}

func syncOnce(t *testing.T, store *catalog.Store, lib *fakeLibrary, opts Options) *Stats {
	t.Helper()
	s := New(store, opts)
	s.readFile = lib.read

	stats, err := s.SyncLibrary(context.Background(), lib.spec())
	if err != nil {
		t.Fatalf("SyncLibrary: %v", err)
	}
	return stats
}

func TestSyncSingleArtistAlbum(t *testing.T) {
	store := newSyncStore(t)
	lib := newFakeLibrary(t)
	for i := 1; i <= 10; i++ {
		lib.addFile(t, fmt.Sprintf("Converge/Jane Doe/%02d.mp3", i),
			"Converge", "Jane Doe", fmt.Sprintf("Track %d", i), i)
	}

	stats := syncOnce(t, store, lib, Options{})
	if stats.TracksAdded != 10 {
		t.Errorf("tracks added = %d, want 10", stats.TracksAdded)
	}

	err := store.Transaction(func(sess *catalog.Session) error {
		artists, err := sess.ArtistsByName("Converge", 0)
		if err != nil {
			return err
		}
		if len(artists) != 1 {
			t.Fatalf("artists = %d, want 1", len(artists))
		}

		albums, err := sess.AlbumsByArtist(artists[0].ID)
		if err != nil {
			return err
		}
		if len(albums) != 1 {
			t.Fatalf("albums = %d, want 1", len(albums))
		}
		if albums[0].Type != catalog.TypeLP {
			t.Errorf("album type = %q, want lp", albums[0].Type)
		}

		tracks, err := sess.TracksByAlbum(albums[0].ID)
		if err != nil {
			return err
		}
		if len(tracks) != 10 {
			t.Errorf("tracks = %d, want 10", len(tracks))
		}
		for i, track := range tracks {
			if track.TrackNum != i+1 {
				t.Errorf("track %d has num %d", i, track.TrackNum)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSyncVariousArtistsCompilation(t *testing.T) {
	store := newSyncStore(t)
	lib := newFakeLibrary(t)
	artists := []string{"NOFX", "Rancid", "Pennywise", "Bad Religion",
		"Pulley", "Millencolin", "Voodoo Glow Skulls", "Osker",
		"The Bouncing Souls", "Straight Faced"}
	for i, artist := range artists {
		lib.addFile(t, fmt.Sprintf("Punk-O-Rama/%02d.mp3", i+1),
			artist, "Punk-O-Rama", fmt.Sprintf("Track %d", i+1), i+1)
	}

	syncOnce(t, store, lib, Options{})

	err := store.Transaction(func(sess *catalog.Session) error {
		va, err := sess.VariousArtists()
		if err != nil {
			return err
		}
		albums, err := sess.AlbumsByArtist(va.ID)
		if err != nil {
			return err
		}
		if len(albums) != 1 || albums[0].Type != catalog.TypeVarious {
			t.Fatalf("various albums = %+v", albums)
		}

		tracks, err := sess.TracksByAlbum(albums[0].ID)
		if err != nil {
			return err
		}
		if len(tracks) != 10 {
			t.Fatalf("tracks = %d, want 10", len(tracks))
		}
		// Each track keeps its own artist; only the album is credited
		// to the sentinel.
		for _, track := range tracks {
			if track.ArtistID == va.ID {
				t.Errorf("track %s credited to various artists", track.Path)
			}
		}

		all, err := sess.AllArtists(0)
		if err != nil {
			return err
		}
		if len(all) != 10 {
			t.Errorf("artist rows = %d, want 10", len(all))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSyncFastModeSkipsUnchanged(t *testing.T) {
	store := newSyncStore(t)
	lib := newFakeLibrary(t)
	for i := 1; i <= 3; i++ {
		lib.addFile(t, fmt.Sprintf("Quicksand/Slip/%02d.mp3", i),
			"Quicksand", "Slip", fmt.Sprintf("Track %d", i), i)
	}

	first := syncOnce(t, store, lib, Options{Fast: true})
	if first.TracksAdded != 3 {
		t.Fatalf("first pass added %d, want 3", first.TracksAdded)
	}

	second := syncOnce(t, store, lib, Options{Fast: true})
	if second.TracksSkipped != 3 {
		t.Errorf("second pass skipped %d, want 3", second.TracksSkipped)
	}
	if second.TracksAdded != 0 || second.TracksUpdated != 0 {
		t.Errorf("second pass wrote rows: %+v", second)
	}

	// Without fast mode the rows are rewritten in place.
	third := syncOnce(t, store, lib, Options{})
	if third.TracksUpdated != 3 {
		t.Errorf("normal pass updated %d, want 3", third.TracksUpdated)
	}
}

func TestSyncPurgesDeletedFiles(t *testing.T) {
	store := newSyncStore(t)
	lib := newFakeLibrary(t)
	for i := 1; i <= 3; i++ {
		lib.addFile(t, fmt.Sprintf("Osker/Idle Will Kill/%02d.mp3", i),
			"Osker", "Idle Will Kill", fmt.Sprintf("Track %d", i), i)
	}

	syncOnce(t, store, lib, Options{})

	if err := os.RemoveAll(filepath.Join(lib.root, "Osker")); err != nil {
		t.Fatal(err)
	}
	stats := syncOnce(t, store, lib, Options{})

	if stats.Purge.TracksDeleted != 3 {
		t.Errorf("purged tracks = %d, want 3", stats.Purge.TracksDeleted)
	}
	if stats.Purge.AlbumsDeleted != 1 || stats.Purge.ArtistsDeleted != 1 {
		t.Errorf("purge = %+v", stats.Purge)
	}
}

func TestSyncNoPromptSkipsAmbiguous(t *testing.T) {
	store := newSyncStore(t)

	// Two homonym rows, as split-artists would leave them.
	err := store.Transaction(func(sess *catalog.Session) error {
		for i := 0; i < 2; i++ {
			a, err := catalog.NewArtist("Converge", catalog.MainLibID)
			if err != nil {
				return err
			}
			if err := sess.InsertArtist(a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	lib := newFakeLibrary(t)
	lib.addFile(t, "Converge/Jane Doe/01.mp3", "Converge", "Jane Doe", "Concubine", 1)

	stats := syncOnce(t, store, lib, Options{ResolveArtist: NoPromptResolver})
	if stats.FilesSkipped != 1 {
		t.Errorf("files skipped = %d, want 1", stats.FilesSkipped)
	}
	if stats.TracksAdded != 0 {
		t.Errorf("tracks added = %d, want 0", stats.TracksAdded)
	}
}

func TestSyncDisambiguationStickyPerDirectory(t *testing.T) {
	store := newSyncStore(t)

	var wantID int64
	err := store.Transaction(func(sess *catalog.Session) error {
		for i := 0; i < 2; i++ {
			a, err := catalog.NewArtist("Converge", catalog.MainLibID)
			if err != nil {
				return err
			}
			if err := sess.InsertArtist(a); err != nil {
				return err
			}
			if i == 1 {
				wantID = a.ID
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	lib := newFakeLibrary(t)
	for i := 1; i <= 4; i++ {
		lib.addFile(t, fmt.Sprintf("Converge/Jane Doe/%02d.mp3", i),
			"Converge", "Jane Doe", fmt.Sprintf("Track %d", i), i)
	}

	calls := 0
	resolve := func(name string, candidates []*catalog.Artist, libID int64) (*catalog.Artist, error) {
		calls++
		for _, c := range candidates {
			if c.ID == wantID {
				return c, nil
			}
		}
		t.Fatalf("candidate %d not offered", wantID)
		return nil, nil
	}

	stats := syncOnce(t, store, lib, Options{ResolveArtist: resolve})
	if calls != 1 {
		t.Errorf("callback invoked %d times, want 1 (sticky per directory)", calls)
	}
	if stats.TracksAdded != 4 {
		t.Errorf("tracks added = %d, want 4", stats.TracksAdded)
	}

	err = store.Transaction(func(sess *catalog.Session) error {
		tracks, err := sess.TracksByArtist(wantID)
		if err != nil {
			return err
		}
		if len(tracks) != 4 {
			t.Errorf("chosen artist has %d tracks, want 4", len(tracks))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSyncExcludes(t *testing.T) {
	store := newSyncStore(t)
	lib := newFakeLibrary(t)
	lib.addFile(t, "Keep/Album/01.mp3", "Keeper", "Album", "One", 1)
	lib.addFile(t, "Incoming/Album/01.mp3", "Dropped", "Album", "One", 1)

	spec := lib.spec()
	spec.Excludes = []string{`/Incoming(/|$)`}

	s := New(store, Options{})
	s.readFile = lib.read
	stats, err := s.SyncLibrary(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TracksAdded != 1 {
		t.Errorf("tracks added = %d, want 1", stats.TracksAdded)
	}

	err = store.Transaction(func(sess *catalog.Session) error {
		dropped, err := sess.ArtistsByName("Dropped", 0)
		if err != nil {
			return err
		}
		if len(dropped) != 0 {
			t.Error("excluded directory was synced")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSyncDisabledLibrary(t *testing.T) {
	store := newSyncStore(t)
	lib := newFakeLibrary(t)
	lib.addFile(t, "A/B/01.mp3", "A", "B", "One", 1)

	spec := lib.spec()
	spec.Sync = false

	s := New(store, Options{})
	s.readFile = lib.read
	stats, err := s.SyncLibrary(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Directories != 0 {
		t.Error("disabled library was synced")
	}

	// --force overrides the flag.
	s = New(store, Options{Force: true})
	s.readFile = lib.read
	stats, err = s.SyncLibrary(context.Background(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if stats.TracksAdded != 1 {
		t.Errorf("forced sync added %d, want 1", stats.TracksAdded)
	}
}
