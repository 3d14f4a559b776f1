package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/franz/mishmash/internal/util"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Init(false); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store
}

func addTestArtist(t *testing.T, sess *Session, name, city, state, country string) *Artist {
	t.Helper()
	a, err := NewArtist(name, MainLibID)
	if err != nil {
		t.Fatalf("failed to build artist: %v", err)
	}
	if country != "" {
		if err := a.SetOrigin(city, state, country); err != nil {
			t.Fatalf("failed to set origin: %v", err)
		}
	}
	if err := sess.InsertArtist(a); err != nil {
		t.Fatalf("failed to insert artist: %v", err)
	}
	return a
}

func addTestTrack(t *testing.T, sess *Session, path string, artistID, albumID int64) *Track {
	t.Helper()
	track := &Track{
		Path:      path,
		Title:     path,
		DateAdded: time.Now(),
		ArtistID:  artistID,
		AlbumID:   albumID,
		LibID:     MainLibID,
	}
	if err := sess.InsertTrack(track); err != nil {
		t.Fatalf("failed to insert track: %v", err)
	}
	return track
}

func TestInitProvisionsWellKnownRows(t *testing.T) {
	store := newTestStore(t)

	if err := store.CheckSchema(); err != nil {
		t.Fatalf("CheckSchema after Init: %v", err)
	}

	err := store.Transaction(func(sess *Session) error {
		nullLib, err := sess.LibraryByName(NullLibName)
		if err != nil {
			return err
		}
		if nullLib == nil || nullLib.ID != NullLibID {
			t.Errorf("null library = %+v, want id %d", nullLib, NullLibID)
		}

		mainLib, err := sess.LibraryByName(MainLibName)
		if err != nil {
			return err
		}
		if mainLib == nil || mainLib.ID != MainLibID {
			t.Errorf("main library = %+v, want id %d", mainLib, MainLibID)
		}

		va, err := sess.VariousArtists()
		if err != nil {
			return err
		}
		if va.Name != VariousArtistsName || va.LibID != NullLibID {
			t.Errorf("various artists = %+v", va)
		}
		if !va.IsVariousArtist() {
			t.Error("IsVariousArtist() = false for the sentinel")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	if err := store.Init(false); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if err := store.Init(true); err != nil {
		t.Fatalf("Init with dropAll: %v", err)
	}

	version, err := store.SchemaVersion()
	if err != nil {
		t.Fatal(err)
	}
	if version != currentSchemaVersion {
		t.Errorf("schema version = %q, want %q", version, currentSchemaVersion)
	}
}

func TestCheckSchemaMissing(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	err = store.CheckSchema()
	if !errors.Is(err, util.ErrMissingSchema) {
		t.Errorf("CheckSchema on empty db = %v, want ErrMissingSchema", err)
	}
}

func TestLibrariesExcludeNullSentinel(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(sess *Session) error {
		if err := sess.InsertLibrary(&Library{Name: "Mixes"}); err != nil {
			return err
		}

		libs, err := sess.Libraries(nil)
		if err != nil {
			return err
		}
		if len(libs) != 2 {
			t.Fatalf("Libraries(nil) returned %d rows, want 2", len(libs))
		}
		if libs[0].Name != MainLibName || libs[1].Name != "Mixes" {
			t.Errorf("libraries = %q, %q", libs[0].Name, libs[1].Name)
		}

		filtered, err := sess.Libraries([]string{"Mixes"})
		if err != nil {
			return err
		}
		if len(filtered) != 1 || filtered[0].Name != "Mixes" {
			t.Errorf("filtered libraries = %+v", filtered)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

// Two artists may share a name when their origins differ. A lookup without
// origin data must return both so the caller can disambiguate; a lookup with
// an origin must return exactly the matching row.
func TestFindArtistsHomonyms(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(sess *Session) error {
		liverpool := addTestArtist(t, sess, "Hurricane", "Liverpool", "", "GBR")
		addTestArtist(t, sess, "Hurricane", "Osaka", "", "JPN")

		both, err := sess.FindArtists("Hurricane", "", "", "", MainLibID)
		if err != nil {
			return err
		}
		if len(both) != 0 {
			t.Errorf("origin-less lookup matched %d rows, want 0 exact", len(both))
		}

		byName, err := sess.ArtistsByName("Hurricane", MainLibID)
		if err != nil {
			return err
		}
		if len(byName) != 2 {
			t.Errorf("ArtistsByName matched %d rows, want 2", len(byName))
		}

		one, err := sess.FindArtists("Hurricane", "Liverpool", "", "GBR", MainLibID)
		if err != nil {
			return err
		}
		if len(one) != 1 || one[0].ID != liverpool.ID {
			t.Errorf("origin lookup = %+v, want id %d", one, liverpool.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestFindArtistsNullOriginMatch(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(sess *Session) error {
		plain := addTestArtist(t, sess, "Quicksand", "", "", "")

		found, err := sess.FindArtists("Quicksand", "", "", "", MainLibID)
		if err != nil {
			return err
		}
		if len(found) != 1 || found[0].ID != plain.ID {
			t.Errorf("lookup = %+v, want id %d", found, plain.ID)
		}
		if found[0].OriginCountry != "" {
			t.Errorf("origin country = %q, want empty", found[0].OriginCountry)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestFindAlbumDateCascade(t *testing.T) {
	store := newTestStore(t)

	release, _ := ParseDate("2001")
	original, _ := ParseDate("1994")
	reissue, _ := ParseDate("2010")

	err := store.Transaction(func(sess *Session) error {
		artist := addTestArtist(t, sess, "Low Tide", "", "", "")

		album := &Album{
			Title:               "Undertow",
			DateAdded:           time.Now(),
			ReleaseDate:         release,
			OriginalReleaseDate: original,
			ArtistID:            artist.ID,
			LibID:               MainLibID,
		}
		if err := sess.InsertAlbum(album); err != nil {
			return err
		}

		// A reissue carries a new release date but the same original date.
		found, err := sess.FindAlbum("Undertow", artist.ID, MainLibID,
			reissue, original, PartialDate{})
		if err != nil {
			return err
		}
		if found == nil || found.ID != album.ID {
			t.Errorf("original-date match = %+v, want id %d", found, album.ID)
		}

		// No original date in the tags falls through to the release date.
		found, err = sess.FindAlbum("Undertow", artist.ID, MainLibID,
			release, PartialDate{}, PartialDate{})
		if err != nil {
			return err
		}
		if found == nil || found.ID != album.ID {
			t.Errorf("release-date match = %+v, want id %d", found, album.ID)
		}

		// A different release with no shared dates is a distinct album.
		found, err = sess.FindAlbum("Undertow", artist.ID, MainLibID,
			reissue, PartialDate{}, PartialDate{})
		if err != nil {
			return err
		}
		if found != nil {
			t.Errorf("unrelated dates matched album %d", found.ID)
		}

		if album.Type != TypeLP {
			t.Errorf("inserted album type = %q, want default lp", album.Type)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestPurgeOrphans(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(sess *Session) error {
		artist := addTestArtist(t, sess, "Cinder Block", "", "", "")
		keeper := addTestArtist(t, sess, "Keeper", "", "", "")

		album := &Album{Title: "Rubble", DateAdded: time.Now(),
			ArtistID: artist.ID, LibID: MainLibID}
		if err := sess.InsertAlbum(album); err != nil {
			return err
		}

		addTestTrack(t, sess, "/music/gone/01.mp3", artist.ID, album.ID)
		addTestTrack(t, sess, "/music/gone/02.mp3", artist.ID, album.ID)
		live := addTestTrack(t, sess, "/music/here/01.mp3", keeper.ID, 0)

		result, err := sess.PurgeOrphans(func(path string) bool {
			return path == live.Path
		})
		if err != nil {
			return err
		}

		if result.TracksDeleted != 2 {
			t.Errorf("tracks deleted = %d, want 2", result.TracksDeleted)
		}
		if result.AlbumsDeleted != 1 {
			t.Errorf("albums deleted = %d, want 1", result.AlbumsDeleted)
		}
		if result.ArtistsDeleted != 1 {
			t.Errorf("artists deleted = %d, want 1", result.ArtistsDeleted)
		}

		gone, err := sess.ArtistByID(artist.ID)
		if err != nil {
			return err
		}
		if gone != nil {
			t.Error("orphaned artist survived the purge")
		}

		kept, err := sess.ArtistByID(keeper.ID)
		if err != nil {
			return err
		}
		if kept == nil {
			t.Error("artist with a live track was purged")
		}

		va, err := sess.ArtistByID(VariousArtistsID)
		if err != nil {
			return err
		}
		if va == nil {
			t.Error("various artists sentinel was purged")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestRelocateTracks(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(sess *Session) error {
		artist := addTestArtist(t, sess, "Mover", "", "", "")
		addTestTrack(t, sess, "/mnt/old/a/01.mp3", artist.ID, 0)
		addTestTrack(t, sess, "/mnt/old/b/01.mp3", artist.ID, 0)
		addTestTrack(t, sess, "/mnt/older/c/01.mp3", artist.ID, 0)

		n, err := sess.RelocateTracks("/mnt/old", "/srv/new")
		if err != nil {
			return err
		}
		if n != 2 {
			t.Errorf("relocated %d tracks, want 2", n)
		}

		moved, err := sess.TrackByPath("/srv/new/a/01.mp3", MainLibID)
		if err != nil {
			return err
		}
		if moved == nil {
			t.Error("relocated track not found at new path")
		}

		// "/mnt/older" is not under "/mnt/old/" and must not move.
		untouched, err := sess.TrackByPath("/mnt/older/c/01.mp3", MainLibID)
		if err != nil {
			return err
		}
		if untouched == nil {
			t.Error("sibling-prefix track was relocated")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(sess *Session) error {
		artist := addTestArtist(t, sess, "Deadweather", "", "", "")

		album := &Album{Title: "Storm Warning", DateAdded: time.Now(),
			ArtistID: artist.ID, LibID: MainLibID}
		if err := sess.InsertAlbum(album); err != nil {
			return err
		}
		track := addTestTrack(t, sess, "/music/storm/01.mp3", artist.ID, album.ID)
		track.SetTitle("Gale Force")
		if err := sess.UpdateTrack(track); err != nil {
			return err
		}

		results, err := sess.Search("dead weather")
		if err != nil {
			return err
		}
		if len(results.Artists) != 1 {
			t.Errorf("artist matches = %d, want 1 (flattened query)", len(results.Artists))
		}

		results, err = sess.Search("storm")
		if err != nil {
			return err
		}
		if len(results.Albums) != 1 {
			t.Errorf("album matches = %d, want 1", len(results.Albums))
		}

		results, err = sess.Search("gale")
		if err != nil {
			return err
		}
		if len(results.Tracks) != 1 {
			t.Errorf("track matches = %d, want 1", len(results.Tracks))
		}

		results, err = sess.Search("various")
		if err != nil {
			return err
		}
		if len(results.Artists) != 0 {
			t.Error("search returned the various artists sentinel")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCountsForLibrary(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(sess *Session) error {
		artist := addTestArtist(t, sess, "Tally", "", "", "")
		addTestTrack(t, sess, "/music/tally/01.mp3", artist.ID, 0)
		if _, err := sess.GetOrCreateTag("post-rock", MainLibID); err != nil {
			return err
		}

		counts, err := sess.CountsForLibrary(MainLibID)
		if err != nil {
			return err
		}
		if counts.Artists != 1 || counts.Tracks != 1 || counts.Tags != 1 {
			t.Errorf("counts = %+v", counts)
		}
		if counts.Albums != 0 {
			t.Errorf("album count = %d, want 0", counts.Albums)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestImagesAttachAndRemove(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(sess *Session) error {
		artist := addTestArtist(t, sess, "Framed", "", "", "")

		img := &Image{
			Role:     RoleLogo,
			MimeType: "image/png",
			MD5:      "d41d8cd98f00b204e9800998ecf8427e",
			Size:     128,
			Data:     []byte{0x89, 0x50, 0x4e, 0x47},
		}
		if err := sess.AddImage(img, artist); err != nil {
			return err
		}

		images, err := sess.ImagesFor(artist)
		if err != nil {
			return err
		}
		if len(images) != 1 || images[0].Role != RoleLogo {
			t.Fatalf("images = %+v", images)
		}
		if images[0].Data != nil {
			t.Error("row query loaded binary data eagerly")
		}

		if err := sess.LoadImageData(images[0]); err != nil {
			return err
		}
		if len(images[0].Data) != 4 {
			t.Errorf("loaded %d data bytes, want 4", len(images[0].Data))
		}

		if err := sess.RemoveImage(img.ID, artist); err != nil {
			return err
		}
		images, err = sess.ImagesFor(artist)
		if err != nil {
			return err
		}
		if len(images) != 0 {
			t.Errorf("images after remove = %+v", images)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestAddImageInvalidMD5(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(sess *Session) error {
		artist := addTestArtist(t, sess, "Checksum", "", "", "")
		img := &Image{Role: RoleFront, MimeType: "image/jpeg", MD5: "nope"}
		if err := sess.AddImage(img, artist); err == nil {
			t.Error("AddImage accepted an invalid md5")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestTrackSinglesAndVariousAppearances(t *testing.T) {
	store := newTestStore(t)

	err := store.Transaction(func(sess *Session) error {
		artist := addTestArtist(t, sess, "Guest Spot", "", "", "")

		own := &Album{Title: "Own Album", DateAdded: time.Now(),
			ArtistID: artist.ID, LibID: MainLibID}
		if err := sess.InsertAlbum(own); err != nil {
			return err
		}
		comp := &Album{Title: "Scene Sampler", Type: TypeVarious,
			DateAdded: time.Now(), ArtistID: VariousArtistsID, LibID: MainLibID}
		if err := sess.InsertAlbum(comp); err != nil {
			return err
		}

		addTestTrack(t, sess, "/m/own/01.mp3", artist.ID, own.ID)
		addTestTrack(t, sess, "/m/single.mp3", artist.ID, 0)
		addTestTrack(t, sess, "/m/comp/07.mp3", artist.ID, comp.ID)

		singles, err := sess.TrackSingles(artist.ID)
		if err != nil {
			return err
		}
		if len(singles) != 2 {
			t.Errorf("singles = %d tracks, want 2", len(singles))
		}

		appearances, err := sess.VariousAlbumsFeaturing(artist.ID)
		if err != nil {
			return err
		}
		if len(appearances) != 1 || appearances[0].ID != comp.ID {
			t.Errorf("various appearances = %+v", appearances)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
