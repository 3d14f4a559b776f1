package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/franz/mishmash/internal/catalog"
)

type libraryJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LastSync string `json:"last_sync,omitempty"`
	Artists  int    `json:"artists"`
	Albums   int    `json:"albums"`
	Tracks   int    `json:"tracks"`
	Tags     int    `json:"tags"`
}

type artistJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	SortName string `json:"sort_name"`
	Origin   string `json:"origin,omitempty"`
	LibID    int64  `json:"lib_id"`
}

type albumJSON struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	Date     string `json:"date,omitempty"`
	ArtistID int64  `json:"artist_id"`
	LibID    int64  `json:"lib_id"`
}

type trackJSON struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Path     string  `json:"path"`
	TrackNum int     `json:"track_num,omitempty"`
	TimeSecs float64 `json:"time_secs,omitempty"`
	ArtistID int64   `json:"artist_id"`
	AlbumID  int64   `json:"album_id,omitempty"`
}

type artistDetailJSON struct {
	artistJSON
	Albums  []albumJSON `json:"albums"`
	Singles []trackJSON `json:"singles"`
}

type albumDetailJSON struct {
	albumJSON
	Tracks []trackJSON `json:"tracks"`
}

type searchJSON struct {
	Artists []artistJSON `json:"artists"`
	Albums  []albumJSON  `json:"albums"`
	Tracks  []trackJSON  `json:"tracks"`
}

func artistView(a *catalog.Artist) artistJSON {
	return artistJSON{
		ID:       a.ID,
		Name:     a.Name,
		SortName: a.SortName,
		Origin:   a.Origin(),
		LibID:    a.LibID,
	}
}

func albumView(a *catalog.Album) albumJSON {
	return albumJSON{
		ID:       a.ID,
		Title:    a.Title,
		Type:     a.Type,
		Date:     catalog.BestDate(a).String(),
		ArtistID: a.ArtistID,
		LibID:    a.LibID,
	}
}

func trackView(t *catalog.Track) trackJSON {
	return trackJSON{
		ID:       t.ID,
		Title:    t.Title,
		Path:     t.Path,
		TrackNum: t.TrackNum,
		TimeSecs: t.TimeSecs,
		ArtistID: t.ArtistID,
		AlbumID:  t.AlbumID,
	}
}

func artistViews(artists []*catalog.Artist) []artistJSON {
	out := make([]artistJSON, len(artists))
	for i, a := range artists {
		out[i] = artistView(a)
	}
	return out
}

func albumViews(albums []*catalog.Album) []albumJSON {
	out := make([]albumJSON, len(albums))
	for i, a := range albums {
		out[i] = albumView(a)
	}
	return out
}

func trackViews(tracks []*catalog.Track) []trackJSON {
	out := make([]trackJSON, len(tracks))
	for i, t := range tracks {
		out[i] = trackView(t)
	}
	return out
}

// libParam resolves the optional ?lib= query to a library id. Zero means all
// libraries; a negative return means the name did not resolve.
func libParam(sess *catalog.Session, r *http.Request) (int64, error) {
	name := r.URL.Query().Get("lib")
	if name == "" {
		return 0, nil
	}
	lib, err := sess.LibraryByName(name)
	if err != nil {
		return 0, err
	}
	if lib == nil {
		return -1, nil
	}
	return lib.ID, nil
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) getLibraries(w http.ResponseWriter, r *http.Request) {
	out := []libraryJSON{}
	err := s.view(func(sess *catalog.Session) error {
		libs, err := sess.Libraries(nil)
		if err != nil {
			return err
		}
		for _, lib := range libs {
			counts, err := sess.CountsForLibrary(lib.ID)
			if err != nil {
				return err
			}
			entry := libraryJSON{
				ID:      lib.ID,
				Name:    lib.Name,
				Artists: counts.Artists,
				Albums:  counts.Albums,
				Tracks:  counts.Tracks,
				Tags:    counts.Tags,
			}
			if !lib.LastSync.IsZero() {
				entry.LastSync = lib.LastSync.UTC().Format(time.RFC3339)
			}
			out = append(out, entry)
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, out)
}

func (s *Server) getArtists(w http.ResponseWriter, r *http.Request) {
	out := []artistJSON{}
	notFound := false
	err := s.view(func(sess *catalog.Session) error {
		libID, err := libParam(sess, r)
		if err != nil {
			return err
		}
		if libID < 0 {
			notFound = true
			return nil
		}
		artists, err := sess.AllArtists(libID)
		if err != nil {
			return err
		}
		out = artistViews(artists)
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if notFound {
		http.Error(w, "unknown library", http.StatusNotFound)
		return
	}
	writeJSON(w, out)
}

func (s *Server) getArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "invalid artist id", http.StatusBadRequest)
		return
	}

	var out *artistDetailJSON
	err := s.view(func(sess *catalog.Session) error {
		artist, err := sess.ArtistByID(id)
		if err != nil || artist == nil {
			return err
		}
		albums, err := sess.AlbumsByArtist(id)
		if err != nil {
			return err
		}
		singles, err := sess.TrackSingles(id)
		if err != nil {
			return err
		}
		out = &artistDetailJSON{
			artistJSON: artistView(artist),
			Albums:     albumViews(albums),
			Singles:    trackViews(singles),
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if out == nil {
		http.Error(w, "artist not found", http.StatusNotFound)
		return
	}
	writeJSON(w, out)
}

func (s *Server) getAlbums(w http.ResponseWriter, r *http.Request) {
	out := []albumJSON{}
	notFound := false
	err := s.view(func(sess *catalog.Session) error {
		libID, err := libParam(sess, r)
		if err != nil {
			return err
		}
		if libID < 0 {
			notFound = true
			return nil
		}
		albums, err := sess.AllAlbums(libID)
		if err != nil {
			return err
		}
		out = albumViews(albums)
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if notFound {
		http.Error(w, "unknown library", http.StatusNotFound)
		return
	}
	writeJSON(w, out)
}

func (s *Server) getAlbum(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "invalid album id", http.StatusBadRequest)
		return
	}

	var out *albumDetailJSON
	err := s.view(func(sess *catalog.Session) error {
		album, err := sess.AlbumByID(id)
		if err != nil || album == nil {
			return err
		}
		tracks, err := sess.TracksByAlbum(id)
		if err != nil {
			return err
		}
		out = &albumDetailJSON{
			albumJSON: albumView(album),
			Tracks:    trackViews(tracks),
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if out == nil {
		http.Error(w, "album not found", http.StatusNotFound)
		return
	}
	writeJSON(w, out)
}

func (s *Server) getSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "missing q parameter", http.StatusBadRequest)
		return
	}

	out := searchJSON{Artists: []artistJSON{}, Albums: []albumJSON{}, Tracks: []trackJSON{}}
	err := s.view(func(sess *catalog.Session) error {
		results, err := sess.Search(query)
		if err != nil {
			return err
		}
		out.Artists = artistViews(results.Artists)
		out.Albums = albumViews(results.Albums)
		out.Tracks = trackViews(results.Tracks)
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, out)
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "invalid image id", http.StatusBadRequest)
		return
	}

	var img *catalog.Image
	err := s.view(func(sess *catalog.Session) error {
		var err error
		img, err = sess.ImageByID(id)
		if err != nil || img == nil {
			return err
		}
		return sess.LoadImageData(img)
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if img == nil {
		http.Error(w, "image not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", img.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Write(img.Data)
}
