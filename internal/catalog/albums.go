package catalog

import (
	"database/sql"
	"fmt"
)

const albumColumns = `
	a.id, a.title, a.type, a.date_added, a.release_date,
	a.original_release_date, a.recording_date, a.artist_id, a.lib_id
`

func scanAlbum(row interface{ Scan(...interface{}) error }) (*Album, error) {
	a := &Album{}
	err := row.Scan(
		&a.ID, &a.Title, &a.Type, &a.DateAdded, &a.ReleaseDate,
		&a.OriginalReleaseDate, &a.RecordingDate, &a.ArtistID, &a.LibID,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (sess *Session) queryAlbums(query string, args ...interface{}) ([]*Album, error) {
	rows, err := sess.tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []*Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, a)
	}
	return albums, rows.Err()
}

func (sess *Session) albumByDateFilter(filter string, args []interface{}) (*Album, error) {
	a, err := scanAlbum(sess.tx.QueryRow(`
		SELECT `+albumColumns+` FROM albums a
		WHERE a.title = ? AND a.artist_id = ? AND a.lib_id = ? AND `+filter+`
		ORDER BY a.id LIMIT 1
	`, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return a, nil
}

// FindAlbum looks up an album by the date-keyed cascade: original release
// date first (stable across reissues), then release date, then release date
// plus recording date (live material tiebreak). The first non-nil match wins.
func (sess *Session) FindAlbum(title string, artistID, libID int64,
	release, originalRelease, recording PartialDate) (*Album, error) {

	album, err := sess.albumByDateFilter("a.original_release_date IS ?",
		[]interface{}{title, artistID, libID, originalRelease})
	if album != nil || err != nil {
		return album, err
	}

	album, err = sess.albumByDateFilter("a.release_date IS ?",
		[]interface{}{title, artistID, libID, release})
	if album != nil || err != nil {
		return album, err
	}

	return sess.albumByDateFilter("a.release_date IS ? AND a.recording_date IS ?",
		[]interface{}{title, artistID, libID, release, recording})
}

// AlbumByID retrieves one album, or nil when absent.
func (sess *Session) AlbumByID(id int64) (*Album, error) {
	a, err := scanAlbum(sess.tx.QueryRow(`
		SELECT ` + albumColumns + ` FROM albums a WHERE a.id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return a, nil
}

// InsertAlbum inserts the album and assigns its id.
func (sess *Session) InsertAlbum(a *Album) error {
	if a.Type == "" {
		a.Type = TypeLP
	}
	result, err := sess.tx.Exec(`
		INSERT INTO albums
			(title, type, date_added, release_date, original_release_date,
			 recording_date, artist_id, lib_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.Title, a.Type, a.DateAdded, a.ReleaseDate, a.OriginalReleaseDate,
		a.RecordingDate, a.ArtistID, a.LibID)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}
	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get album id: %w", err)
	}
	return nil
}

// UpdateAlbum writes the album row back by id.
func (sess *Session) UpdateAlbum(a *Album) error {
	_, err := sess.tx.Exec(`
		UPDATE albums SET title = ?, type = ?, release_date = ?,
			original_release_date = ?, recording_date = ?, artist_id = ?
		WHERE id = ?
	`, a.Title, a.Type, a.ReleaseDate, a.OriginalReleaseDate, a.RecordingDate,
		a.ArtistID, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update album: %w", err)
	}
	return nil
}

// DeleteAlbum removes the album; tracks and junction rows cascade.
func (sess *Session) DeleteAlbum(id int64) error {
	if _, err := sess.tx.Exec("DELETE FROM albums WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	return nil
}

// AlbumsByArtist lists albums credited to the artist.
func (sess *Session) AlbumsByArtist(artistID int64) ([]*Album, error) {
	return sess.queryAlbums(`
		SELECT `+albumColumns+` FROM albums a
		WHERE a.artist_id = ? ORDER BY a.title COLLATE NOCASE
	`, artistID)
}

// AllAlbums lists albums in a library ordered by title. A libID of zero lists
// every library.
func (sess *Session) AllAlbums(libID int64) ([]*Album, error) {
	if libID > 0 {
		return sess.queryAlbums(`
			SELECT `+albumColumns+` FROM albums a
			WHERE a.lib_id = ? ORDER BY a.title COLLATE NOCASE
		`, libID)
	}
	return sess.queryAlbums(`
		SELECT ` + albumColumns + ` FROM albums a ORDER BY a.title COLLATE NOCASE
	`)
}
