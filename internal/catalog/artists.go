package catalog

import (
	"database/sql"
	"fmt"
)

const artistColumns = `
	id, name, sort_name, date_added,
	COALESCE(origin_city, ''), COALESCE(origin_state, ''),
	COALESCE(origin_country, ''), lib_id
`

func scanArtist(row interface{ Scan(...interface{}) error }) (*Artist, error) {
	a := &Artist{}
	err := row.Scan(
		&a.ID, &a.Name, &a.SortName, &a.DateAdded,
		&a.OriginCity, &a.OriginState, &a.OriginCountry, &a.LibID,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (sess *Session) queryArtists(query string, args ...interface{}) ([]*Artist, error) {
	rows, err := sess.tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query artists: %w", err)
	}
	defer rows.Close()

	var artists []*Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artist: %w", err)
		}
		artists = append(artists, a)
	}
	return artists, rows.Err()
}

// FindArtists matches on the full identity tuple. IS comparison makes NULL
// origins comparable, so an origin-less lookup matches exactly the origin-less
// row. Homonym detection goes through ArtistsByName.
func (sess *Session) FindArtists(name, city, state, country string, libID int64) ([]*Artist, error) {
	return sess.queryArtists(`
		SELECT `+artistColumns+` FROM artists
		WHERE name = ? AND origin_city IS ? AND origin_state IS ?
		  AND origin_country IS ? AND lib_id = ?
		ORDER BY id
	`, name, nullStr(city), nullStr(state), nullStr(country), libID)
}

// ArtistsByName matches on name alone. A libID of zero matches all libraries.
func (sess *Session) ArtistsByName(name string, libID int64) ([]*Artist, error) {
	if libID > 0 {
		return sess.queryArtists(`
			SELECT `+artistColumns+` FROM artists
			WHERE name = ? AND lib_id = ? ORDER BY id
		`, name, libID)
	}
	return sess.queryArtists(`
		SELECT `+artistColumns+` FROM artists WHERE name = ? ORDER BY id
	`, name)
}

// ArtistByID retrieves one artist, or nil when absent.
func (sess *Session) ArtistByID(id int64) (*Artist, error) {
	a, err := scanArtist(sess.tx.QueryRow(`
		SELECT `+artistColumns+` FROM artists WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artist: %w", err)
	}
	return a, nil
}

// VariousArtists returns the compilations pseudo-artist.
func (sess *Session) VariousArtists() (*Artist, error) {
	a, err := sess.ArtistByID(VariousArtistsID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("various artists sentinel row missing")
	}
	return a, nil
}

// InsertArtist inserts the artist and assigns its id.
func (sess *Session) InsertArtist(a *Artist) error {
	result, err := sess.tx.Exec(`
		INSERT INTO artists
			(name, sort_name, date_added, origin_city, origin_state,
			 origin_country, lib_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.Name, a.SortName, a.DateAdded,
		nullStr(a.OriginCity), nullStr(a.OriginState), nullStr(a.OriginCountry),
		a.LibID)
	if err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}
	a.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get artist id: %w", err)
	}
	return nil
}

// UpdateArtist writes the artist row back by id.
func (sess *Session) UpdateArtist(a *Artist) error {
	_, err := sess.tx.Exec(`
		UPDATE artists SET name = ?, sort_name = ?, origin_city = ?,
			origin_state = ?, origin_country = ?
		WHERE id = ?
	`, a.Name, a.SortName,
		nullStr(a.OriginCity), nullStr(a.OriginState), nullStr(a.OriginCountry),
		a.ID)
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}
	return nil
}

// DeleteArtist removes the artist; albums, tracks, and junction rows cascade.
func (sess *Session) DeleteArtist(id int64) error {
	if _, err := sess.tx.Exec("DELETE FROM artists WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete artist: %w", err)
	}
	return nil
}

// AllArtists lists artists in a library ordered by sort name. A libID of zero
// lists every library, the sentinel excluded either way.
func (sess *Session) AllArtists(libID int64) ([]*Artist, error) {
	if libID > 0 {
		return sess.queryArtists(`
			SELECT `+artistColumns+` FROM artists
			WHERE lib_id = ? AND id != ?
			ORDER BY sort_name COLLATE NOCASE
		`, libID, VariousArtistsID)
	}
	return sess.queryArtists(`
		SELECT `+artistColumns+` FROM artists
		WHERE id != ? ORDER BY sort_name COLLATE NOCASE
	`, VariousArtistsID)
}

// TrackSingles returns the artist's tracks with no album, plus tracks on
// albums credited to someone else (compilation appearances).
func (sess *Session) TrackSingles(artistID int64) ([]*Track, error) {
	return sess.queryTracks(`
		SELECT `+trackColumns+` FROM tracks t
		WHERE t.artist_id = ?
		  AND (t.album_id IS NULL
		       OR (SELECT a.artist_id FROM albums a WHERE a.id = t.album_id) != ?)
		ORDER BY t.title COLLATE NOCASE
	`, artistID, artistID)
}

// VariousAlbumsFeaturing returns various-artists albums on which the artist
// has at least one track.
func (sess *Session) VariousAlbumsFeaturing(artistID int64) ([]*Album, error) {
	return sess.queryAlbums(`
		SELECT `+albumColumns+` FROM albums a
		WHERE a.type = ? AND EXISTS (
			SELECT 1 FROM tracks t WHERE t.album_id = a.id AND t.artist_id = ?
		)
		ORDER BY a.title COLLATE NOCASE
	`, TypeVarious, artistID)
}
