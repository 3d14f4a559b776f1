package catalog

import (
	"database/sql"
	"fmt"
	"strings"
)

const trackColumns = `
	t.id, t.path, t.size_bytes, t.ctime, t.mtime, t.date_added, t.time_secs,
	t.title, COALESCE(t.track_num, 0), COALESCE(t.track_total, 0),
	COALESCE(t.media_num, 0), COALESCE(t.media_total, 0),
	COALESCE(t.bit_rate, 0), COALESCE(t.variable_bit_rate, 0),
	t.metadata_format, t.artist_id, COALESCE(t.album_id, 0), t.lib_id
`

func scanTrack(row interface{ Scan(...interface{}) error }) (*Track, error) {
	t := &Track{}
	err := row.Scan(
		&t.ID, &t.Path, &t.SizeBytes, &t.CTime, &t.MTime, &t.DateAdded,
		&t.TimeSecs, &t.Title, &t.TrackNum, &t.TrackTotal, &t.MediaNum,
		&t.MediaTotal, &t.BitRate, &t.VariableBitRate, &t.MetadataFormat,
		&t.ArtistID, &t.AlbumID, &t.LibID,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (sess *Session) queryTracks(query string, args ...interface{}) ([]*Track, error) {
	rows, err := sess.tx.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// TrackByPath retrieves the track keyed by (path, lib), or nil when absent.
func (sess *Session) TrackByPath(path string, libID int64) (*Track, error) {
	t, err := scanTrack(sess.tx.QueryRow(`
		SELECT `+trackColumns+` FROM tracks t WHERE t.path = ? AND t.lib_id = ?
	`, path, libID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return t, nil
}

// InsertTrack inserts the track and assigns its id.
func (sess *Session) InsertTrack(t *Track) error {
	t.Path = truncate(t.Path, PathLimit)
	result, err := sess.tx.Exec(`
		INSERT INTO tracks
			(path, size_bytes, ctime, mtime, date_added, time_secs, title,
			 track_num, track_total, media_num, media_total, bit_rate,
			 variable_bit_rate, metadata_format, artist_id, album_id, lib_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.Path, t.SizeBytes, t.CTime, t.MTime, t.DateAdded, t.TimeSecs, t.Title,
		t.TrackNum, t.TrackTotal, t.MediaNum, t.MediaTotal, t.BitRate,
		t.VariableBitRate, t.MetadataFormat, t.ArtistID, nullID(t.AlbumID),
		t.LibID)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}
	t.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get track id: %w", err)
	}
	return nil
}

// UpdateTrack writes the track row back by id.
func (sess *Session) UpdateTrack(t *Track) error {
	t.Path = truncate(t.Path, PathLimit)
	_, err := sess.tx.Exec(`
		UPDATE tracks SET path = ?, size_bytes = ?, ctime = ?, mtime = ?,
			time_secs = ?, title = ?, track_num = ?, track_total = ?,
			media_num = ?, media_total = ?, bit_rate = ?,
			variable_bit_rate = ?, metadata_format = ?, artist_id = ?,
			album_id = ?
		WHERE id = ?
	`, t.Path, t.SizeBytes, t.CTime, t.MTime, t.TimeSecs, t.Title,
		t.TrackNum, t.TrackTotal, t.MediaNum, t.MediaTotal, t.BitRate,
		t.VariableBitRate, t.MetadataFormat, t.ArtistID, nullID(t.AlbumID),
		t.ID)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}
	return nil
}

// DeleteTrack removes the track; junction rows cascade.
func (sess *Session) DeleteTrack(id int64) error {
	if _, err := sess.tx.Exec("DELETE FROM tracks WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}
	return nil
}

// TracksByAlbum lists the album's tracks in track-number order.
func (sess *Session) TracksByAlbum(albumID int64) ([]*Track, error) {
	return sess.queryTracks(`
		SELECT `+trackColumns+` FROM tracks t
		WHERE t.album_id = ? ORDER BY t.media_num, t.track_num
	`, albumID)
}

// TracksByArtist lists the artist's tracks.
func (sess *Session) TracksByArtist(artistID int64) ([]*Track, error) {
	return sess.queryTracks(`
		SELECT `+trackColumns+` FROM tracks t
		WHERE t.artist_id = ? ORDER BY t.title COLLATE NOCASE
	`, artistID)
}

// AllTracks lists tracks, optionally restricted to one library.
func (sess *Session) AllTracks(libID int64) ([]*Track, error) {
	if libID > 0 {
		return sess.queryTracks(`
			SELECT `+trackColumns+` FROM tracks t WHERE t.lib_id = ? ORDER BY t.id
		`, libID)
	}
	return sess.queryTracks(`
		SELECT ` + trackColumns + ` FROM tracks t ORDER BY t.id
	`)
}

// RandomTracks returns up to n random track rows.
func (sess *Session) RandomTracks(n int) ([]*Track, error) {
	return sess.queryTracks(`
		SELECT `+trackColumns+` FROM tracks t ORDER BY RANDOM() LIMIT ?
	`, n)
}

// AttachTrackTag links a genre tag to a track, once.
func (sess *Session) AttachTrackTag(trackID, tagID int64) error {
	_, err := sess.tx.Exec(`
		INSERT OR IGNORE INTO track_tags (track_id, tag_id) VALUES (?, ?)
	`, trackID, tagID)
	if err != nil {
		return fmt.Errorf("failed to attach track tag: %w", err)
	}
	return nil
}

// RelocateTracks rewrites path prefixes in bulk, returning the number of rows
// changed. Only paths strictly under oldRoot are touched.
func (sess *Session) RelocateTracks(oldRoot, newRoot string) (int64, error) {
	oldRoot = strings.TrimRight(oldRoot, "/") + "/"
	newRoot = strings.TrimRight(newRoot, "/") + "/"

	result, err := sess.tx.Exec(`
		UPDATE tracks
		SET path = ?2 || substr(path, length(?1) + 1)
		WHERE substr(path, 1, length(?1)) = ?1
	`, oldRoot, newRoot)
	if err != nil {
		return 0, fmt.Errorf("failed to relocate tracks: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count relocated tracks: %w", err)
	}
	return n, nil
}
