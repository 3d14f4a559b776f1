package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SearchResults holds substring matches across the catalog.
type SearchResults struct {
	Artists []*Artist
	Albums  []*Album
	Tracks  []*Track
}

// Search runs a case-insensitive substring match over artist names, album
// titles, and track titles. Artist names are also matched with all
// whitespace stripped from the query ("dead weather" finds "Deadweather").
func (sess *Session) Search(query string) (*SearchResults, error) {
	query = norm.NFC.String(query)
	flat := strings.Join(strings.Fields(query), "")

	results := &SearchResults{}
	var err error

	results.Artists, err = sess.queryArtists(`
		SELECT `+artistColumns+` FROM artists
		WHERE (name LIKE ? OR name LIKE ?) AND id != ?
		ORDER BY sort_name COLLATE NOCASE
	`, "%"+query+"%", "%"+flat+"%", VariousArtistsID)
	if err != nil {
		return nil, fmt.Errorf("artist search failed: %w", err)
	}

	results.Albums, err = sess.queryAlbums(`
		SELECT `+albumColumns+` FROM albums a
		WHERE a.title LIKE ? ORDER BY a.title COLLATE NOCASE
	`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("album search failed: %w", err)
	}

	results.Tracks, err = sess.queryTracks(`
		SELECT `+trackColumns+` FROM tracks t
		WHERE t.title LIKE ? ORDER BY t.title COLLATE NOCASE
	`, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("track search failed: %w", err)
	}

	return results, nil
}

// LibraryCounts holds per-library row counts for the info command.
type LibraryCounts struct {
	Artists int
	Albums  int
	Tracks  int
	Tags    int
}

// CountsForLibrary tallies catalog rows in one library. A libID of zero
// counts everything.
func (sess *Session) CountsForLibrary(libID int64) (*LibraryCounts, error) {
	counts := &LibraryCounts{}
	queries := []struct {
		table string
		dest  *int
	}{
		{"artists", &counts.Artists},
		{"albums", &counts.Albums},
		{"tracks", &counts.Tracks},
		{"tags", &counts.Tags},
	}

	for _, q := range queries {
		query := "SELECT COUNT(*) FROM " + q.table
		args := []interface{}{}
		if libID > 0 {
			query += " WHERE lib_id = ?"
			args = append(args, libID)
		}
		if err := sess.tx.QueryRow(query, args...).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", q.table, err)
		}
	}
	return counts, nil
}
