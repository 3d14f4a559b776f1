package catalog

import (
	"fmt"
	"os"

	"github.com/franz/mishmash/internal/util"
)

// PurgeResult reports what the orphan pass deleted.
type PurgeResult struct {
	TracksDeleted  int
	AlbumsDeleted  int
	ArtistsDeleted int
}

// PurgeOrphans removes tracks whose files are gone, then albums with no
// remaining tracks, then artists with no remaining albums or tracks. The
// order matters: albums must see the track deletes, and artists must see
// both. The Various Artists sentinel is never deleted. exists may be nil to
// use os.Stat.
func (sess *Session) PurgeOrphans(exists func(string) bool) (PurgeResult, error) {
	var result PurgeResult

	if exists == nil {
		exists = func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		}
	}

	tracks, err := sess.AllTracks(0)
	if err != nil {
		return result, err
	}
	for _, track := range tracks {
		if exists(track.Path) {
			continue
		}
		util.WarnLog("Removing track: %s", track.Path)
		if err := sess.DeleteTrack(track.ID); err != nil {
			return result, err
		}
		result.TracksDeleted++
	}

	res, err := sess.tx.Exec(`
		DELETE FROM albums
		WHERE NOT EXISTS (SELECT 1 FROM tracks t WHERE t.album_id = albums.id)
	`)
	if err != nil {
		return result, fmt.Errorf("failed to purge albums: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		result.AlbumsDeleted = int(n)
	}

	res, err = sess.tx.Exec(`
		DELETE FROM artists
		WHERE id != ?
		  AND NOT EXISTS (SELECT 1 FROM tracks t WHERE t.artist_id = artists.id)
		  AND NOT EXISTS (SELECT 1 FROM albums a WHERE a.artist_id = artists.id)
	`, VariousArtistsID)
	if err != nil {
		return result, fmt.Errorf("failed to purge artists: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		result.ArtistsDeleted = int(n)
	}

	return result, nil
}
