package sync

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/tagread"
	"github.com/franz/mishmash/internal/util"
)

// ErrResolveAbort signals that artist disambiguation was declined, either by
// the user or because prompting is disabled. The file is skipped.
var ErrResolveAbort = errors.New("artist resolution aborted")

// ResolveArtistFunc decides between homonym artist rows. It returns a chosen
// candidate, or a freshly constructed row (ID zero) to insert, or
// ErrResolveAbort.
type ResolveArtistFunc func(name string, candidates []*catalog.Artist, libID int64) (*catalog.Artist, error)

// NoPromptResolver always aborts; it backs --no-prompt mode.
func NoPromptResolver(name string, candidates []*catalog.Artist, libID int64) (*catalog.Artist, error) {
	return nil, ErrResolveAbort
}

// resolver matches tag strings to catalog rows for one directory. The
// resolved field remembers a disambiguation choice so one decision covers
// every file in the directory.
type resolver struct {
	sess          *catalog.Session
	libID         int64
	resolveArtist ResolveArtistFunc
	resolved      *catalog.Artist
}

// Origin holds the artist origin triple from a tag frame.
type Origin struct {
	City    string
	State   string
	Country string
}

func (r *resolver) artist(name string, origin Origin) (*catalog.Artist, error) {
	if name == catalog.VariousArtistsName {
		return r.sess.VariousArtists()
	}

	country := ""
	if origin.Country != "" {
		iso3, err := util.NormalizeCountry(origin.Country, util.CountryISO3)
		if err != nil {
			util.WarnLog("Unknown origin country %q for %s, ignoring", origin.Country, name)
		} else {
			country = iso3
		}
	}

	candidates, err := r.sess.FindArtists(name, origin.City, origin.State, country, r.libID)
	if err != nil {
		return nil, err
	}

	switch len(candidates) {
	case 0:
		// A tag without origin data may still collide with homonyms the
		// user split deliberately; that ambiguity needs a decision too.
		if country == "" && origin.City == "" && origin.State == "" {
			homonyms, err := r.sess.ArtistsByName(name, r.libID)
			if err != nil {
				return nil, err
			}
			if len(homonyms) > 1 {
				return r.disambiguate(name, homonyms)
			}
			if len(homonyms) == 1 {
				return homonyms[0], nil
			}
		}

		artist, err := catalog.NewArtist(name, r.libID)
		if err != nil {
			return nil, err
		}
		artist.OriginCity = origin.City
		artist.OriginState = origin.State
		artist.OriginCountry = country
		if err := r.sess.InsertArtist(artist); err != nil {
			return nil, err
		}
		util.InfoLog("Adding artist: %s", name)
		return artist, nil
	case 1:
		return candidates[0], nil
	default:
		return r.disambiguate(name, candidates)
	}
}

func (r *resolver) disambiguate(name string, candidates []*catalog.Artist) (*catalog.Artist, error) {
	if r.resolved != nil && r.resolved.Name == name {
		return r.resolved, nil
	}
	if r.resolveArtist == nil {
		return nil, ErrResolveAbort
	}

	choice, err := r.resolveArtist(name, candidates, r.libID)
	if err != nil {
		return nil, err
	}
	if choice.ID == 0 {
		if err := r.sess.InsertArtist(choice); err != nil {
			return nil, err
		}
	}
	r.resolved = choice
	return choice, nil
}

func (r *resolver) album(tag *tagread.Tag, artist *catalog.Artist, albumType string) (*catalog.Album, error) {
	album, err := r.sess.FindAlbum(tag.Album, artist.ID, r.libID,
		tag.ReleaseDate, tag.OriginalReleaseDate, tag.RecordingDate)
	if err != nil {
		return nil, err
	}

	if album == nil {
		album = &catalog.Album{
			Type:                albumType,
			DateAdded:           time.Now(),
			ReleaseDate:         tag.ReleaseDate,
			OriginalReleaseDate: tag.OriginalReleaseDate,
			RecordingDate:       tag.RecordingDate,
			ArtistID:            artist.ID,
			LibID:               r.libID,
		}
		album.SetTitle(tag.Album)
		if err := r.sess.InsertAlbum(album); err != nil {
			return nil, err
		}
		util.InfoLog("Adding album: %s", album.Title)
		return album, nil
	}

	changed := false
	if album.Type != albumType {
		album.Type = albumType
		changed = true
	}
	if album.OriginalReleaseDate.IsZero() && !tag.OriginalReleaseDate.IsZero() {
		album.OriginalReleaseDate = tag.OriginalReleaseDate
		changed = true
	}
	if changed {
		if err := r.sess.UpdateAlbum(album); err != nil {
			return nil, err
		}
	}
	return album, nil
}

type trackStatus int

const (
	trackSkipped trackStatus = iota
	trackAdded
	trackUpdated
)

// track upserts the row keyed by (path, lib). In fast mode an unchanged
// ctime skips the file entirely.
func (r *resolver) track(audio *tagread.AudioFile, artist *catalog.Artist,
	albumID int64, fast bool) (*catalog.Track, trackStatus, error) {

	times, err := util.StatTimes(audio.Path)
	if err != nil {
		return nil, trackSkipped, fmt.Errorf("failed to stat %s: %w", audio.Path, err)
	}

	track, err := r.sess.TrackByPath(audio.Path, r.libID)
	if err != nil {
		return nil, trackSkipped, err
	}
	if track != nil && fast && track.CTime.Equal(times.CTime) {
		util.DebugLog("Unchanged (fast): %s", audio.Path)
		return track, trackSkipped, nil
	}

	isNew := track == nil
	if isNew {
		track = &catalog.Track{
			Path:      audio.Path,
			DateAdded: time.Now(),
			LibID:     r.libID,
		}
	}

	title := audio.Tag.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(audio.Path), filepath.Ext(audio.Path))
	}
	track.SetTitle(title)
	track.SizeBytes = audio.Info.SizeBytes
	track.CTime = times.CTime
	track.MTime = times.MTime
	track.TimeSecs = audio.Info.TimeSecs
	track.TrackNum = audio.Tag.TrackNum
	track.TrackTotal = audio.Tag.TrackTotal
	track.MediaNum = audio.Tag.DiscNum
	track.MediaTotal = audio.Tag.DiscTotal
	track.BitRate = audio.Info.BitRate
	track.VariableBitRate = audio.Info.VariableBitRate
	track.MetadataFormat = audio.MetadataFormat
	track.ArtistID = artist.ID
	track.AlbumID = albumID

	status := trackUpdated
	if isNew {
		if err := r.sess.InsertTrack(track); err != nil {
			return nil, trackSkipped, err
		}
		util.InfoLog("Adding track: %s", audio.Path)
		status = trackAdded
	} else {
		if err := r.sess.UpdateTrack(track); err != nil {
			return nil, trackSkipped, err
		}
		util.DebugLog("Updating track: %s", audio.Path)
	}

	for _, genre := range audio.Tag.Genres {
		tag, err := r.sess.GetOrCreateTag(genre, r.libID)
		if err != nil {
			return nil, trackSkipped, err
		}
		if err := r.sess.AttachTrackTag(track.ID, tag.ID); err != nil {
			return nil, trackSkipped, err
		}
	}

	return track, status, nil
}
