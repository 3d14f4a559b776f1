package sync

import (
	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/tagread"
	"github.com/franz/mishmash/internal/util"
)

// EPMaxSize is the largest track count still classified as an EP when no
// explicit type hint is present.
const EPMaxSize = 6

// Classify decides the album type for one directory of audio views. It
// returns "" when the directory is not a coherent album; callers default
// that to lp.
//
// An explicit type hint in the tags wins over the structural analysis, even
// over the various-artists shape. Conflicting hints across files make the
// directory incoherent.
func Classify(views []*tagread.AudioFile) string {
	if len(views) == 0 {
		return ""
	}

	hints := make(map[string]bool)
	for _, v := range views {
		if v.Tag.AlbumTypeHint != "" {
			hints[v.Tag.AlbumTypeHint] = true
		}
	}
	if len(hints) > 1 {
		util.WarnLog("Inconsistent album type hints in directory, not classifying")
		return ""
	}

	artists := make(map[string]bool)
	albumArtists := make(map[string]bool)
	albums := 0
	for _, v := range views {
		if v.Tag.Artist != "" {
			artists[v.Tag.Artist] = true
		}
		if v.Tag.AlbumArtist != "" {
			albumArtists[v.Tag.AlbumArtist] = true
		}
		if v.Tag.Album != "" {
			albums++
		}
	}

	various := len(artists) > 1 && albums == len(views) &&
		(len(albumArtists) == 0 ||
			(len(albumArtists) == 1 && albumArtists[catalog.VariousArtistsName]))

	if len(hints) == 1 {
		var hint string
		for h := range hints {
			hint = h
		}
		if various && hint != catalog.TypeVarious {
			util.WarnLog("Using type %s despite various artists shape", hint)
		}
		return hint
	}

	switch {
	case various:
		return catalog.TypeVarious
	case albums == len(views):
		if len(views) > EPMaxSize {
			return catalog.TypeLP
		}
		return catalog.TypeEP
	default:
		return catalog.TypeSingle
	}
}
