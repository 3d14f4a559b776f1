package tagread

import (
	"strings"

	"github.com/dhowden/tag"
)

// User-text frame descriptions written by tools in the eyeD3 family. The
// album-type frame carries one of the album type enum values; the origin
// frame carries "city\tstate\tcountry".
const (
	albumTypeFrame    = "eyeD3#album_type"
	artistOriginFrame = "eyeD3#artist_origin"
)

// frameText returns the first non-empty plain text value among the raw tag
// keys. Vorbis comments arrive as lowercase string values; ID3 text frames as
// strings keyed by frame id.
func frameText(raw map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		val, ok := raw[key]
		if !ok {
			continue
		}
		if s, ok := val.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// userText finds a TXXX-style frame by its description. Vorbis files store
// the same data as a plain comment keyed by the description itself.
func userText(raw map[string]interface{}, desc string) string {
	for _, val := range raw {
		if comm, ok := val.(*tag.Comm); ok && comm.Description == desc {
			return comm.Text
		}
	}
	return frameText(raw, desc, strings.ToLower(desc))
}

// parseArtistOrigin splits the tab-delimited origin frame. Missing trailing
// fields are empty.
func parseArtistOrigin(text string) (city, state, country string) {
	parts := strings.SplitN(text, "\t", 3)
	for i, part := range parts {
		part = strings.TrimSpace(part)
		switch i {
		case 0:
			city = part
		case 1:
			state = part
		case 2:
			country = part
		}
	}
	return city, state, country
}

// splitGenres breaks a multi-valued genre string on the NUL separators ID3v2.4
// uses, dropping empties.
func splitGenres(genre string) []string {
	var genres []string
	for _, g := range strings.Split(genre, "\x00") {
		g = strings.TrimSpace(g)
		if g != "" {
			genres = append(genres, g)
		}
	}
	return genres
}

// framePictures collects embedded artwork from the raw frame map. The
// front-line Picture() accessor only surfaces one image; files often carry
// several APIC frames.
func framePictures(m tag.Metadata) []*tag.Picture {
	var pictures []*tag.Picture
	seen := make(map[*tag.Picture]bool)

	if pic := m.Picture(); pic != nil {
		pictures = append(pictures, pic)
		seen[pic] = true
	}
	for _, val := range m.Raw() {
		if pic, ok := val.(*tag.Picture); ok && !seen[pic] {
			pictures = append(pictures, pic)
			seen[pic] = true
		}
	}
	return pictures
}
