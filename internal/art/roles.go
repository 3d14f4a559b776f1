package art

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/franz/mishmash/internal/catalog"
)

// pictureRoles maps ID3 APIC picture-type names to catalog image roles.
// "Other", icons, and leaflets count as front covers; taggers use them
// interchangeably for the primary image. Types not listed are skipped.
var pictureRoles = map[string]string{
	"Cover (front)":                      catalog.RoleFront,
	"Other":                              catalog.RoleFront,
	"Other file icon":                    catalog.RoleFront,
	"32x32 pixels 'file icon' (PNG only)": catalog.RoleFront,
	"Leaflet page":                       catalog.RoleFront,

	"Cover (back)": catalog.RoleBack,

	"Media (e.g. label side of CD)": catalog.RoleMisc,

	"Band/artist logotype": catalog.RoleLogo,

	"Lead artist/lead performer/soloist": catalog.RoleArtist,
	"Artist/performer":                   catalog.RoleArtist,
	"Band/Orchestra":                     catalog.RoleArtist,

	"During performance": catalog.RoleLive,
	"During recording":   catalog.RoleLive,
}

// PictureRole maps a tag-embedded picture type to an image role.
func PictureRole(pictureType string) (string, bool) {
	role, ok := pictureRoles[pictureType]
	return role, ok
}

// sidecarGlobs match the lowercased base filename (extension stripped) of
// image files living next to the audio. First match wins, in role order.
var sidecarGlobs = []struct {
	role  string
	globs []string
}{
	{catalog.RoleFront, []string{
		"cover-front", "cover-alternate*", "cover", "folder", "front",
		"cover*-*front", "flier",
	}},
	{catalog.RoleBack, []string{"cover-back", "cover*-*back"}},
	{catalog.RoleMisc, []string{
		"cover-insert*", "cover-liner*", "cover-disc", "cover-media*",
	}},
	{catalog.RoleLogo, []string{"logo"}},
	{catalog.RoleArtist, []string{"artist*"}},
}

// SidecarRole maps an image filename to an image role.
func SidecarRole(filename string) (string, bool) {
	base := strings.ToLower(filepath.Base(filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	for _, entry := range sidecarGlobs {
		for _, glob := range entry.globs {
			if ok, _ := path.Match(glob, base); ok {
				return entry.role, true
			}
		}
	}
	return "", false
}

// IsAlbumRole reports whether images with this role attach to the album;
// the rest attach to the artist.
func IsAlbumRole(role string) bool {
	switch role {
	case catalog.RoleFront, catalog.RoleBack, catalog.RoleMisc:
		return true
	}
	return false
}

// ImageExtensions are the sidecar file extensions considered.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// IsImageFile checks if a file has a supported image extension.
func IsImageFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
