package catalog

import (
	"fmt"
	"regexp"
	"time"

	"github.com/franz/mishmash/internal/util"
)

// Album types, in schema-enum order. TypeLP is the default.
const (
	TypeLP          = "lp"
	TypeEP          = "ep"
	TypeCompilation = "compilation"
	TypeLive        = "live"
	TypeVarious     = "various"
	TypeDemo        = "demo"
	TypeSingle      = "single"
)

// AlbumTypes lists all valid album type values.
var AlbumTypes = []string{
	TypeLP, TypeEP, TypeCompilation, TypeLive, TypeVarious, TypeDemo, TypeSingle,
}

// Image roles.
const (
	RoleFront  = "front"
	RoleBack   = "back"
	RoleMisc   = "misc"
	RoleLogo   = "logo"
	RoleArtist = "artist"
	RoleLive   = "live"
)

// ImageRoles lists all valid image role values.
var ImageRoles = []string{RoleFront, RoleBack, RoleMisc, RoleLogo, RoleArtist, RoleLive}

// Well-known rows provisioned at schema creation, in this order. Foreign keys
// elsewhere rely on these exact ids.
const (
	NullLibID   int64 = 1
	NullLibName       = "__null_lib__"
	MainLibID   int64 = 2
	MainLibName       = "Music"

	VariousArtistsID   int64 = 1
	VariousArtistsName       = "Various Artists"
)

// Column length caps. Longer values are truncated silently.
const (
	LibNameLimit   = 64
	NameLimit      = 256
	SortNameLimit  = NameLimit + 2
	CityLimit      = 64
	StateLimit     = 32
	CountryLimit   = 3
	TitleLimit     = 256
	PathLimit      = 2048
	TagNameLimit   = 64
	MimeTypeLimit  = 32
	DescLimit      = 1024
	DateLimit      = 24
	MetaVersionLimit = 32
)

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// Library partitions the catalog; the same-named artist can coexist across
// libraries.
type Library struct {
	ID       int64
	Name     string
	LastSync time.Time
}

// Artist is unique per (name, origin, lib).
type Artist struct {
	ID            int64
	Name          string
	SortName      string
	DateAdded     time.Time
	OriginCity    string
	OriginState   string
	OriginCountry string
	LibID         int64
}

// SetName assigns the artist name, recomputing the derived sort name. An
// empty name is rejected.
func (a *Artist) SetName(name string) error {
	if name == "" {
		return fmt.Errorf("artist name is not nullable")
	}
	a.Name = truncate(name, NameLimit)
	a.SortName = truncate(util.SortName(a.Name), SortNameLimit)
	return nil
}

// SetOrigin assigns the origin triple, normalizing the country to uppercase
// ISO-3166 alpha-3. An unrecognized country is an error; city and state are
// truncated to their caps.
func (a *Artist) SetOrigin(city, state, country string) error {
	iso3, err := util.NormalizeCountry(country, util.CountryISO3)
	if err != nil {
		return err
	}
	a.OriginCity = truncate(city, CityLimit)
	a.OriginState = truncate(state, StateLimit)
	a.OriginCountry = iso3
	return nil
}

// Origin formats the origin as "city, state, country" with empty parts
// omitted.
func (a *Artist) Origin() string {
	out := ""
	for _, part := range []string{a.OriginCity, a.OriginState, a.OriginCountry} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}

// IsVariousArtist reports whether this is the compilations pseudo-artist.
func (a *Artist) IsVariousArtist() bool {
	return a.ID == VariousArtistsID
}

// NewArtist constructs an artist row with the derived sort name populated.
func NewArtist(name string, libID int64) (*Artist, error) {
	a := &Artist{LibID: libID, DateAdded: time.Now()}
	if err := a.SetName(name); err != nil {
		return nil, err
	}
	return a, nil
}

// Album is unique per (title, artist, lib, dates).
type Album struct {
	ID                  int64
	Title               string
	Type                string
	DateAdded           time.Time
	ReleaseDate         PartialDate
	OriginalReleaseDate PartialDate
	RecordingDate       PartialDate
	ArtistID            int64
	LibID               int64
}

// SetTitle assigns the album title, truncating to the cap.
func (a *Album) SetTitle(title string) {
	a.Title = truncate(title, TitleLimit)
}

// Track is unique per (path, lib). AlbumID is zero for single-file tracks
// with no album.
type Track struct {
	ID              int64
	Path            string
	SizeBytes       int64
	CTime           time.Time
	MTime           time.Time
	DateAdded       time.Time
	TimeSecs        float64
	Title           string
	TrackNum        int
	TrackTotal      int
	MediaNum        int
	MediaTotal      int
	BitRate         int
	VariableBitRate bool
	MetadataFormat  string
	ArtistID        int64
	AlbumID         int64
	LibID           int64
}

// SetTitle assigns the track title, truncating to the cap.
func (t *Track) SetTitle(title string) {
	t.Title = truncate(title, TitleLimit)
}

// Tag is a genre label, unique per (name, lib).
type Tag struct {
	ID    int64
	Name  string
	LibID int64
}

var md5Pattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// Image holds artwork attached to an artist or album. Data is loaded lazily;
// row queries leave it nil until LoadImageData is called.
type Image struct {
	ID          int64
	Role        string
	MimeType    string
	MD5         string
	Size        int64
	Description string
	Data        []byte
}

// Validate checks the invariants a programming error could break. An invalid
// md5 aborts the containing transaction rather than truncating.
func (i *Image) Validate() error {
	if !md5Pattern.MatchString(i.MD5) {
		return fmt.Errorf("invalid md5sum: %s", i.MD5)
	}
	i.Description = truncate(i.Description, DescLimit)
	i.MimeType = truncate(i.MimeType, MimeTypeLimit)
	return nil
}
