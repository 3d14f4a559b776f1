package tagread

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/util"
)

// AudioExtensions are the supported audio file extensions.
var AudioExtensions = []string{
	".mp3",
	".flac",
	".m4a",
	".m4b",
	".mp4",
	".aac",
	".ogg",
	".oga",
	".opus",
	".wav",
	".aiff",
	".aif",
	".wma",
}

var audioExtMap = func() map[string]bool {
	m := make(map[string]bool, len(AudioExtensions))
	for _, ext := range AudioExtensions {
		m[ext] = true
	}
	return m
}()

// IsAudioFile checks if a file has a supported audio extension.
func IsAudioFile(path string) bool {
	return audioExtMap[strings.ToLower(filepath.Ext(path))]
}

// Info holds the audio properties of a file.
type Info struct {
	SizeBytes       int64
	TimeSecs        float64
	BitRate         int
	VariableBitRate bool
}

// Tag holds the parsed metadata of a file.
type Tag struct {
	Title       string
	Artist      string
	AlbumArtist string
	Album       string

	TrackNum   int
	TrackTotal int
	DiscNum    int
	DiscTotal  int

	Genres []string

	ReleaseDate         catalog.PartialDate
	OriginalReleaseDate catalog.PartialDate
	RecordingDate       catalog.PartialDate

	AlbumTypeHint string

	OriginCity    string
	OriginState   string
	OriginCountry string

	Pictures []*tag.Picture
}

// AudioFile is the read-only view of one file on disk: its audio properties
// and its parsed tag.
type AudioFile struct {
	Path           string
	MetadataFormat string
	Info           Info
	Tag            Tag
}

// ReadFile opens the file and extracts tags plus audio properties. Tags come
// from the tag parser; duration and bitrate come from ffprobe, which the tag
// parser does not provide. A missing ffprobe degrades to tags only.
func ReadFile(path string) (*AudioFile, error) {
	if !IsAudioFile(path) {
		return nil, fmt.Errorf("%w: %s", util.ErrUnsupportedFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags from %s: %w", path, err)
	}

	audio := &AudioFile{
		Path:           path,
		MetadataFormat: string(m.Format()),
		Info:           Info{SizeBytes: stat.Size()},
	}
	readTag(&audio.Tag, m)

	if info, err := runFFprobe(path); err != nil {
		util.DebugLog("ffprobe unavailable for %s: %v", path, err)
	} else {
		timeSecs, bitRate, codec := info.audioProperties()
		audio.Info.TimeSecs = timeSecs
		audio.Info.BitRate = bitRate
		// Lossless codecs are inherently variable rate
		audio.Info.VariableBitRate = isLosslessCodec(codec)
	}

	return audio, nil
}

func readTag(t *Tag, m tag.Metadata) {
	t.Title = m.Title()
	t.Artist = m.Artist()
	t.AlbumArtist = m.AlbumArtist()
	t.Album = m.Album()
	t.TrackNum, t.TrackTotal = m.Track()
	t.DiscNum, t.DiscTotal = m.Disc()
	t.Genres = splitGenres(m.Genre())
	t.Pictures = framePictures(m)

	raw := m.Raw()
	t.ReleaseDate = frameDate(raw, "TDRL", "date", "DATE", "\xa9day")
	t.OriginalReleaseDate = frameDate(raw, "TDOR", "TORY", "originaldate", "ORIGINALDATE")
	t.RecordingDate = frameDate(raw, "TDRC", "TYER")

	// Year-only fallback for formats with a single date field
	if t.ReleaseDate.IsZero() && t.OriginalReleaseDate.IsZero() &&
		t.RecordingDate.IsZero() && m.Year() > 0 {
		t.ReleaseDate = catalog.PartialDate{Year: m.Year()}
	}

	t.AlbumTypeHint = strings.TrimSpace(userText(raw, albumTypeFrame))
	if origin := userText(raw, artistOriginFrame); origin != "" {
		t.OriginCity, t.OriginState, t.OriginCountry = parseArtistOrigin(origin)
	}
}

func frameDate(raw map[string]interface{}, keys ...string) catalog.PartialDate {
	text := frameText(raw, keys...)
	if text == "" {
		return catalog.PartialDate{}
	}
	date, err := catalog.ParseDate(text)
	if err != nil {
		util.DebugLog("Unparseable date frame %q: %v", text, err)
		return catalog.PartialDate{}
	}
	return date
}
