package sync

import (
	"testing"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/tagread"
)

func view(artist, albumArtist, album, hint string) *tagread.AudioFile {
	v := &tagread.AudioFile{}
	v.Tag.Artist = artist
	v.Tag.AlbumArtist = albumArtist
	v.Tag.Album = album
	v.Tag.AlbumTypeHint = hint
	return v
}

func repeatViews(n int, artist, album string) []*tagread.AudioFile {
	views := make([]*tagread.AudioFile, n)
	for i := range views {
		views[i] = view(artist, "", album, "")
	}
	return views
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		views    []*tagread.AudioFile
		expected string
	}{
		{
			name:     "empty directory",
			views:    nil,
			expected: "",
		},
		{
			name:     "full album over ep size",
			views:    repeatViews(10, "Converge", "Jane Doe"),
			expected: catalog.TypeLP,
		},
		{
			name:     "small release is an ep",
			views:    repeatViews(4, "Converge", "On My Shield"),
			expected: catalog.TypeEP,
		},
		{
			name:     "ep boundary is six tracks",
			views:    repeatViews(6, "Converge", "Unloved and Weeded Out"),
			expected: catalog.TypeEP,
		},
		{
			name: "stray files are singles",
			views: []*tagread.AudioFile{
				view("Converge", "", "", ""),
				view("Converge", "", "Jane Doe", ""),
			},
			expected: catalog.TypeSingle,
		},
		{
			name: "many artists one album is various",
			views: []*tagread.AudioFile{
				view("NOFX", "", "Punk-O-Rama", ""),
				view("Rancid", "", "Punk-O-Rama", ""),
				view("Pennywise", "", "Punk-O-Rama", ""),
			},
			expected: catalog.TypeVarious,
		},
		{
			name: "various artists album artist accepted",
			views: []*tagread.AudioFile{
				view("NOFX", "Various Artists", "Punk-O-Rama", ""),
				view("Rancid", "Various Artists", "Punk-O-Rama", ""),
			},
			expected: catalog.TypeVarious,
		},
		{
			name: "named album artist defeats various shape",
			views: []*tagread.AudioFile{
				view("NOFX", "NOFX", "Heavy Petting Zoo", ""),
				view("El Hefe", "NOFX", "Heavy Petting Zoo", ""),
			},
			expected: catalog.TypeEP,
		},
		{
			name: "single hint wins",
			views: []*tagread.AudioFile{
				view("Converge", "", "Demo 94", "demo"),
				view("Converge", "", "Demo 94", ""),
			},
			expected: catalog.TypeDemo,
		},
		{
			name: "hint overrides various shape",
			views: []*tagread.AudioFile{
				view("NOFX", "", "Split Series", "compilation"),
				view("Rancid", "", "Split Series", "compilation"),
			},
			expected: catalog.TypeCompilation,
		},
		{
			name: "conflicting hints give up",
			views: []*tagread.AudioFile{
				view("Converge", "", "Jane Doe", "lp"),
				view("Converge", "", "Jane Doe", "live"),
			},
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.views); got != tc.expected {
				t.Errorf("Classify = %q, want %q", got, tc.expected)
			}
		})
	}
}
