package catalog

import "testing"

func TestParseDate(t *testing.T) {
	testCases := []struct {
		input    string
		expected PartialDate
	}{
		{"1994", PartialDate{Year: 1994}},
		{"1994-06", PartialDate{Year: 1994, Month: 6}},
		{"1994-06-21", PartialDate{Year: 1994, Month: 6, Day: 21}},
		{"2001-01-01", PartialDate{Year: 2001, Month: 1, Day: 1}},
		{"2001-01-01T12:30:00", PartialDate{Year: 2001, Month: 1, Day: 1}},
		{"", PartialDate{}},
	}

	for _, tc := range testCases {
		got, err := ParseDate(tc.input)
		if err != nil {
			t.Fatalf("ParseDate(%q) error: %v", tc.input, err)
		}
		if got != tc.expected {
			t.Errorf("ParseDate(%q) = %+v, want %+v", tc.input, got, tc.expected)
		}
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"junk", "19x4", "1994-13", "0"} {
		if _, err := ParseDate(input); err == nil {
			t.Errorf("ParseDate(%q) expected error", input)
		}
	}
}

// Granularity must round-trip: a year-only date never becomes Jan 1.
func TestPartialDateGranularity(t *testing.T) {
	yearOnly := PartialDate{Year: 1994}
	full := PartialDate{Year: 1994, Month: 1, Day: 1}

	if yearOnly == full {
		t.Fatal("1994 must be distinct from 1994-01-01")
	}
	if yearOnly.String() != "1994" {
		t.Errorf("String() = %q, want 1994", yearOnly.String())
	}
	if full.String() != "1994-01-01" {
		t.Errorf("String() = %q, want 1994-01-01", full.String())
	}

	parsed, err := ParseDate(yearOnly.String())
	if err != nil || parsed != yearOnly {
		t.Errorf("round trip failed: %+v, %v", parsed, err)
	}
}

func TestBestDate(t *testing.T) {
	release, _ := ParseDate("2001")
	original, _ := ParseDate("1994")
	recording, _ := ParseDate("1993-08-01")

	testCases := []struct {
		name     string
		album    *Album
		expected PartialDate
	}{
		{
			name: "original release preferred",
			album: &Album{Type: TypeLP, ReleaseDate: release,
				OriginalReleaseDate: original},
			expected: original,
		},
		{
			name:     "release when no original",
			album:    &Album{Type: TypeLP, ReleaseDate: release},
			expected: release,
		},
		{
			name: "live prefers recording date",
			album: &Album{Type: TypeLive, ReleaseDate: release,
				RecordingDate: recording},
			expected: recording,
		},
		{
			name:     "no dates",
			album:    &Album{Type: TypeLP},
			expected: PartialDate{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := BestDate(tc.album); got != tc.expected {
				t.Errorf("BestDate = %+v, want %+v", got, tc.expected)
			}
		})
	}
}
