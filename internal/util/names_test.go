package util

import "testing"

func TestSortName(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"The Roots", "Roots, The"},
		{"The The", "The, The"},
		{"Los Lobos", "Lobos, Los"},
		{"La Roux", "Roux, La"},
		{"El Ten Eleven", "Ten Eleven, El"},
		{"Mogwai", "Mogwai"},
		{"Theodore", "Theodore"},
		{"the lowercase", "lowercase, the"},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := SortName(tc.name); got != tc.expected {
			t.Errorf("SortName(%q) = %q, want %q", tc.name, got, tc.expected)
		}
	}
}

func TestSortNameIdempotent(t *testing.T) {
	once := SortName("The Roots")
	if twice := SortName(once); twice != once {
		t.Errorf("SortName not idempotent: %q -> %q", once, twice)
	}
}

func TestMostCommonItem(t *testing.T) {
	testCases := []struct {
		name     string
		items    []string
		expected string
	}{
		{"majority wins", []string{"a", "b", "b"}, "b"},
		{"all unique picks first", []string{"x", "y", "z"}, "x"},
		{"empties ignored", []string{"", "", "c"}, "c"},
		{"no items", nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MostCommonItem(tc.items); got != tc.expected {
				t.Errorf("MostCommonItem(%v) = %q, want %q", tc.items, got, tc.expected)
			}
		})
	}
}

func TestCommonDirectoryPrefix(t *testing.T) {
	got := CommonDirectoryPrefix("/m/Artist/Album/01.mp3", "/m/Artist/Album/02.mp3")
	if got != "/m/Artist/Album" {
		t.Errorf("CommonDirectoryPrefix = %q, want /m/Artist/Album", got)
	}

	if got := CommonDirectoryPrefix("/a/b", "/c/d"); got != "" {
		t.Errorf("disjoint paths: got %q, want empty", got)
	}
}
