package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/sync"
	"github.com/franz/mishmash/internal/util"
)

func TestPromptDefault(t *testing.T) {
	var out bytes.Buffer
	c := NewWith(strings.NewReader("\n"), &out)

	got, err := c.Prompt("Artist name", "Converge")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Converge" {
		t.Errorf("Prompt = %q, want default Converge", got)
	}
}

func TestPromptEOF(t *testing.T) {
	c := NewWith(strings.NewReader(""), &bytes.Buffer{})

	_, err := c.Prompt("Anything", "")
	if !errors.Is(err, util.ErrPromptExit) {
		t.Errorf("Prompt at EOF = %v, want ErrPromptExit", err)
	}
}

func TestPromptIntReasks(t *testing.T) {
	var out bytes.Buffer
	c := NewWith(strings.NewReader("nope\n9\n2\n"), &out)

	n, err := c.PromptInt("Which", 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("PromptInt = %d, want 2", n)
	}
	if !strings.Contains(out.String(), "between 1 and 3") {
		t.Error("invalid answers did not re-ask")
	}
}

func TestPromptIntList(t *testing.T) {
	c := NewWith(strings.NewReader("1, 3\n"), &bytes.Buffer{})

	nums, err := c.PromptIntList("Choose", 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if len(nums) != 2 || nums[0] != 1 || nums[1] != 3 {
		t.Errorf("PromptIntList = %v", nums)
	}
}

func TestPromptCountryReasks(t *testing.T) {
	var out bytes.Buffer
	c := NewWith(strings.NewReader("Atlantis\nNetherlands\n"), &out)

	country, err := c.PromptCountry("Country", "")
	if err != nil {
		t.Fatal(err)
	}
	if country != "NLD" {
		t.Errorf("PromptCountry = %q, want NLD", country)
	}
	if !strings.Contains(out.String(), "Unknown country: Atlantis") {
		t.Error("unknown country did not re-ask")
	}
}

func artistRow(id int64, name, city, country string) *catalog.Artist {
	a := &catalog.Artist{ID: id, LibID: catalog.MainLibID}
	a.SetName(name)
	a.OriginCity = city
	a.OriginCountry = country
	return a
}

func TestSelectArtistExisting(t *testing.T) {
	candidates := []*catalog.Artist{
		artistRow(7, "Hurricane", "Liverpool", "GBR"),
		artistRow(9, "Hurricane", "Osaka", "JPN"),
	}

	var out bytes.Buffer
	c := NewWith(strings.NewReader("2\n"), &out)
	chosen, err := c.SelectArtist("pick", candidates, true)
	if err != nil {
		t.Fatal(err)
	}
	if chosen.ID != 9 {
		t.Errorf("chosen id = %d, want 9", chosen.ID)
	}
	if !strings.Contains(out.String(), "Enter a new artist") {
		t.Error("create option not offered")
	}
}

func TestSelectArtistCreateUnique(t *testing.T) {
	candidates := []*catalog.Artist{
		artistRow(7, "Hurricane", "Liverpool", "GBR"),
		artistRow(9, "Hurricane", "Osaka", "JPN"),
	}

	// First attempt duplicates candidate 1 and is rejected; second is new.
	input := "3\nLiverpool\n\nuk\n3\nPortland\nOR\nusa\n"
	var out bytes.Buffer
	c := NewWith(strings.NewReader(input), &out)

	chosen, err := c.SelectArtist("", candidates, true)
	if err != nil {
		t.Fatal(err)
	}
	if chosen.ID != 0 {
		t.Error("created artist should have no id yet")
	}
	if chosen.Name != "Hurricane" || chosen.OriginCity != "Portland" ||
		chosen.OriginCountry != "USA" {
		t.Errorf("created artist = %+v", chosen)
	}
	if !strings.Contains(out.String(), "not unique") {
		t.Error("duplicate identity was accepted")
	}
}

func TestResolveArtistAbortsOnEOF(t *testing.T) {
	candidates := []*catalog.Artist{
		artistRow(7, "Hurricane", "", ""),
		artistRow(9, "Hurricane", "", ""),
	}

	c := NewWith(strings.NewReader(""), &bytes.Buffer{})
	_, err := c.ResolveArtist("Hurricane", candidates, catalog.MainLibID)
	if !errors.Is(err, sync.ErrResolveAbort) {
		t.Errorf("ResolveArtist at EOF = %v, want ErrResolveAbort", err)
	}
}

func TestSelectArtists(t *testing.T) {
	candidates := []*catalog.Artist{
		artistRow(1, "Converge", "Boston", "USA"),
		artistRow(2, "Converge", "", ""),
		artistRow(3, "Converge", "Salem", "USA"),
	}

	c := NewWith(strings.NewReader("1 3\n"), &bytes.Buffer{})
	chosen, err := c.SelectArtists("merge", candidates)
	if err != nil {
		t.Fatal(err)
	}
	if len(chosen) != 2 || chosen[0].ID != 1 || chosen[1].ID != 3 {
		t.Errorf("chosen = %+v", chosen)
	}
}
