package console

import (
	"errors"
	"fmt"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/sync"
	"github.com/franz/mishmash/internal/util"
)

// OriginsUnique reports whether no two artists share the same name and
// origin triple.
func OriginsUnique(artists []*catalog.Artist) bool {
	seen := make(map[string]bool)
	for _, a := range artists {
		key := a.Name + "\x00" + a.OriginCity + "\x00" + a.OriginState +
			"\x00" + a.OriginCountry
		if seen[key] {
			return false
		}
		seen[key] = true
	}
	return true
}

// PromptArtist asks for a name and origin, returning an uninserted row
// (ID zero). Defaults prefill the prompts.
func (c *Console) PromptArtist(text string, name string, defaults *catalog.Artist,
	libID int64) (*catalog.Artist, error) {

	if text != "" {
		fmt.Fprintln(c.out, text)
	}

	var defCity, defState, defCountry, defName string
	if defaults != nil {
		defName = defaults.Name
		defCity = defaults.OriginCity
		defState = defaults.OriginState
		defCountry = defaults.OriginCountry
	}

	var err error
	if name == "" {
		name, err = c.PromptRequired("Artist name", defName)
		if err != nil {
			return nil, err
		}
	}

	artist, err := catalog.NewArtist(name, libID)
	if err != nil {
		return nil, err
	}
	if artist.OriginCity, err = c.Prompt("   City", defCity); err != nil {
		return nil, err
	}
	if artist.OriginState, err = c.Prompt("   State", defState); err != nil {
		return nil, err
	}
	if artist.OriginCountry, err = c.PromptCountry("   Country", defCountry); err != nil {
		return nil, err
	}
	return artist, nil
}

// SelectArtist presents the candidates and returns the chosen row, or a new
// uninserted row when the user opts to create one. A created artist must not
// duplicate a candidate's identity.
func (c *Console) SelectArtist(heading string, candidates []*catalog.Artist,
	allowCreate bool) (*catalog.Artist, error) {

	if heading != "" {
		fmt.Fprintln(c.out, heading)
	}

	for {
		for i, a := range candidates {
			origin := a.Origin()
			if origin == "" {
				origin = "no origin"
			}
			fmt.Fprintf(c.out, "   %d) %s (%s)\n", i+1, a.Name, origin)
		}
		max := len(candidates)
		if allowCreate {
			max++
			fmt.Fprintf(c.out, "   %d) Enter a new artist\n", max)
		}

		choice, err := c.PromptInt("Which artist", 1, max)
		if err != nil {
			return nil, err
		}
		if choice <= len(candidates) {
			return candidates[choice-1], nil
		}

		artist, err := c.PromptArtist("", candidates[0].Name, nil, candidates[0].LibID)
		if err != nil {
			return nil, err
		}
		if !OriginsUnique(append(append([]*catalog.Artist{}, candidates...), artist)) {
			fmt.Fprintln(c.out, "Artist entered is not unique, try again...")
			continue
		}
		return artist, nil
	}
}

// SelectArtists presents the candidates and returns one or more chosen rows.
func (c *Console) SelectArtists(heading string, candidates []*catalog.Artist) ([]*catalog.Artist, error) {
	if heading != "" {
		fmt.Fprintln(c.out, heading)
	}
	for i, a := range candidates {
		origin := a.Origin()
		if origin == "" {
			origin = "no origin"
		}
		fmt.Fprintf(c.out, "   %d) %s (%s)\n", i+1, a.Name, origin)
	}

	nums, err := c.PromptIntList("Choose one or more artists", 1, len(candidates))
	if err != nil {
		return nil, err
	}

	var chosen []*catalog.Artist
	seen := make(map[int]bool)
	for _, n := range nums {
		if seen[n] {
			continue
		}
		seen[n] = true
		chosen = append(chosen, candidates[n-1])
	}
	return chosen, nil
}

// ResolveArtist adapts the console into the sync pipeline's disambiguation
// callback. Ctrl-D aborts the file rather than the sync.
func (c *Console) ResolveArtist(name string, candidates []*catalog.Artist,
	libID int64) (*catalog.Artist, error) {

	heading := fmt.Sprintf("Multiple artists match %q, select one...", name)
	artist, err := c.SelectArtist(heading, candidates, true)
	if errors.Is(err, util.ErrPromptExit) {
		return nil, sync.ErrResolveAbort
	}
	return artist, err
}
