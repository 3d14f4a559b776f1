package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/console"
	"github.com/franz/mishmash/internal/util"
)

var splitArtistsCmd = &cobra.Command{
	Use:   "split-artists ARTIST",
	Short: "Split one artist name into distinct artists",
	Long: `Interactively split an artist whose name covers several real bands into
distinct rows distinguished by origin. Each album and single track is
then assigned to one of the new artists. Compilation albums keep their
Various Artists credit; only their tracks are reassigned.`,
	Args: cobra.ExactArgs(1),
	RunE: runSplitArtists,
}

func init() {
	rootCmd.AddCommand(splitArtistsCmd)
	splitArtistsCmd.Flags().StringP("library", "L", catalog.MainLibName, "library to operate on")
}

func runSplitArtists(cmd *cobra.Command, args []string) error {
	libName, _ := cmd.Flags().GetString("library")

	store, _, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	con := console.New()
	err = store.Transaction(func(sess *catalog.Session) error {
		return splitArtists(sess, con, libName, args[0])
	})
	if errors.Is(err, util.ErrPromptExit) {
		util.InfoLog("Aborted, nothing changed")
		return nil
	}
	return err
}

func splitArtists(sess *catalog.Session, con *console.Console, libName, name string) error {
	lib, err := sess.LibraryByName(libName)
	if err != nil {
		return err
	}
	if lib == nil {
		return fmt.Errorf("library not found: %s", libName)
	}

	candidates, err := sess.ArtistsByName(name, lib.ID)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("artist not found: %s", name)
	}
	artist := candidates[0]
	if len(candidates) > 1 {
		artist, err = con.SelectArtist(
			fmt.Sprintf("Select which %q to split...", name), candidates, false)
		if err != nil {
			return err
		}
	}

	albums, err := sess.AlbumsByArtist(artist.ID)
	if err != nil {
		return err
	}
	various, err := sess.VariousAlbumsFeaturing(artist.ID)
	if err != nil {
		return err
	}
	albums = append(albums, various...)
	singles, err := sess.TrackSingles(artist.ID)
	if err != nil {
		return err
	}

	if len(albums) < 2 && len(singles) < 2 {
		con.Printf("%d albums and %d singles found for %q, nothing to do.\n",
			len(albums), len(singles), artist.Name)
		return nil
	}

	if len(albums) > 0 {
		con.Printf("%d albums by %s:\n", len(albums), artist.Name)
		for _, alb := range albums {
			con.Printf("   %s  %s\n", catalog.BestDate(alb), alb.Title)
		}
	}
	if len(singles) > 0 {
		con.Printf("%d single tracks by %s:\n", len(singles), artist.Name)
		for _, t := range singles {
			con.Printf("   %s\n", t.Title)
		}
	}

	limit := len(albums)
	if len(singles) > limit {
		limit = len(singles)
	}
	n, err := con.PromptInt("\nEnter the number of distinct artists", 2, limit)
	if err != nil {
		return err
	}

	var splits []*catalog.Artist
	for i := 1; i <= n; i++ {
		con.Printf("\n%s #%d\n", artist.Name, i)
		entered, err := con.PromptArtist("", artist.Name, nil, lib.ID)
		if err != nil {
			return err
		}
		if i == 1 {
			// The first split reuses the original row
			artist.OriginCity = entered.OriginCity
			artist.OriginState = entered.OriginState
			artist.OriginCountry = entered.OriginCountry
			splits = append(splits, artist)
		} else {
			splits = append(splits, entered)
		}
	}

	if !console.OriginsUnique(splits) {
		return fmt.Errorf("artists must be unique")
	}

	if err := sess.UpdateArtist(artist); err != nil {
		return err
	}
	for _, a := range splits[1:] {
		if err := sess.InsertArtist(a); err != nil {
			return err
		}
	}

	con.Printf("\nAssign albums to the correct artist.\n")
	for i, a := range splits {
		origin := a.Origin()
		if origin == "" {
			origin = "no origin"
		}
		con.Printf("Enter %d for %s from %s\n", i+1, a.Name, origin)
	}

	pick := func(label string) (*catalog.Artist, error) {
		choice, err := con.PromptInt(label, 1, len(splits))
		if err != nil {
			return nil, err
		}
		return splits[choice-1], nil
	}

	con.Printf("\n")
	for _, alb := range albums {
		tracks, err := sess.TracksByAlbum(alb.ID)
		if err != nil {
			return err
		}
		paths := make([]string, len(tracks))
		for i, t := range tracks {
			paths[i] = t.Path
		}
		hint := util.PathHint(util.CommonDirectoryPrefix(paths...))

		chosen, err := pick(fmt.Sprintf("%s (%s)", alb.Title, hint))
		if err != nil {
			return err
		}
		if alb.Type != catalog.TypeVarious && alb.ArtistID != chosen.ID {
			alb.ArtistID = chosen.ID
			if err := sess.UpdateAlbum(alb); err != nil {
				return err
			}
		}
		for _, t := range tracks {
			if t.ArtistID == artist.ID && t.ArtistID != chosen.ID {
				t.ArtistID = chosen.ID
				if err := sess.UpdateTrack(t); err != nil {
					return err
				}
			}
		}
	}

	con.Printf("\n")
	for _, t := range singles {
		chosen, err := pick(t.Title)
		if err != nil {
			return err
		}
		if t.ArtistID != chosen.ID {
			t.ArtistID = chosen.ID
			if err := sess.UpdateTrack(t); err != nil {
				return err
			}
		}
	}
	return nil
}
