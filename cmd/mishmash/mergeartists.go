package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/console"
	"github.com/franz/mishmash/internal/util"
)

var mergeArtistsCmd = &cobra.Command{
	Use:   "merge-artists ARTIST...",
	Short: "Merge two or more artists into one",
	Long: `Interactively merge artist rows that refer to the same real band. The
row with the lowest id survives; its name and origin are re-prompted
with the most common values as defaults. Albums, tracks, and singles of
the other rows are reassigned before those rows are deleted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMergeArtists,
}

func init() {
	rootCmd.AddCommand(mergeArtistsCmd)
	mergeArtistsCmd.Flags().StringP("library", "L", catalog.MainLibName, "library to operate on")
}

func runMergeArtists(cmd *cobra.Command, args []string) error {
	libName, _ := cmd.Flags().GetString("library")

	store, _, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	con := console.New()
	err = store.Transaction(func(sess *catalog.Session) error {
		return mergeArtists(sess, con, libName, args)
	})
	if errors.Is(err, util.ErrPromptExit) {
		util.InfoLog("Aborted, nothing changed")
		return nil
	}
	return err
}

func mergeArtists(sess *catalog.Session, con *console.Console, libName string,
	names []string) error {

	lib, err := sess.LibraryByName(libName)
	if err != nil {
		return err
	}
	if lib == nil {
		return fmt.Errorf("library not found: %s", libName)
	}

	var mergeList []*catalog.Artist
	seen := make(map[int64]bool)
	add := func(artists ...*catalog.Artist) {
		for _, a := range artists {
			if !seen[a.ID] {
				seen[a.ID] = true
				mergeList = append(mergeList, a)
			}
		}
	}

	for _, name := range names {
		candidates, err := sess.ArtistsByName(name, lib.ID)
		if err != nil {
			return err
		}
		switch len(candidates) {
		case 0:
		case 1:
			add(candidates[0])
		default:
			chosen, err := con.SelectArtists("Select the artists to merge...", candidates)
			if err != nil {
				return err
			}
			add(chosen...)
		}
	}

	if len(mergeList) < 2 {
		if len(mergeList) == 0 {
			return fmt.Errorf("artist not found")
		}
		return fmt.Errorf("only one artist found, nothing to merge")
	}

	// The lowest id survives
	kept := mergeList[0]
	for _, a := range mergeList[1:] {
		if a.ID < kept.ID {
			kept = a
		}
	}

	var allNames, cities, states, countries []string
	for _, a := range mergeList {
		allNames = append(allNames, a.Name)
		cities = append(cities, a.OriginCity)
		states = append(states, a.OriginState)
		countries = append(countries, a.OriginCountry)
	}
	defaults := &catalog.Artist{
		OriginCity:    util.MostCommonItem(cities),
		OriginState:   util.MostCommonItem(states),
		OriginCountry: util.MostCommonItem(countries),
	}
	defaults.Name = util.MostCommonItem(allNames)

	merged, err := con.PromptArtist(
		fmt.Sprintf("Merging %d artists into one...", len(mergeList)),
		"", defaults, lib.ID)
	if err != nil {
		return err
	}

	if err := kept.SetName(merged.Name); err != nil {
		return err
	}
	kept.OriginCity = merged.OriginCity
	kept.OriginState = merged.OriginState
	kept.OriginCountry = merged.OriginCountry
	if err := sess.UpdateArtist(kept); err != nil {
		return err
	}

	for _, other := range mergeList {
		if other.ID == kept.ID {
			continue
		}

		albums, err := sess.AlbumsByArtist(other.ID)
		if err != nil {
			return err
		}
		for _, alb := range albums {
			if alb.Type != catalog.TypeVarious {
				alb.ArtistID = kept.ID
				if err := sess.UpdateAlbum(alb); err != nil {
					return err
				}
			}
			tracks, err := sess.TracksByAlbum(alb.ID)
			if err != nil {
				return err
			}
			for _, t := range tracks {
				if t.ArtistID == other.ID {
					t.ArtistID = kept.ID
					if err := sess.UpdateTrack(t); err != nil {
						return err
					}
				}
			}
		}

		singles, err := sess.TrackSingles(other.ID)
		if err != nil {
			return err
		}
		for _, t := range singles {
			t.ArtistID = kept.ID
			if err := sess.UpdateTrack(t); err != nil {
				return err
			}
		}

		if err := sess.DeleteArtist(other.ID); err != nil {
			return err
		}
	}

	util.SuccessLog("Merged %d artists into %s", len(mergeList), kept.Name)
	return nil
}
