package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/catalog"
)

var listCmd = &cobra.Command{
	Use:       "list artists|albums",
	Short:     "List catalog rows in sorted order",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"artists", "albums"},
	RunE:      runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("library", "L", "", "limit output to one library")
}

func runList(cmd *cobra.Command, args []string) error {
	libName, _ := cmd.Flags().GetString("library")

	store, _, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Transaction(func(sess *catalog.Session) error {
		var libID int64
		if libName != "" {
			lib, err := sess.LibraryByName(libName)
			if err != nil {
				return err
			}
			if lib == nil {
				return fmt.Errorf("library not found: %s", libName)
			}
			libID = lib.ID
		}

		switch args[0] {
		case "artists":
			artists, err := sess.AllArtists(libID)
			if err != nil {
				return err
			}
			for _, a := range artists {
				fmt.Println(a.SortName)
			}
		case "albums":
			albums, err := sess.AllAlbums(libID)
			if err != nil {
				return err
			}
			for _, alb := range albums {
				if date := catalog.BestDate(alb); !date.IsZero() {
					fmt.Printf("%s (%s)\n", alb.Title, date)
				} else {
					fmt.Println(alb.Title)
				}
			}
		default:
			return fmt.Errorf("unknown listing: %s", args[0])
		}
		return nil
	})
}
