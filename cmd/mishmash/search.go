package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/catalog"
)

var searchCmd = &cobra.Command{
	Use:   "search PATTERN",
	Short: "Substring search across artists, albums, and tracks",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Transaction(func(sess *catalog.Session) error {
		results, err := sess.Search(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Artists (%d):\n", len(results.Artists))
		for _, a := range results.Artists {
			if origin := a.Origin(); origin != "" {
				fmt.Printf("   %s (%s)\n", a.Name, origin)
			} else {
				fmt.Printf("   %s\n", a.Name)
			}
		}

		fmt.Printf("Albums (%d):\n", len(results.Albums))
		for _, alb := range results.Albums {
			if date := catalog.BestDate(alb); !date.IsZero() {
				fmt.Printf("   %s (%s)\n", alb.Title, date)
			} else {
				fmt.Printf("   %s\n", alb.Title)
			}
		}

		fmt.Printf("Tracks (%d):\n", len(results.Tracks))
		for _, t := range results.Tracks {
			fmt.Printf("   %s (%s)\n", t.Title, t.Path)
		}
		return nil
	})
}
