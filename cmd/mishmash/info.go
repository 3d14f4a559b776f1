package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/catalog"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show database metadata and per-library counts",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().StringArrayP("library", "L", nil, "limit output to the named libraries")
	infoCmd.Flags().Bool("artists", false, "list each library's artists")
}

func runInfo(cmd *cobra.Command, args []string) error {
	libNames, _ := cmd.Flags().GetStringArray("library")
	showArtists, _ := cmd.Flags().GetBool("artists")

	store, cfg, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	version, err := store.SchemaVersion()
	if err != nil {
		return err
	}
	lastSync, err := store.LastSync()
	if err != nil {
		return err
	}

	fmt.Printf("Database: %s\n", cfg.DBPath)
	if fi, err := os.Stat(cfg.DBPath); err == nil {
		fmt.Printf("Size: %s\n", humanize.Bytes(uint64(fi.Size())))
	}
	fmt.Printf("SQLite: %s\n", catalog.SQLiteVersion())
	fmt.Printf("Schema version: %s\n", version)
	if lastSync.IsZero() {
		fmt.Println("Last sync: never")
	} else {
		fmt.Printf("Last sync: %s\n", humanize.Time(lastSync))
	}

	return store.Transaction(func(sess *catalog.Session) error {
		libs, err := sess.Libraries(libNames)
		if err != nil {
			return err
		}
		for _, lib := range libs {
			counts, err := sess.CountsForLibrary(lib.ID)
			if err != nil {
				return err
			}

			fmt.Printf("\n=== Library: %s ===\n", lib.Name)
			if lib.LastSync.IsZero() {
				fmt.Println("Last sync: never")
			} else {
				fmt.Printf("Last sync: %s\n", humanize.Time(lib.LastSync))
			}
			fmt.Printf("%d artists, %d albums, %d tracks, %d genres\n",
				counts.Artists, counts.Albums, counts.Tracks, counts.Tags)

			if !showArtists {
				continue
			}
			artists, err := sess.AllArtists(lib.ID)
			if err != nil {
				return err
			}
			for _, a := range artists {
				if origin := a.Origin(); origin != "" {
					fmt.Printf("   %s (%s)\n", a.SortName, origin)
				} else {
					fmt.Printf("   %s\n", a.SortName)
				}
			}
		}
		return nil
	})
}
