package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/catalog"
)

var randomCmd = &cobra.Command{
	Use:   "random COUNT",
	Short: "Print random track paths",
	Args:  cobra.ExactArgs(1),
	RunE:  runRandom,
}

func init() {
	rootCmd.AddCommand(randomCmd)
}

func runRandom(cmd *cobra.Command, args []string) error {
	count, err := strconv.Atoi(args[0])
	if err != nil || count < 1 {
		return fmt.Errorf("invalid count: %s", args[0])
	}

	store, _, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Transaction(func(sess *catalog.Session) error {
		tracks, err := sess.RandomTracks(count)
		if err != nil {
			return err
		}
		for _, t := range tracks {
			fmt.Println(t.Path)
		}
		return nil
	})
}
