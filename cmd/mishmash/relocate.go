package main

import (
	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/util"
)

var relocateCmd = &cobra.Command{
	Use:   "relocate OLDROOT NEWROOT",
	Short: "Rewrite track path prefixes after moving a library",
	Long: `Replace the OLDROOT prefix with NEWROOT on every track path beneath it.
Only whole path components match: relocating /mnt/old does not touch
/mnt/older.`,
	Args: cobra.ExactArgs(2),
	RunE: runRelocate,
}

func init() {
	rootCmd.AddCommand(relocateCmd)
}

func runRelocate(cmd *cobra.Command, args []string) error {
	store, _, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	var moved int64
	err = store.Transaction(func(sess *catalog.Session) error {
		moved, err = sess.RelocateTracks(args[0], args[1])
		return err
	})
	if err != nil {
		return err
	}

	util.SuccessLog("Relocated %d tracks", moved)
	return nil
}
