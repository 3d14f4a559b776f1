package main

import (
	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/util"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema",
	Long: `Create the catalog tables and provision the built-in rows (the null
library sentinel, the default Music library, and the Various Artists
pseudo-artist). Safe to re-run; an up-to-date schema is left alone.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("drop-all", false, "drop existing tables before creating")
}

func runInit(cmd *cobra.Command, args []string) error {
	dropAll, _ := cmd.Flags().GetBool("drop-all")

	store, cfg, err := openStore(false)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Init(dropAll); err != nil {
		return err
	}
	util.SuccessLog("Database initialized: %s", cfg.DBPath)
	return nil
}
