package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/config"
	"github.com/franz/mishmash/internal/util"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "mishmash",
		Short: "MishMash - index your music collection",
		Long: `MishMash walks your music directories, reads embedded metadata, and
maintains a relational catalog of libraries, artists, albums, tracks,
genres, and artwork. After the initial sync it can monitor the same
directories and re-index incrementally.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default ~/.config/mishmash/config.ini)")
	rootCmd.PersistentFlags().StringP("database", "D", "",
		"database file (overrides config and MISHMASH_DBURL)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initLogging() {
	util.SetVerbose(viper.GetBool("verbose"))
	util.SetQuiet(viper.GetBool("quiet"))
}

// loadConfig resolves the config file and layers the -D flag on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Path(cfgFile))
	if err != nil {
		return nil, err
	}
	if db := viper.GetString("database"); db != "" {
		cfg.DBPath = db
	}
	return cfg, nil
}

// openStore loads the config and opens the catalog. Every command except
// init requires the schema to exist.
func openStore(requireSchema bool) (*catalog.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	util.DebugLog("Opening database: %s", cfg.DBPath)
	store, err := catalog.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if requireSchema {
		if err := store.CheckSchema(); err != nil {
			store.Close()
			return nil, nil, err
		}
	}
	return store, cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, util.ErrMissingSchema) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
