package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/catalog"
	"github.com/franz/mishmash/internal/config"
	"github.com/franz/mishmash/internal/console"
	"github.com/franz/mishmash/internal/sync"
	"github.com/franz/mishmash/internal/util"
)

var syncCmd = &cobra.Command{
	Use:   "sync [PATH|LIB ...]",
	Short: "Index audio files into the catalog",
	Long: `Walk each library's roots, read audio metadata, and bring the catalog
in line with the filesystem. With no arguments every configured library
is synced. Arguments name configured libraries or raw directories; raw
directories are indexed into the default Music library.

Fast mode (the default) skips files whose change time matches the
catalog; --speed normal re-reads everything.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().Bool("monitor", false, "keep running and re-sync on filesystem changes")
	syncCmd.Flags().BoolP("force", "f", false, "sync libraries with sync disabled")
	syncCmd.Flags().Bool("no-purge", false, "skip the orphan purge pass")
	syncCmd.Flags().Bool("no-prompt", false, "never prompt; skip ambiguous files")
	syncCmd.Flags().String("speed", "fast", "sync speed: fast or normal")
}

// syncSpecs maps command arguments to library specs. Raw directory paths are
// pooled into the default Music library.
func syncSpecs(cfg *config.Config, args []string) ([]sync.LibrarySpec, error) {
	if len(args) == 0 {
		specs := make([]sync.LibrarySpec, 0, len(cfg.Libraries))
		for _, lib := range cfg.Libraries {
			specs = append(specs, sync.LibrarySpec{
				Name:     lib.Name,
				Paths:    lib.Paths,
				Excludes: lib.Excludes,
				Sync:     lib.Sync,
			})
		}
		if len(specs) == 0 {
			return nil, fmt.Errorf("%w: no libraries configured", util.ErrInvalidConfig)
		}
		return specs, nil
	}

	var specs []sync.LibrarySpec
	var rawPaths []string
	for _, arg := range args {
		if lib := cfg.Library(arg); lib != nil {
			specs = append(specs, sync.LibrarySpec{
				Name:     lib.Name,
				Paths:    lib.Paths,
				Excludes: lib.Excludes,
				Sync:     lib.Sync,
			})
			continue
		}
		fi, err := os.Stat(arg)
		if err != nil || !fi.IsDir() {
			return nil, fmt.Errorf("not a library or directory: %s", arg)
		}
		rawPaths = append(rawPaths, arg)
	}
	if len(rawPaths) > 0 {
		specs = append(specs, sync.LibrarySpec{
			Name:  catalog.MainLibName,
			Paths: rawPaths,
			Sync:  true,
		})
	}
	return specs, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	monitor, _ := cmd.Flags().GetBool("monitor")
	force, _ := cmd.Flags().GetBool("force")
	noPurge, _ := cmd.Flags().GetBool("no-purge")
	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	speed, _ := cmd.Flags().GetString("speed")

	if speed != "fast" && speed != "normal" {
		return fmt.Errorf("invalid --speed %q (want fast or normal)", speed)
	}

	store, cfg, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	specs, err := syncSpecs(cfg, args)
	if err != nil {
		return err
	}

	resolve := sync.NoPromptResolver
	if !noPrompt {
		resolve = console.New().ResolveArtist
	}

	syncer := sync.New(store, sync.Options{
		Fast:          speed == "fast",
		NoPurge:       noPurge,
		Force:         force,
		ResolveArtist: resolve,
	})

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, spec := range specs {
		if _, err := syncer.SyncLibrary(ctx, spec); err != nil {
			if errors.Is(err, context.Canceled) {
				util.InfoLog("Sync interrupted")
				return nil
			}
			// Per-library errors do not abort the batch
			util.ErrorLog("Failed to sync library %s: %v", spec.Name, err)
		}
	}

	if !monitor {
		return nil
	}

	util.InfoLog("Monitoring for changes (ctrl-C to stop)")
	if err := syncer.Monitor(ctx, specs); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
