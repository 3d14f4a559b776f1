package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/franz/mishmash/internal/web"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the read-only catalog browser",
	Long: `Serve a JSON view of the catalog: libraries, artists, albums, search,
and artwork. The browser never writes to the database.`,
	RunE: runWeb,
}

func init() {
	rootCmd.AddCommand(webCmd)
	webCmd.Flags().String("addr", "", "listen address (default from config)")
}

func runWeb(cmd *cobra.Command, args []string) error {
	store, cfg, err := openStore(true)
	if err != nil {
		return err
	}
	defer store.Close()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.WebAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = web.NewServer(store, addr).Run(ctx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
