package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/franz/mishmash/internal/util"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the sync monitor and web browser together",
	Long: `Supervise long-running children of this binary: a monitoring sync
(prompts disabled) and the web browser, as enabled by the [server]
config section. If any child exits with a failure the others are
terminated and its exit status is propagated.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

// childArgs prepends the global flags so children see the same database and
// config file.
func childArgs(args ...string) []string {
	var out []string
	if cfgFile != "" {
		out = append(out, "-c", cfgFile)
	}
	if db := viper.GetString("database"); db != "" {
		out = append(out, "-D", db)
	}
	if viper.GetBool("verbose") {
		out = append(out, "-v")
	}
	if viper.GetBool("quiet") {
		out = append(out, "-q")
	}
	return append(out, args...)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Server.Sync && !cfg.Server.Web {
		return fmt.Errorf("%w: server has no children enabled", util.ErrInvalidConfig)
	}

	exe, err := os.Executable()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Handshake: verify the config and schema before spawning anything
	// long-running.
	handshake := exec.CommandContext(ctx, exe, childArgs("info", "-q")...)
	handshake.Stderr = os.Stderr
	if err := handshake.Run(); err != nil {
		return fmt.Errorf("startup check failed: %w", err)
	}

	childCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type exit struct {
		name string
		err  error
	}
	exits := make(chan exit, 2)

	spawn := func(name string, cmdArgs ...string) {
		child := exec.CommandContext(childCtx, exe, childArgs(cmdArgs...)...)
		child.Stdout = os.Stdout
		child.Stderr = os.Stderr
		util.InfoLog("Starting %s", name)
		go func() { exits <- exit{name, child.Run()} }()
	}

	running := 0
	if cfg.Server.Sync {
		spawn("sync monitor", "sync", "--monitor", "--no-prompt")
		running++
	}
	if cfg.Server.Web {
		spawn("web browser", "web")
		running++
	}

	var failed error
	for i := 0; i < running; i++ {
		res := <-exits
		if res.err != nil && ctx.Err() == nil {
			util.ErrorLog("Child %s exited: %v", res.name, res.err)
			if failed == nil {
				failed = res.err
			}
			// One failure takes the whole group down
			cancel()
		}
	}

	if ctx.Err() != nil {
		util.InfoLog("Server stopped")
		return nil
	}
	if failed != nil {
		var ee *exec.ExitError
		if errors.As(failed, &ee) && ee.ExitCode() > 0 {
			os.Exit(ee.ExitCode())
		}
		return failed
	}
	return nil
}
