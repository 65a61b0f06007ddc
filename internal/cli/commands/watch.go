package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greasekit/greasekit/internal/watch"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the scripts directory and sync on changes",
		Long:  "Watches the scripts directory for edits to .js and .css files and re-syncs the manifest after each change. Runs until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			defer env.log.Sync()

			ctx := cmd.Context()
			onChange := func(paths []string) error {
				env.log.Info("change detected", zap.Strings("paths", paths))
				if _, err := env.mgr.Sync(ctx); err != nil {
					env.log.Error("sync failed", zap.Error(err))
					return err
				}
				fmt.Printf("synced after change to %v\n", paths)
				return nil
			}

			w, err := watch.New(env.cfg.ScriptsDir, []string{env.cfg.ManifestName}, onChange, env.log)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Stop()

			color.Cyan("Watching %s (ctrl-c to stop)", env.cfg.ScriptsDir)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			fmt.Println()
			return nil
		},
	}
}
