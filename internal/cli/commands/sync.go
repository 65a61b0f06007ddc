package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the manifest with the files on disk",
		Long:  "Walks the scripts directory, re-reads every file's metadata, converges the manifest's pattern indices and settings, and prunes records for files that no longer exist.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			defer env.log.Sync()

			ok, err := env.mgr.Sync(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				color.Yellow("Sync finished with skipped files; see the log")
				return nil
			}
			color.Green("Manifest is in sync")
			return nil
		},
	}
}
