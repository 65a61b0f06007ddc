package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/greasekit/greasekit/updater"
)

func NewUpdateCommand() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "update [file]",
		Short: "Check installed files for newer remote versions",
		Long:  "Checks files that declare both a version and an update URL against their remotes. With --apply, newer content is downloaded and written in place.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			defer env.log.Sync()

			ctx := cmd.Context()

			var updates []updater.Update
			clean := true
			if len(args) == 1 {
				u, err := env.mgr.CheckUpdate(ctx, args[0])
				if err != nil {
					return err
				}
				if u != nil {
					updates = append(updates, *u)
				}
			} else {
				updates, clean, err = env.mgr.CheckUpdates(ctx)
				if err != nil {
					return err
				}
			}

			if len(updates) == 0 {
				color.Green("Everything is up to date")
			}
			for _, u := range updates {
				fmt.Printf("%s: %s -> %s\n", u.Filename, u.CurrentVersion, color.CyanString(u.RemoteVersion))
				if apply {
					if err := env.mgr.ApplyUpdate(ctx, u); err != nil {
						return err
					}
					fmt.Printf("  applied\n")
				}
			}
			if !clean {
				color.Yellow("Some files could not be checked; see the log")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "download and install available updates")
	return cmd
}
