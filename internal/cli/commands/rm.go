package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewRmCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <file>",
		Short: "Move an installed file to the trash",
		Long:  "Moves the file into the .trash directory inside the scripts dir and sweeps its manifest records. Nothing is deleted permanently.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			defer env.log.Sync()

			if !yes {
				var confirm bool
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Move %s to trash?", args[0]),
					Default: false,
				}
				if err := survey.AskOne(prompt, &confirm); err != nil {
					return err
				}
				if !confirm {
					color.Yellow("Aborted")
					return nil
				}
			}

			if err := env.mgr.Trash(args[0]); err != nil {
				return err
			}
			fmt.Printf("Trashed %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
