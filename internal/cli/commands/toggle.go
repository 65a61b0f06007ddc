package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <file> <enable|disable>",
		Short: "Enable or disable an installed file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			defer env.log.Sync()

			if err := env.mgr.Toggle(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("%s %sd\n", args[0], color.CyanString(args[1]))
			return nil
		},
	}
}
