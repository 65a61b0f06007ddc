package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/greasekit/greasekit/internal/cli/ui"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List managed scripts and styles",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			defer env.log.Sync()

			files, err := env.mgr.Files()
			if err != nil {
				return err
			}

			tbl := ui.NewTable(os.Stdout, []string{"NAME", "FILE", "TYPE", "VERSION", "ENABLED", "UPDATES"}, noColor)
			for _, f := range files {
				version := f.Version()
				if version == "" {
					version = "-"
				}
				tbl.AddRow(f.Name(), f.Filename, string(f.Type), version, yesNo(!f.Disabled), yesNo(f.CanUpdate))
			}
			tbl.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
