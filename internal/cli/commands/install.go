package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewInstallCommand creates the install command. It reads script content
// from a path (or stdin with "-"), shows the parse-only preview, and saves.
func NewInstallCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "install <file|->",
		Short: "Install a userscript or userstyle",
		Long:  "Parse a script or style file, preview what it declares, and save it into the managed scripts directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			defer env.log.Sync()

			content, err := readContent(args[0])
			if err != nil {
				return err
			}

			view, err := env.mgr.InstallCheck(content)
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			bold.Printf("%s", view.Name)
			if view.Version != "" {
				fmt.Printf(" v%s", view.Version)
			}
			fmt.Printf(" (%s)\n", view.Type)
			if view.Description != "" {
				fmt.Println(view.Description)
			}
			fmt.Printf("File: %s\n", view.Filename)
			if len(view.Matches) > 0 {
				fmt.Printf("Matches: %s\n", strings.Join(view.Matches, ", "))
			}
			if len(view.Grants) > 0 {
				fmt.Printf("Grants: %s\n", strings.Join(view.Grants, ", "))
			}

			overwrite := false
			if view.Installed {
				if yes {
					overwrite = true
				} else {
					prompt := &survey.Confirm{
						Message: fmt.Sprintf("%s already exists. Overwrite?", view.Filename),
					}
					if err := survey.AskOne(prompt, &overwrite); err != nil {
						return err
					}
					if !overwrite {
						fmt.Println("Install cancelled.")
						return nil
					}
				}
			}

			res, err := env.mgr.Save(cmd.Context(), content, "", overwrite)
			if err != nil {
				return err
			}
			color.Green("Installed %s", res.File.Filename)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "overwrite without prompting")
	return cmd
}

func readContent(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
