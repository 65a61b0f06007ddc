package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewResolveCommand creates the resolve command: URL in, injection plan out.
func NewResolveCommand() *cobra.Command {
	var (
		top      bool
		asJSON   bool
		planFull bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "Show which files inject on a URL",
		Long:  "Resolve a page URL against the manifest's pattern indices and print the files that would inject, optionally assembled into the full grouped plan.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			defer env.log.Sync()

			files, err := env.resolver.Resolve(args[0])
			if err != nil {
				return err
			}

			if !planFull {
				if asJSON {
					return json.NewEncoder(os.Stdout).Encode(files)
				}
				if len(files) == 0 {
					color.Yellow("Nothing injects on %s", args[0])
					return nil
				}
				for _, f := range files {
					fmt.Println(f)
				}
				return nil
			}

			plan, err := env.resolver.Assemble(files, top)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(plan)
			}

			for _, s := range plan.Styles {
				fmt.Printf("style  w%-3d  %s\n", s.Weight, s.Filename)
			}
			for inject, timings := range plan.Scripts {
				for runAt, entries := range timings {
					for _, e := range entries {
						fmt.Printf("script %s/%s  w%-3d  %s\n", inject, runAt, e.Weight, e.Filename)
					}
				}
			}
			for inject, entries := range plan.Menu {
				for _, e := range entries {
					fmt.Printf("menu   %s  %s (%s)\n", inject, e.Filename, e.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&top, "top", true, "treat the request as coming from the top-level frame")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	cmd.Flags().BoolVar(&planFull, "plan", false, "assemble the full grouped injection plan")
	return cmd
}
