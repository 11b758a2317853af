package cmd

import (
	"fmt"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/leocov-dev/addonpack/cfpack"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:     "open [name]",
	Short:   "Open the registry page of an addon in your browser",
	Aliases: []string{"doc"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Loading modpack...")
		project := cmdshared.LoadProject(cmd.Context())

		addon := project.Index.Select(args[0])
		if addon == nil {
			shared.Exitf("Can't find %s in the modpack%s\n", args[0], didYouMean(project.Index, args[0]))
		}

		url := cfpack.ProjectURL(addon)
		fmt.Println("Opening browser...")
		if err := open.Start(url); err != nil {
			fmt.Println("Opening page failed, direct link:")
			fmt.Println(url)
		}
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
