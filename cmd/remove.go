package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

func didYouMean(index *core.Index, s string) string {
	suggestions := index.Suggest(s, 3)
	if len(suggestions) == 0 {
		return ""
	}
	return ", did you mean " + strings.Join(suggestions, ", ") + "?"
}

// removeAddons drops every addon named in names. Names that match nothing are returned.
func removeAddons(index *core.Index, names []string) (removed []*core.Addon, missing []string) {
	for _, name := range names {
		addon, ok := index.Remove(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		removed = append(removed, addon)
	}
	return removed, missing
}

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove [name]...",
	Short:   "Remove addons from the modpack by name or id",
	Aliases: []string{"delete", "uninstall", "rm"},
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Loading modpack...")
		project := cmdshared.LoadProject(cmd.Context())

		removed, missing := removeAddons(project.Index, args)
		for _, name := range missing {
			shared.Warnf("Can't find %s in the modpack%s", name, didYouMean(project.Index, name))
		}
		if len(removed) == 0 {
			shared.Exitln("Nothing to remove")
		}

		project.Save(cmd.Context())
		for _, addon := range removed {
			fmt.Printf("%s removed successfully!\n", addon.Name)
		}
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
