package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all the addons in the modpack",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		project := cmdshared.LoadProject(cmd.Context())

		side := core.Side(viper.GetString("list.side"))
		if side != "" && side != core.SideBoth && side != core.SideServer && side != core.SideClient {
			shared.Exitf("Invalid side %q, must be one of client, server, or both (default)\n", side)
		}

		for _, addon := range filterSide(project.Index.Addons(), side) {
			fmt.Println(formatAddon(addon, viper.GetBool("list.verbose")))
		}
	},
}

func filterSide(addons []*core.Addon, side core.Side) []*core.Addon {
	if side == "" || side == core.SideBoth {
		return addons
	}
	var out []*core.Addon
	for _, addon := range addons {
		if addon.Side == side || addon.Side == core.SideBoth {
			out = append(out, addon)
		}
	}
	return out
}

func formatAddon(addon *core.Addon, verbose bool) string {
	if !verbose {
		return addon.Name
	}
	line := fmt.Sprintf("%s [%s] %s@%s", addon.Name, addon.ProjectType, addon.GenericID(), addon.Source.Version())
	if addon.Side != core.SideBoth {
		line += " (" + string(addon.Side) + ")"
	}
	if addon.Options.Pinned {
		line += " pinned"
	}
	return line
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolP("verbose", "v", false, "Print the registry, id and version of each addon")
	_ = viper.BindPFlag("list.verbose", listCmd.Flags().Lookup("verbose"))
	listCmd.Flags().StringP("side", "s", "", "Filter addons by side (e.g., client or server)")
	_ = viper.BindPFlag("list.side", listCmd.Flags().Lookup("side"))
}
