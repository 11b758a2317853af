package cmdsettings

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

// editList applies an add, remove or overwrite of arg to current.
func editList(current []string, arg string, add, remove bool) ([]string, error) {
	switch {
	case add:
		if slices.Contains(current, arg) {
			return nil, fmt.Errorf("%s is already in the list", arg)
		}
		return append(slices.Clone(current), arg), nil
	case remove:
		i := slices.Index(current, arg)
		if i < 0 {
			return nil, fmt.Errorf("%s is not in the list", arg)
		}
		return slices.Delete(slices.Clone(current), i, i+1), nil
	}
	var out []string
	for _, v := range strings.Split(arg, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

var acceptableVersionsCommand = &cobra.Command{
	Use:     "acceptable-versions [versions]",
	Short:   "Manage your pack's acceptable Minecraft versions. This must be a comma seperated list of Minecraft versions, e.g. 1.16.3,1.16.4,1.16.5",
	Aliases: []string{"av"},
	Args:    cobra.MaximumNArgs(1),
	Run: func(c *cobra.Command, args []string) {
		project := cmdshared.LoadProject(c.Context())
		pack := project.Pack

		if len(args) == 0 {
			fmt.Println(strings.Join(pack.GetSupportedMCVersions(), ", "))
			return
		}

		versions, err := editList(pack.Options.AcceptableVersions, args[0],
			viper.GetBool("settings.acceptable-versions.add"), viper.GetBool("settings.acceptable-versions.remove"))
		if err != nil {
			shared.Exitln(err)
		}
		pack.SetAcceptableGameVersions(versions)
		project.Save(c.Context())

		fmt.Printf("Acceptable versions are now %s\n", strings.Join(pack.GetSupportedMCVersions(), ", "))
	},
}

var loadersFlag = &cmdshared.LoaderListValue{}

var acceptableLoadersCommand = &cobra.Command{
	Use:     "acceptable-loaders",
	Short:   "Manage the mod loaders, besides the pack's own, whose files are accepted",
	Aliases: []string{"al"},
	Args:    cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		project := cmdshared.LoadProject(c.Context())
		pack := project.Pack

		if c.Flags().Changed("set") {
			pack.Options.AcceptableLoaders = slices.DeleteFunc(slices.Clone(loadersFlag.Loaders), func(l core.ModLoader) bool {
				return l == pack.Versions.Loader
			})
			project.Save(c.Context())
		}

		names := make([]string, 0)
		for _, l := range pack.GetCompatibleLoaders() {
			names = append(names, string(l))
		}
		fmt.Printf("Accepted loaders: %s\n", strings.Join(names, ", "))
	},
}

func init() {
	settingsCmd.AddCommand(acceptableVersionsCommand)
	settingsCmd.AddCommand(acceptableLoadersCommand)

	// Add and remove flags for adding or removing specific versions
	acceptableVersionsCommand.Flags().BoolP("add", "a", false, "Add a version to the list")
	_ = viper.BindPFlag("settings.acceptable-versions.add", acceptableVersionsCommand.Flags().Lookup("add"))
	acceptableVersionsCommand.Flags().BoolP("remove", "r", false, "Remove a version from the list")
	_ = viper.BindPFlag("settings.acceptable-versions.remove", acceptableVersionsCommand.Flags().Lookup("remove"))

	acceptableLoadersCommand.Flags().Var(loadersFlag, "set", "Comma separated list of accepted loaders, e.g. fabric,forge")
}
