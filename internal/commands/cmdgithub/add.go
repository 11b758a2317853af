package cmdgithub

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/cmd"
	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
	"github.com/leocov-dev/addonpack/sources"
)

// releaseFilter decides how future releases are matched against the pack's minecraft
// versions. Without an explicit filter, a tag that mentions the primary minecraft
// version switches to tag filtering.
func releaseFilter(filter, tag, mcVersion string) (core.ReleaseFilter, error) {
	switch core.ReleaseFilter(filter) {
	case core.FilterNone, core.FilterTag, core.FilterTitle:
		return core.ReleaseFilter(filter), nil
	case "":
		if tag != "" {
			if _, ok := sources.FindFilter(tag, mcVersion); ok {
				return core.FilterTag, nil
			}
		}
		return core.FilterNone, nil
	}
	return "", fmt.Errorf("unknown release filter %q, must be one of none, tag or title", filter)
}

// addCmd represents the add github command
var addCmd = &cobra.Command{
	Use:     "github [URL|owner/repo]",
	Short:   "Add a project from a GitHub repository URL or slug",
	Aliases: []string{"gh"},
	Args:    cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()

		project := cmdshared.LoadProject(ctx)
		hub := cmdshared.NewHub()
		target := project.Pack.Target()

		tag := viper.GetString("add.github.tag")
		filter, err := releaseFilter(viper.GetString("add.github.filter"), tag, target.Minecraft)
		if err != nil {
			shared.Exitln(err)
		}

		addon, err := hub.AddGithub(ctx, args[0], tag, filter, viper.GetString("add.github.pattern"), target)
		if err != nil {
			shared.Exitf("Failed to add project: %s\n", err)
		}
		cmdshared.FinishAdd(ctx, project, hub, addon)
	},
}

func init() {
	cmd.AddSource(addCmd)

	addCmd.Flags().String("tag", "", "The release tag to install (defaults to the best matching release)")
	_ = viper.BindPFlag("add.github.tag", addCmd.Flags().Lookup("tag"))
	addCmd.Flags().String("filter", "", "Match releases against the pack's minecraft versions by: none, tag or title")
	_ = viper.BindPFlag("add.github.filter", addCmd.Flags().Lookup("filter"))
	addCmd.Flags().String("pattern", "", "The text to look for in the tag or title, {mc_version} is replaced by each accepted version")
	_ = viper.BindPFlag("add.github.pattern", addCmd.Flags().Lookup("pattern"))
}
