package cmdmodrinth

import (
	"errors"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/cmd"
	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

var projectURLRegex = regexp.MustCompile(`^https?://(?:www\.)?modrinth\.com/(?P<type>mod|plugin|datapack|shader|resourcepack|modpack|project)/(?P<slug>[^/?#]+)(?:/version/(?P<version>[^/?#]+))?`)

// parseProjectRef splits a Modrinth URL into the project slug and an optional
// version id. Anything else is returned unchanged as the project reference.
func parseProjectRef(arg string) (project string, version string) {
	m := projectURLRegex.FindStringSubmatch(arg)
	if m == nil {
		return arg, ""
	}
	return m[projectURLRegex.SubexpIndex("slug")], m[projectURLRegex.SubexpIndex("version")]
}

// addCmd represents the add modrinth command
var addCmd = &cobra.Command{
	Use:     "modrinth [URL|slug|search]",
	Short:   "Add a project from a Modrinth URL, slug/project ID or search",
	Aliases: []string{"mr"},
	Args:    cobra.ArbitraryArgs,
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()

		projectRef := viper.GetString("add.modrinth.project-id")
		versionID := viper.GetString("add.modrinth.version-id")
		if projectRef != "" && len(args) != 0 {
			shared.Exitln("--project-id cannot be used with a separately specified URL/slug/search term")
		}
		if projectRef == "" {
			if len(args) == 0 || len(args[0]) == 0 {
				shared.Exitln("You must specify a project; with the ID flags, or by passing a URL, slug or search term directly.")
			}
			var urlVersion string
			projectRef, urlVersion = parseProjectRef(strings.Join(args, " "))
			if versionID == "" {
				versionID = urlVersion
			}
		}

		project := cmdshared.LoadProject(ctx)
		hub := cmdshared.NewHub()
		target := project.Pack.Target()

		addon, err := hub.AddModrinth(ctx, projectRef, versionID, target)
		if errors.Is(err, core.ErrNotFound) || errors.Is(err, core.ErrInvalidID) {
			projectType := core.ParseProjectType(viper.GetString("add.modrinth.type"))
			hit, ok := cmdshared.SearchAndChoose(ctx, hub, core.RegistryModrinth, projectRef, projectType, target)
			if !ok {
				return
			}
			addon, err = hub.AddModrinth(ctx, hit.ID, "", target)
		}
		if err != nil {
			shared.Exitf("Failed to add project: %s\n", err)
		}

		cmdshared.FinishAdd(ctx, project, hub, addon)
	},
}

func init() {
	cmd.AddSource(addCmd)

	addCmd.Flags().String("project-id", "", "The Modrinth project ID to use")
	_ = viper.BindPFlag("add.modrinth.project-id", addCmd.Flags().Lookup("project-id"))
	addCmd.Flags().String("version-id", "", "The Modrinth version ID to use")
	_ = viper.BindPFlag("add.modrinth.version-id", addCmd.Flags().Lookup("version-id"))
	addCmd.Flags().String("type", "mod", "The project type to search for")
	_ = viper.BindPFlag("add.modrinth.type", addCmd.Flags().Lookup("type"))
}
