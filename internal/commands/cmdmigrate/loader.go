package cmdmigrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

var loaderCommand = &cobra.Command{
	Use:   "loader [loader] [version|latest|recommended]",
	Short: "Migrate the modpack and its addons to another mod loader or loader version",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()
		project := cmdshared.LoadProject(ctx)

		loader, err := core.ParseModLoader(args[0])
		if err != nil {
			shared.Exitln(err)
		}
		wanted := "latest"
		if len(args) > 1 {
			wanted = args[1]
		}

		newVersions := project.Pack.Versions
		newVersions.Loader = loader
		newVersions.LoaderVersion, err = resolveLoaderVersion(ctx, core.GetLoaderCache().GetVersions, loader, newVersions.Minecraft, wanted)
		if err != nil {
			shared.Exitln(err)
		}
		if newVersions == project.Pack.Versions {
			fmt.Printf("%s is already on version %s!\n", loader.FriendlyName(), newVersions.LoaderVersion)
			return
		}

		// a version bump on the same loader leaves addon compatibility unchanged
		if loader == project.Pack.Versions.Loader {
			project.Pack.Versions = newVersions
			project.Save(ctx)
			fmt.Printf("Updated %s to version %s\n", loader.FriendlyName(), newVersions.LoaderVersion)
			return
		}

		runMigration(ctx, project, newVersions)
	},
}

func init() {
	migrateCmd.AddCommand(loaderCommand)
}
