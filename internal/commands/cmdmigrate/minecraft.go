package cmdmigrate

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

var minecraftCommand = &cobra.Command{
	Use:     "minecraft [version]",
	Short:   "Migrate the modpack and its addons to another Minecraft version",
	Aliases: []string{"mc"},
	Args:    cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()
		project := cmdshared.LoadProject(ctx)

		wanted := args[0]
		if wanted == project.Pack.Versions.Minecraft {
			fmt.Printf("Minecraft version is already %s!\n", wanted)
			return
		}
		mcVersions, err := core.GetMinecraftVersions(ctx)
		if err != nil {
			shared.Exitf("Error getting Minecraft versions: %s\n", err)
		}
		if !mcVersions.CheckValid(wanted) {
			shared.Exitf("%s is not a known Minecraft version\n", wanted)
		}

		newVersions := project.Pack.Versions
		newVersions.Minecraft = wanted

		loaderVersion := viper.GetString("migrate.minecraft.loader-version")
		if loaderVersion != "" || !keepsLoaderVersion(newVersions.Loader) {
			newVersions.LoaderVersion, err = resolveLoaderVersion(ctx, core.GetLoaderCache().GetVersions, newVersions.Loader, wanted, loaderVersion)
			if err != nil {
				shared.Exitln(err)
			}
		}

		runMigration(ctx, project, newVersions)
	},
}

func init() {
	migrateCmd.AddCommand(minecraftCommand)

	minecraftCommand.Flags().String("loader-version", "", "The loader version to move to: latest, recommended or a version (forge and neoforge default to latest)")
	_ = viper.BindPFlag("migrate.minecraft.loader-version", minecraftCommand.Flags().Lookup("loader-version"))
}
