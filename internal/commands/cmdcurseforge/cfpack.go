package cmdcurseforge

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/cfpack"
	"github.com/leocov-dev/addonpack/cmd"
	"github.com/leocov-dev/addonpack/fileio"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

// exportCmd represents the export curseforge command
var exportCmd = &cobra.Command{
	Use:     "curseforge",
	Short:   "Export the current modpack into a .zip for CurseForge",
	Aliases: []string{"cf", "curse"},
	Args:    cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()

		fmt.Println("Loading modpack...")
		project := cmdshared.LoadProject(ctx)
		hub := cmdshared.NewHub()

		exporter := &cfpack.Exporter{
			Files:      hub,
			Downloader: fileio.NewDownloader(os.Stdout),
		}
		addons := project.Index.Addons()
		fmt.Printf("Retrieving %v external files...\n", len(addons))
		out, err := exporter.Export(ctx, project.Pack, addons, cfpack.ExportOptions{
			OutputDir:    cmdshared.AbsPath(viper.GetString("export.curseforge.output")),
			OverridesDir: cmdshared.AbsPath(viper.GetString("export.curseforge.overrides")),
		})
		if err != nil {
			shared.Exitf("Failed to export modpack: %s\n", err)
		}
		fmt.Println("Modpack exported to " + out)
	},
}

// importCmd represents the import curseforge command
var importCmd = &cobra.Command{
	Use:     "curseforge [file]",
	Short:   "Import a CurseForge modpack .zip into a new modpack",
	Aliases: []string{"cf", "curse"},
	Args:    cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()
		projectDir := cmdshared.ImportTarget()
		hub := cmdshared.NewHub()

		fmt.Printf("Importing %s...\n", args[0])
		result, err := cfpack.Import(ctx, hub, args[0], projectDir)
		if err != nil {
			shared.Exitf("Failed to import modpack: %s\n", err)
		}
		cmdshared.SaveImported(ctx, projectDir, result.Pack, result.Index, result.Skipped)
	},
}

func init() {
	cmd.AddExporter(exportCmd)
	cmd.AddImporter(importCmd)

	exportCmd.Flags().StringP("output", "o", "", "The directory to write the .zip to (defaults to the pack directory)")
	_ = viper.BindPFlag("export.curseforge.output", exportCmd.Flags().Lookup("output"))
	exportCmd.Flags().String("overrides", "", "The overrides directory to bundle (defaults to the pack's overrides path)")
	_ = viper.BindPFlag("export.curseforge.overrides", exportCmd.Flags().Lookup("overrides"))
}
