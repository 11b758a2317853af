package cmdmodrinth

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/cmd"
	"github.com/leocov-dev/addonpack/fileio"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
	"github.com/leocov-dev/addonpack/mrpack"
)

// exportCmd represents the export mrpack command
var exportCmd = &cobra.Command{
	Use:   "mrpack",
	Short: "Export the current modpack into a .mrpack for Modrinth",
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()

		fmt.Println("Loading modpack...")
		project := cmdshared.LoadProject(ctx)
		hub := cmdshared.NewHub()

		exporter := &mrpack.Exporter{
			Files:      hub,
			Downloader: fileio.NewDownloader(os.Stdout),
		}

		addons := project.Index.Addons()
		fmt.Printf("Retrieving %v external files...\n", len(addons))
		out, err := exporter.Export(ctx, project.Pack, addons, mrpack.ExportOptions{
			OutputDir:    cmdshared.AbsPath(viper.GetString("export.mrpack.output")),
			OverridesDir: cmdshared.AbsPath(viper.GetString("export.mrpack.overrides")),
		})
		if err != nil {
			shared.Exitf("Failed to export modpack: %s\n", err)
		}
		fmt.Println("Modpack exported to " + out)
	},
}

// importCmd represents the import mrpack command
var importCmd = &cobra.Command{
	Use:   "mrpack [file]",
	Short: "Import a Modrinth .mrpack into a new modpack",
	Args:  cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()
		projectDir := cmdshared.ImportTarget()
		hub := cmdshared.NewHub()

		fmt.Printf("Importing %s...\n", args[0])
		result, err := mrpack.Import(ctx, hub, args[0], projectDir)
		if err != nil {
			shared.Exitf("Failed to import modpack: %s\n", err)
		}
		cmdshared.SaveImported(ctx, projectDir, result.Pack, result.Index, result.Skipped)
	},
}

func init() {
	cmd.AddExporter(exportCmd)
	cmd.AddImporter(importCmd)

	exportCmd.Flags().StringP("output", "o", "", "The directory to write the .mrpack to (defaults to the pack directory)")
	_ = viper.BindPFlag("export.mrpack.output", exportCmd.Flags().Lookup("output"))
	exportCmd.Flags().String("overrides", "", "The overrides directory to bundle (defaults to the pack's overrides path)")
	_ = viper.BindPFlag("export.mrpack.overrides", exportCmd.Flags().Lookup("overrides"))
}
