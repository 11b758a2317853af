package cmdpackwiz

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/cmd"
	"github.com/leocov-dev/addonpack/fileio"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
	"github.com/leocov-dev/addonpack/packwiz"
)

// exportCmd represents the export packwiz command
var exportCmd = &cobra.Command{
	Use:   "packwiz",
	Short: "Export the current modpack as a packwiz pack directory",
	Args:  cobra.NoArgs,
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()

		fmt.Println("Loading modpack...")
		project := cmdshared.LoadProject(ctx)
		hub := cmdshared.NewHub()

		dir := cmdshared.AbsPath(viper.GetString("export.packwiz.output"))
		if dir == "" {
			dir = filepath.Join(project.Dir, project.Pack.GetExportName()+"-packwiz")
		}

		exporter := &packwiz.Exporter{
			Files:      hub,
			Downloader: fileio.NewDownloader(os.Stdout),
		}
		err := exporter.Export(ctx, project.Pack, project.Index.Addons(), dir, packwiz.ExportOptions{
			OverridesDir: cmdshared.AbsPath(viper.GetString("export.packwiz.overrides")),
		})
		if err != nil {
			shared.Exitf("Failed to export modpack: %s\n", err)
		}
		fmt.Println("Modpack exported to " + dir)
	},
}

// importCmd represents the import packwiz command
var importCmd = &cobra.Command{
	Use:   "packwiz [pack.toml path or URL]",
	Short: "Import a packwiz pack from a directory or URL into a new modpack",
	Args:  cobra.ExactArgs(1),
	Run: func(c *cobra.Command, args []string) {
		ctx := c.Context()
		projectDir := cmdshared.ImportTarget()

		fmt.Printf("Importing %s...\n", args[0])
		result, err := packwiz.Import(ctx, args[0], projectDir)
		if err != nil {
			shared.Exitf("Failed to import modpack: %s\n", err)
		}
		if len(result.Overrides) > 0 {
			fmt.Printf("Copied %d files into %s\n", len(result.Overrides), result.Pack.GetOverridesPath())
		}
		cmdshared.SaveImported(ctx, projectDir, result.Pack, result.Index, result.Skipped)
	},
}

func init() {
	cmd.AddExporter(exportCmd)
	cmd.AddImporter(importCmd)

	exportCmd.Flags().StringP("output", "o", "", "The directory to write the pack to, which must be empty (defaults to <name>-<version>-packwiz)")
	_ = viper.BindPFlag("export.packwiz.output", exportCmd.Flags().Lookup("output"))
	exportCmd.Flags().String("overrides", "", "The overrides directory to copy (defaults to the pack's overrides path)")
	_ = viper.BindPFlag("export.packwiz.overrides", exportCmd.Flags().Lookup("overrides"))
}
