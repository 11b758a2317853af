package cmd

import (
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"install", "get"},
	Short:   "Add a project and its required dependencies from a registry",
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Create a modpack from a pack in another format",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the modpack to another format",
}

// AddSource registers a registry specific "add" subcommand
func AddSource(c *cobra.Command) {
	addCmd.AddCommand(c)
}

// AddImporter registers a pack format under "import"
func AddImporter(c *cobra.Command) {
	importCmd.AddCommand(c)
}

// AddExporter registers a pack format under "export"
func AddExporter(c *cobra.Command) {
	exportCmd.AddCommand(c)
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
