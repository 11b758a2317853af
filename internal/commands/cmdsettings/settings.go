package cmdsettings

import (
	"github.com/spf13/cobra"

	"github.com/leocov-dev/addonpack/cmd"
)

// settingsCmd represents the base command when called without any subcommands
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage pack settings",
}

func init() {
	cmd.Add(settingsCmd)
}
