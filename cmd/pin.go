package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

// pinAddon sets the pinned flag, optionally moving the addon to a specific version
// first. The updated addon replaces the old one in the index.
func pinAddon(index *core.Index, addon *core.Addon, pinned bool, version string) (*core.Addon, error) {
	updated := addon.Clone()
	if version != "" {
		switch src := addon.Source.(type) {
		case core.ModrinthSource:
			src.VersionID = version
			updated.Source = src
		case core.CurseforgeSource:
			fileID, err := strconv.Atoi(version)
			if err != nil {
				return nil, fmt.Errorf("invalid curseforge file id %q: %w", version, core.ErrInvalidID)
			}
			src.FileID = fileID
			updated.Source = src
		case core.GithubSource:
			src.Tag = version
			updated.Source = src
		}
	}
	updated.Options.Pinned = pinned
	index.Replace(addon, updated)
	return updated, nil
}

func runPin(cmd *cobra.Command, args []string, pinned bool) {
	fmt.Println("Loading modpack...")
	project := cmdshared.LoadProject(cmd.Context())

	addon := project.Index.Select(args[0])
	if addon == nil {
		shared.Exitf("Can't find %s in the modpack%s\n", args[0], didYouMean(project.Index, args[0]))
	}

	version := ""
	if pinned {
		version = viper.GetString("pin.version")
	}
	updated, err := pinAddon(project.Index, addon, pinned, version)
	if err != nil {
		shared.Exitln(err)
	}
	project.Save(cmd.Context())

	message := "pinned"
	if !pinned {
		message = "unpinned"
	}
	fmt.Printf("%s %s successfully!\n", updated.Name, message)
}

// pinCmd represents the pin command
var pinCmd = &cobra.Command{
	Use:     "pin [name]",
	Short:   "Pin an addon so it does not get updated automatically",
	Aliases: []string{"hold"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPin(cmd, args, true)
	},
}

// unpinCmd represents the unpin command
var unpinCmd = &cobra.Command{
	Use:     "unpin [name]",
	Short:   "Unpin an addon so it receives updates",
	Aliases: []string{"unhold"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runPin(cmd, args, false)
	},
}

func init() {
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(unpinCmd)

	pinCmd.Flags().String("version", "", "Pin to this version id, file id or release tag instead of the installed one")
	_ = viper.BindPFlag("pin.version", pinCmd.Flags().Lookup("version"))
}
