package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/camelcase"
	"github.com/igorsobreira/titlecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/leocov-dev/addonpack/core"
	"github.com/leocov-dev/addonpack/fileio"
	"github.com/leocov-dev/addonpack/internal/cmdshared"
	"github.com/leocov-dev/addonpack/internal/shared"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise a modpack",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		paths, err := shared.GetPackPaths()
		if err != nil {
			shared.Exitln(err)
		}

		if err := checkReinit(paths.File); err != nil {
			shared.Exitln(err)
		}

		name := getPackName(cmd)
		authors := getAuthors(cmd)
		version := getPackVersion(cmd)
		description, _ := cmd.Flags().GetString("description")

		mcVersion, err := getMcVersion(cmd)
		if err != nil {
			shared.Exitln(err)
		}

		loader, loaderVersion, err := getModLoader(cmd, mcVersion)
		if err != nil {
			shared.Exitln(err)
		}

		pack := core.NewModpack(name, version, authors, description, core.PackVersions{
			Minecraft:     mcVersion,
			Loader:        loader,
			LoaderVersion: loaderVersion,
		})
		if err := pack.Validate(); err != nil {
			shared.Exitln(err)
		}

		if err := fileio.SaveModpack(pack, paths.Dir); err != nil {
			shared.Exitln(err)
		}
		if err := os.MkdirAll(fileio.IndexDir(pack), os.ModePerm); err != nil {
			shared.Exitln(err)
		}

		fmt.Println(viper.GetString("pack-file") + " created!")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("name", "", "The name of the modpack (omit to define interactively)")
	initCmd.Flags().StringSlice("author", nil, "The authors of the modpack (omit to define interactively)")
	initCmd.Flags().String("version", "", "The version of the modpack (omit to define interactively)")
	initCmd.Flags().String("description", "", "A short description of the modpack")
	initCmd.Flags().String("mc-version", "", "The Minecraft version to use (omit to define interactively)")
	_ = viper.BindPFlag("init.mc-version", initCmd.Flags().Lookup("mc-version"))
	initCmd.Flags().BoolP("latest", "l", false, "Automatically select the latest version of Minecraft")
	_ = viper.BindPFlag("init.latest", initCmd.Flags().Lookup("latest"))
	initCmd.Flags().BoolP("snapshot", "s", false, "Use the latest snapshot version with --latest")
	_ = viper.BindPFlag("init.snapshot", initCmd.Flags().Lookup("snapshot"))
	initCmd.Flags().BoolP("reinit", "r", false, "Recreate the pack file if it already exists, rather than exiting")
	_ = viper.BindPFlag("init.reinit", initCmd.Flags().Lookup("reinit"))
	initCmd.Flags().String("modloader", "", "The mod loader to use (omit to define interactively)")
	_ = viper.BindPFlag("init.modloader", initCmd.Flags().Lookup("modloader"))

	for _, loader := range core.AllLoaders {
		component := core.ModLoaders[loader]
		name := string(component.Name)
		initCmd.Flags().String(name+"-version", "", "The "+component.FriendlyName+" version to use (omit to define interactively)")
		_ = viper.BindPFlag("init."+name+"-version", initCmd.Flags().Lookup(name+"-version"))
		initCmd.Flags().Bool(name+"-latest", false, "Automatically select the latest version of "+component.FriendlyName)
		_ = viper.BindPFlag("init."+name+"-latest", initCmd.Flags().Lookup(name+"-latest"))
	}
}

func checkReinit(packFile string) error {
	_, err := os.Stat(packFile)
	if err == nil && !viper.GetBool("init.reinit") {
		return errors.New("modpack metadata file already exists, use -r to override")
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error checking pack file: %s", err)
	}
	return nil
}

// defaultPackName turns a directory name into a space separated proper name.
func defaultPackName(directoryName string) string {
	if directoryName == "." || directoryName == string(filepath.Separator) || len(directoryName) == 0 {
		return ""
	}
	name := strings.Join(camelcase.Split(directoryName), " ")
	name = strings.ReplaceAll(strings.ReplaceAll(name, " - ", " "), " _ ", " ")
	return titlecase.Title(name)
}

func getPackName(cmd *cobra.Command) string {
	name, err := cmd.Flags().GetString("name")
	if err == nil && len(name) > 0 {
		return name
	}

	directoryName := "."
	if wd, err := os.Getwd(); err == nil {
		directoryName = filepath.Base(wd)
	}
	if def := defaultPackName(directoryName); def != "" {
		return cmdshared.ReadValue("Modpack name ["+def+"]: ", def)
	}
	return cmdshared.ReadValue("Modpack name: ", "")
}

func getAuthors(cmd *cobra.Command) []string {
	authors, err := cmd.Flags().GetStringSlice("author")
	if err == nil && len(authors) > 0 {
		return authors
	}
	author := cmdshared.ReadValue("Author: ", "")
	if author == "" {
		return nil
	}
	return []string{author}
}

func getPackVersion(cmd *cobra.Command) string {
	version, err := cmd.Flags().GetString("version")
	if err != nil || len(version) == 0 {
		version = cmdshared.ReadValue("Version [1.0.0]: ", "1.0.0")
	}
	return version
}

func getMcVersion(cmd *cobra.Command) (string, error) {
	mcVersions, err := core.GetMinecraftVersions(cmd.Context())
	if err != nil {
		return "", fmt.Errorf("failed to get latest minecraft versions: %w", err)
	}

	mcVersion := viper.GetString("init.mc-version")
	if len(mcVersion) == 0 {
		latestVersion := mcVersions.Latest
		if viper.GetBool("init.snapshot") {
			latestVersion = mcVersions.LatestSnapshot
		}
		if viper.GetBool("init.latest") {
			mcVersion = latestVersion
		} else {
			mcVersion = cmdshared.ReadValue("Minecraft version ["+latestVersion+"]: ", latestVersion)
		}
	}
	if !mcVersions.CheckValid(mcVersion) {
		return "", fmt.Errorf("%s is not a known Minecraft version", mcVersion)
	}
	return mcVersion, nil
}

func getModLoader(cmd *cobra.Command, mcVersion string) (core.ModLoader, string, error) {
	modLoaderName := viper.GetString("init.modloader")
	if len(modLoaderName) == 0 {
		modLoaderName = cmdshared.ReadValue("Mod loader [quilt]: ", "quilt")
	}

	loader, err := core.ParseModLoader(modLoaderName)
	if err != nil {
		names := make([]string, len(core.AllLoaders))
		for i, l := range core.AllLoaders {
			names[i] = string(l)
		}
		return "", "", fmt.Errorf("%w, the following mod loaders are supported: %s", err, strings.Join(names, ", "))
	}
	component := core.ModLoaders[loader]

	versions, latestVersion, err := core.GetLoaderCache().GetVersions(cmd.Context(), mcVersion, loader)
	if err != nil {
		return "", "", fmt.Errorf("error loading versions: %w", err)
	}

	componentVersion := viper.GetString("init." + string(loader) + "-version")
	if len(componentVersion) == 0 {
		if viper.GetBool("init." + string(loader) + "-latest") {
			componentVersion = latestVersion
		} else {
			componentVersion = cmdshared.ReadValue(component.FriendlyName+" version ["+latestVersion+"]: ", latestVersion)
		}
	}

	v := componentVersion
	if loader == core.LoaderForge {
		v = shared.GetRawForgeVersion(componentVersion)
	}
	if !slices.Contains(versions, v) {
		return "", "", fmt.Errorf("given %s version cannot be found", component.FriendlyName)
	}
	return loader, v, nil
}
