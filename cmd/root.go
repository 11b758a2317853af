package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leocov-dev/addonpack/config"
	"github.com/leocov-dev/addonpack/internal/shared"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "addonpack",
	Short: "A command line tool for creating and migrating Minecraft modpacks",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = config.Version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		shared.Exitln(err)
	}
}

// Add adds a new command as a subcommand to the root command
func Add(newCommand *cobra.Command) {
	rootCmd.AddCommand(newCommand)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("pack-file", "pack.toml", "The modpack metadata file to use")
	_ = viper.BindPFlag("pack-file", rootCmd.PersistentFlags().Lookup("pack-file"))

	rootCmd.PersistentFlags().BoolP("non-interactive", "y", false, "Seek to avoid interactive prompts, using default answers")
	_ = viper.BindPFlag("non-interactive", rootCmd.PersistentFlags().Lookup("non-interactive"))

	rootCmd.PersistentFlags().Bool("best-effort", false, "Skip dependencies that cannot be resolved instead of aborting")
	_ = viper.BindPFlag("best-effort", rootCmd.PersistentFlags().Lookup("best-effort"))
}

// initConfig reads the project .env, the user config file and environment variables
func initConfig() {
	paths, err := shared.GetPackPaths()
	if err != nil {
		shared.Exitln(err)
	}
	if err := config.Load(paths.Dir); err != nil {
		shared.Exitln(err)
	}
}
